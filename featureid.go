package geostore

import (
	"encoding/binary"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeatureId is the canonical identifier for a geocoded place. One numeric
// value backs all three surface forms: the decimal string, the legacy 24
// hex character object id, and the "namespace:identifier" slug.
type FeatureId uint64

// legacyIdLen is the fixed width of the legacy hex representation. Legacy
// ids share the Mongo ObjectID shape: 12 bytes as 24 hex characters. The
// numeric value lives in the low 8 bytes; the leading 4 bytes are ignored
// on parse and emitted as zero on format.
const legacyIdLen = 24

// Legacy returns the fixed-width legacy hex form of the id.
func (f FeatureId) Legacy() string {
	var b [12]byte
	binary.BigEndian.PutUint64(b[4:], uint64(f))
	return primitive.ObjectID(b).Hex()
}

// Slug returns the canonical "namespace:identifier" surface form.
func (f FeatureId) Slug(namespace string) string {
	return namespace + ":" + strconv.FormatUint(uint64(f), 10)
}

func (f FeatureId) String() string {
	return strconv.FormatUint(uint64(f), 10)
}

// IdKind tags the representation an input string parsed as.
type IdKind int

const (
	IdNumeric IdKind = iota
	IdLegacy
	IdSlug
	IdUnparseable
)

func (k IdKind) String() string {
	switch k {
	case IdNumeric:
		return "numeric"
	case IdLegacy:
		return "legacy"
	case IdSlug:
		return "slug"
	default:
		return "unparseable"
	}
}

// ParsedId is the result of the total id parse. Numeric and legacy forms
// carry the resolved FeatureId directly; slug candidates carry the string
// to be resolved against the slug index.
type ParsedId struct {
	Kind  IdKind
	Id    FeatureId
	Input string
}

// ParseId classifies an identifier string. It is total: every input maps to
// exactly one of numeric, legacy, slug candidate, or unparseable. Numeric
// and legacy are tried in that order; anything else with content is a slug
// candidate (slugs are arbitrary human strings, not only "ns:id" forms).
func ParseId(s string) ParsedId {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ParsedId{Kind: IdUnparseable, Input: s}
	}
	if n, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		return ParsedId{Kind: IdNumeric, Id: FeatureId(n), Input: s}
	}
	if len(trimmed) == legacyIdLen {
		if oid, err := primitive.ObjectIDFromHex(trimmed); err == nil {
			return ParsedId{Kind: IdLegacy, Id: FeatureId(binary.BigEndian.Uint64(oid[4:])), Input: s}
		}
	}
	return ParsedId{Kind: IdSlug, Input: s}
}

// ParseFeatureId parses the two self-contained representations (numeric,
// legacy). Slug candidates need an index lookup and are a ParseError here.
func ParseFeatureId(s string) (FeatureId, error) {
	p := ParseId(s)
	switch p.Kind {
	case IdNumeric, IdLegacy:
		return p.Id, nil
	default:
		return 0, &ParseError{Input: s}
	}
}
