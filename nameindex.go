package geostore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxPrefixMatches caps the fallback prefix scan. It is a hard cap: hitting
// it fails the whole lookup, no partial result is returned.
const maxPrefixMatches = 2000

// Prefix ratio heuristic defaults. Prefixes shorter than shortPrefixLen
// only match keys at most twice their length; the values are tunable via
// store options because the rule is a precision choice, not a correctness
// requirement.
const (
	defaultShortPrefixLen = 3
	defaultPrefixRatio    = 0.5
)

// maxFuzzyDistance caps FuzzyLookup to prevent expensive full scans with
// high edit distances.
const maxFuzzyDistance = 3

// NameIndex answers exact and prefix name lookups. Prefix queries use the
// precomputed prefix table when the snapshot has one and the query is
// short enough for it; longer queries fall back to a bounded linear scan
// over the exact-name index.
type NameIndex struct {
	names    SortedIndexReader
	prefixes SortedIndexReader // nil when the snapshot has no prefix table

	maxPrefixLen   int // from prefix table metadata
	shortPrefixLen int
	ratio          float64
	maxMatches     int
}

func newNameIndex(names, prefixes SortedIndexReader, shortPrefixLen int, ratio float64, maxMatches int) (*NameIndex, error) {
	n := &NameIndex{
		names:          names,
		prefixes:       prefixes,
		shortPrefixLen: shortPrefixLen,
		ratio:          ratio,
		maxMatches:     maxMatches,
	}
	if prefixes != nil {
		raw, ok := prefixes.Metadata(metaMaxPrefixLength)
		if !ok {
			return nil, &MissingMetadataError{Index: string(KindPrefix), Key: metaMaxPrefixLength}
		}
		maxLen, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("prefix index metadata %s: %w", metaMaxPrefixLength, err)
		}
		n.maxPrefixLen = maxLen
	}
	return n, nil
}

// ExactLookup returns the feature ids stored under name. An absent name
// yields an empty result, never an error.
func (n *NameIndex) ExactLookup(name string) ([]FeatureId, error) {
	value, ok, err := n.names.Get([]byte(name))
	if err != nil {
		return nil, fmt.Errorf("name lookup %q: %w", name, err)
	}
	if !ok {
		return nil, nil
	}
	return decodeIdList(value)
}

// PrefixLookup returns the feature ids of every stored name starting with
// name. Queries the prefix table covers are answered from it directly;
// everything else scans the exact-name index forward from the prefix.
func (n *NameIndex) PrefixLookup(name string) ([]FeatureId, error) {
	if n.prefixes != nil && len(name) <= n.maxPrefixLen {
		value, ok, err := n.prefixes.Get([]byte(name))
		if err != nil {
			return nil, fmt.Errorf("prefix lookup %q: %w", name, err)
		}
		if !ok {
			return nil, nil
		}
		return decodeIdList(value)
	}
	return n.scanPrefix(name)
}

// scanPrefix is the fallback path: seek to the first key >= name and walk
// forward while keys keep the prefix. The first scanned key may land just
// before the matching range, so a single non-matching first key is skipped
// rather than ending the scan.
func (n *NameIndex) scanPrefix(name string) ([]FeatureId, error) {
	var results []FeatureId
	first := true
	for key, value := range n.names.ScanFrom([]byte(name)) {
		k := string(key)
		matches := strings.HasPrefix(k, name)
		if !matches {
			if first {
				first = false
				continue
			}
			break
		}
		first = false
		if !n.acceptMatch(name, k) {
			continue
		}
		ids, err := decodeIdList(value)
		if err != nil {
			return nil, fmt.Errorf("prefix scan %q at key %q: %w", name, k, err)
		}
		results = append(results, ids...)
		if len(results) > n.maxMatches {
			return nil, &TooManyMatchesError{Prefix: name, Limit: n.maxMatches}
		}
	}
	return results, nil
}

// acceptMatch applies the short-prefix ratio heuristic: very short query
// prefixes do not match disproportionately long keys.
func (n *NameIndex) acceptMatch(name, key string) bool {
	if len(name) >= n.shortPrefixLen {
		return true
	}
	return float64(len(name))/float64(len(key)) >= n.ratio
}

// FuzzyLookup returns feature ids for stored names within maxDist edits of
// name, for typo tolerance. maxDist is capped; a non-positive maxDist
// degrades to an exact lookup. This walks the whole name index, so it is a
// fallback for interactive use, not a bulk operation.
func (n *NameIndex) FuzzyLookup(name string, maxDist int) ([]FeatureId, error) {
	if maxDist <= 0 {
		return n.ExactLookup(name)
	}
	if maxDist > maxFuzzyDistance {
		maxDist = maxFuzzyDistance
	}
	if len(name) <= 2 {
		// Too short to match meaningfully at any edit distance.
		return n.ExactLookup(name)
	}

	lower := strings.ToLower(name)
	var results []FeatureId
	for key, value := range n.names.ScanFrom(nil) {
		k := string(key)
		// Length difference is a lower bound on edit distance.
		if len(k)-len(name) > maxDist || len(name)-len(k) > maxDist {
			continue
		}
		if levenshtein.ComputeDistance(lower, strings.ToLower(k)) > maxDist {
			continue
		}
		ids, err := decodeIdList(value)
		if err != nil {
			return nil, fmt.Errorf("fuzzy scan %q at key %q: %w", name, k, err)
		}
		results = append(results, ids...)
		if len(results) > n.maxMatches {
			return nil, &TooManyMatchesError{Prefix: name, Limit: n.maxMatches}
		}
	}
	return results, nil
}
