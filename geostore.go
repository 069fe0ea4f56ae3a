// Package geostore is the read path of a geocoding engine: it composes
// immutable, sorted on-disk indices behind one query facade covering exact
// name, name prefix, feature id, slug, and reverse-geocode lookups, with a
// hotfix overlay loaded from flat files on top.
//
// All index state is immutable after Open; concurrent lookups need no
// locking here as long as the supplied SortedIndexReader implementations
// are safe for concurrent reads.
package geostore

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang/geo/s2"
)

// Config contains the tunables for a Store. Zero values select defaults.
type Config struct {
	Logger           *slog.Logger
	Warm             bool    // full linear pre-warm scan of each index before serving
	HotfixDir        string  // directory holding the optional hotfix text files
	ShortPrefixLen   int     // prefix length below which the ratio heuristic applies
	PrefixRatio      float64 // minimum len(prefix)/len(key) for short prefixes
	MaxPrefixMatches int     // hard cap on prefix fallback scan results
}

// Option is a functional option for configuring a Store.
type Option func(*Config)

// WithLogger sets the logger used for open and warm progress.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithWarm enables an eager linear scan of every index at open time, so
// first queries do not pay cold I/O.
func WithWarm() Option {
	return func(c *Config) { c.Warm = true }
}

// WithHotfixDir sets the directory the hotfix files are loaded from.
func WithHotfixDir(dir string) Option {
	return func(c *Config) { c.HotfixDir = dir }
}

// WithPrefixRatio overrides the short-prefix ratio heuristic threshold.
func WithPrefixRatio(ratio float64) Option {
	return func(c *Config) { c.PrefixRatio = ratio }
}

// WithShortPrefixLen overrides the length below which the ratio heuristic
// applies to prefix scans.
func WithShortPrefixLen(n int) Option {
	return func(c *Config) { c.ShortPrefixLen = n }
}

// WithMaxPrefixMatches overrides the hard cap on prefix scan results.
func WithMaxPrefixMatches(n int) Option {
	return func(c *Config) { c.MaxPrefixMatches = n }
}

func defaultConfig() *Config {
	return &Config{
		Logger:           slog.Default(),
		ShortPrefixLen:   defaultShortPrefixLen,
		PrefixRatio:      defaultPrefixRatio,
		MaxPrefixMatches: maxPrefixMatches,
	}
}

// Store composes the per-kind indices behind one query facade. Every
// operation is a pure function of the immutable indices plus its input.
type Store struct {
	names      *NameIndex
	features   *FeatureIndex
	geometries *GeometryIndex   // nil when the snapshot has no geometry index
	reverseGeo *ReverseGeoIndex // nil when the snapshot has no s2 index
	slugs      *SlugIndex       // nil when the snapshot has no slug mapping
	hotfixes   *HotfixOverlay
	logger     *slog.Logger
}

// Open constructs a Store over the supplied readers, keyed by index kind.
// Name and feature indices are required; the rest are optional and their
// absence only surfaces when an operation needs them. All metadata the
// indices depend on is validated here, not on first query.
func Open(readers map[IndexKind]SortedIndexReader, opts ...Option) (*Store, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	for kind, spec := range indexSpecs {
		if spec.required && readers[kind] == nil {
			return nil, fmt.Errorf("opening store: %w", &IndexNotBuiltError{Kind: kind})
		}
	}

	names, err := newNameIndex(readers[KindName], readers[KindPrefix],
		cfg.ShortPrefixLen, cfg.PrefixRatio, cfg.MaxPrefixMatches)
	if err != nil {
		return nil, fmt.Errorf("opening name index: %w", err)
	}

	s := &Store{
		names:    names,
		features: newFeatureIndex(readers[KindFeature]),
		logger:   cfg.Logger,
	}
	if r := readers[KindGeometry]; r != nil {
		s.geometries = newGeometryIndex(r)
	} else {
		cfg.Logger.Debug("geometry index not built, polygon lookups unavailable")
	}
	if r := readers[KindCell]; r != nil {
		s.reverseGeo, err = newReverseGeoIndex(r)
		if err != nil {
			return nil, fmt.Errorf("opening s2 index: %w", err)
		}
	} else {
		cfg.Logger.Debug("s2 index not built, reverse geocoding unavailable")
	}
	if r := readers[KindSlug]; r != nil {
		s.slugs = newSlugIndex(r)
	}

	s.hotfixes, err = LoadHotfixes(cfg.HotfixDir)
	if err != nil {
		return nil, fmt.Errorf("loading hotfixes: %w", err)
	}

	if cfg.Warm {
		s.warm(readers)
	}
	return s, nil
}

// warm runs a full linear scan of each index, single-threaded, before any
// query is served. The scan itself is the point: it pulls the index pages
// through the readers once so first queries do not pay cold I/O.
func (s *Store) warm(readers map[IndexKind]SortedIndexReader) {
	for kind, reader := range readers {
		if reader == nil {
			continue
		}
		start := time.Now()
		entries := 0
		for range reader.ScanFrom(nil) {
			entries++
		}
		s.logger.Info("warmed index",
			"kind", string(kind), "entries", entries, "elapsed", time.Since(start))
	}
}

// Hotfixes returns the overlay loaded at open time. Deletes and boosts are
// plain data for the caller to apply during ranking; the store itself
// neither filters nor re-ranks.
func (s *Store) Hotfixes() *HotfixOverlay {
	return s.hotfixes
}

// GetByName returns the feature ids stored under the exact name.
func (s *Store) GetByName(name string) ([]FeatureId, error) {
	return s.names.ExactLookup(name)
}

// GetByNamePrefix returns the feature ids of every name starting with the
// given prefix, subject to the short-prefix heuristic and the match cap.
func (s *Store) GetByNamePrefix(prefix string) ([]FeatureId, error) {
	return s.names.PrefixLookup(prefix)
}

// FuzzyLookup returns feature ids for names within maxDist edits of name.
func (s *Store) FuzzyLookup(name string, maxDist int) ([]FeatureId, error) {
	return s.names.FuzzyLookup(name, maxDist)
}

// GetByFeatureIds returns feature records for the given ids, dropping ids
// with no record.
func (s *Store) GetByFeatureIds(ids []FeatureId) (map[FeatureId][]byte, error) {
	return s.features.GetByFeatureIds(ids)
}

// GetBySlugOrFeatureIds resolves each input string independently, numeric
// and legacy forms first, the slug table second, then performs one batched
// feature lookup and re-keys the records by the original input strings. An
// input that resolves to no identifier is silently dropped.
func (s *Store) GetBySlugOrFeatureIds(inputs []string) (map[string][]byte, error) {
	byId := make(map[FeatureId][]string, len(inputs))
	ids := make([]FeatureId, 0, len(inputs))
	for _, input := range inputs {
		id, ok, err := s.resolveId(input)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if _, seen := byId[id]; !seen {
			ids = append(ids, id)
		}
		byId[id] = append(byId[id], input)
	}

	records, err := s.features.GetByFeatureIds(ids)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(inputs))
	for id, record := range records {
		for _, input := range byId[id] {
			out[input] = record
		}
	}
	return out, nil
}

// resolveId maps one identifier string to a FeatureId. Slug candidates
// need the slug index; when it is absent or misses, the input does not
// resolve.
func (s *Store) resolveId(input string) (FeatureId, bool, error) {
	p := ParseId(input)
	switch p.Kind {
	case IdNumeric, IdLegacy:
		return p.Id, true, nil
	case IdSlug:
		if s.slugs == nil {
			return 0, false, nil
		}
		return s.slugs.Lookup(input)
	default:
		return 0, false, nil
	}
}

// CellLookup returns the geometries indexed under one cell id.
func (s *Store) CellLookup(cell s2.CellID) ([]CellGeometry, error) {
	if s.reverseGeo == nil {
		return nil, &IndexNotBuiltError{Kind: KindCell}
	}
	return s.reverseGeo.CellLookup(cell)
}

// GetByPoint reverse-geocodes a point: one cell lookup per indexed level,
// flattened.
func (s *Store) GetByPoint(lat, lng float64) ([]CellGeometry, error) {
	if s.reverseGeo == nil {
		return nil, &IndexNotBuiltError{Kind: KindCell}
	}
	return s.reverseGeo.GetByPoint(lat, lng)
}

// ReverseGeo exposes the reverse-geo index for callers that derive their
// own query cells, or nil when the snapshot has no s2 index.
func (s *Store) ReverseGeo() *ReverseGeoIndex {
	return s.reverseGeo
}

// PolygonByFeatureIds returns geometry records for the given ids, dropping
// ids with no geometry.
func (s *Store) PolygonByFeatureIds(ids []FeatureId) (map[FeatureId][]byte, error) {
	if s.geometries == nil {
		return nil, &IndexNotBuiltError{Kind: KindGeometry}
	}
	return s.geometries.GetByFeatureIds(ids)
}
