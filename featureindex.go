package geostore

import (
	"encoding/binary"
	"fmt"
)

// FeatureIndex maps FeatureId to an opaque feature record.
type FeatureIndex struct {
	reader SortedIndexReader
}

func newFeatureIndex(reader SortedIndexReader) *FeatureIndex {
	return &FeatureIndex{reader: reader}
}

// GetByFeatureId returns the record for one id, or ok=false when absent.
func (f *FeatureIndex) GetByFeatureId(id FeatureId) ([]byte, bool, error) {
	value, ok, err := f.reader.Get(featureIdKey(id))
	if err != nil {
		return nil, false, fmt.Errorf("feature lookup %s: %w", id, err)
	}
	return value, ok, nil
}

// GetByFeatureIds batches independent lookups. Ids with no record are
// dropped from the result, never an error.
func (f *FeatureIndex) GetByFeatureIds(ids []FeatureId) (map[FeatureId][]byte, error) {
	out := make(map[FeatureId][]byte, len(ids))
	for _, id := range ids {
		value, ok, err := f.GetByFeatureId(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out[id] = value
		}
	}
	return out, nil
}

// GeometryIndex maps FeatureId to an opaque geometry record.
type GeometryIndex struct {
	reader SortedIndexReader
}

func newGeometryIndex(reader SortedIndexReader) *GeometryIndex {
	return &GeometryIndex{reader: reader}
}

func (g *GeometryIndex) GetByFeatureId(id FeatureId) ([]byte, bool, error) {
	value, ok, err := g.reader.Get(featureIdKey(id))
	if err != nil {
		return nil, false, fmt.Errorf("geometry lookup %s: %w", id, err)
	}
	return value, ok, nil
}

// GetByFeatureIds batches geometry lookups, dropping misses.
func (g *GeometryIndex) GetByFeatureIds(ids []FeatureId) (map[FeatureId][]byte, error) {
	out := make(map[FeatureId][]byte, len(ids))
	for _, id := range ids {
		value, ok, err := g.GetByFeatureId(id)
		if err != nil {
			return nil, err
		}
		if ok {
			out[id] = value
		}
	}
	return out, nil
}

// SlugIndex maps human slug strings to feature ids.
type SlugIndex struct {
	reader SortedIndexReader
}

func newSlugIndex(reader SortedIndexReader) *SlugIndex {
	return &SlugIndex{reader: reader}
}

// Lookup resolves a slug string, or ok=false when the slug is unknown.
func (s *SlugIndex) Lookup(slug string) (FeatureId, bool, error) {
	value, ok, err := s.reader.Get([]byte(slug))
	if err != nil {
		return 0, false, fmt.Errorf("slug lookup %q: %w", slug, err)
	}
	if !ok {
		return 0, false, nil
	}
	if len(value) != 8 {
		return 0, false, fmt.Errorf("slug %q: value has %d bytes, want 8", slug, len(value))
	}
	return FeatureId(binary.BigEndian.Uint64(value)), true, nil
}
