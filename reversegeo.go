package geostore

import (
	"fmt"
	"strconv"

	"github.com/golang/geo/s2"
)

// ReverseGeoIndex answers cell id to geometry-list lookups. It owns the
// level bounds and step read from the index metadata; those were fixed at
// build time and queries must mirror them exactly, so all three keys are
// validated eagerly at open rather than on first query.
type ReverseGeoIndex struct {
	reader   SortedIndexReader
	minLevel int
	maxLevel int
	levelMod int
}

func newReverseGeoIndex(reader SortedIndexReader) (*ReverseGeoIndex, error) {
	r := &ReverseGeoIndex{reader: reader}
	for _, m := range []struct {
		key string
		dst *int
	}{
		{metaMinLevel, &r.minLevel},
		{metaMaxLevel, &r.maxLevel},
		{metaLevelMod, &r.levelMod},
	} {
		raw, ok := reader.Metadata(m.key)
		if !ok {
			return nil, &MissingMetadataError{Index: string(KindCell), Key: m.key}
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("s2 index metadata %s: %w", m.key, err)
		}
		*m.dst = v
	}
	r.levelMod = normLevelMod(r.levelMod)
	return r, nil
}

// Levels returns the indexed level bounds and step.
func (r *ReverseGeoIndex) Levels() (minLevel, maxLevel, levelMod int) {
	return r.minLevel, r.maxLevel, r.levelMod
}

// CellLookup returns the geometries indexed under one cell id. An absent
// cell yields an empty result.
func (r *ReverseGeoIndex) CellLookup(cell s2.CellID) ([]CellGeometry, error) {
	value, ok, err := r.reader.Get(cellIdKey(cell))
	if err != nil {
		return nil, fmt.Errorf("cell lookup %d: %w", uint64(cell), err)
	}
	if !ok {
		return nil, nil
	}
	return decodeCellGeometries(value)
}

// QueryCells returns the point's cell id at every indexed level, stepping
// down from maxLevel by levelMod. This mirrors the ancestor chain the
// build-side covering wrote, so one lookup per returned cell finds every
// geometry whose covering touches the point.
func (r *ReverseGeoIndex) QueryCells(lat, lng float64) []s2.CellID {
	leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	var cells []s2.CellID
	for level := r.maxLevel; level >= r.minLevel; level -= r.levelMod {
		cells = append(cells, leaf.Parent(level))
	}
	return cells
}

// GetByPoint flattens CellLookup across all query cells for a point.
func (r *ReverseGeoIndex) GetByPoint(lat, lng float64) ([]CellGeometry, error) {
	var out []CellGeometry
	for _, cell := range r.QueryCells(lat, lng) {
		entries, err := r.CellLookup(cell)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}
