package geostore

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/geo/s2"
)

// Key and value byte layouts, one fixed codec per index kind. The layouts
// are a build/query contract: changing them invalidates every snapshot
// already on disk, so they are deliberately boring fixed-width big-endian
// words rather than a serialization framework.

// featureIdKey encodes a FeatureId as an 8 byte big-endian key.
func featureIdKey(id FeatureId) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

// cellIdKey encodes an s2 cell id as an 8 byte big-endian key. Big-endian
// keeps byte order identical to numeric order, so descendants of a cell
// stay contiguous in the sorted index.
func cellIdKey(c s2.CellID) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(c))
	return key
}

// encodeIdList packs feature ids as consecutive 8 byte big-endian words.
func encodeIdList(ids []FeatureId) []byte {
	buf := make([]byte, 0, 8*len(ids))
	for _, id := range ids {
		buf = binary.BigEndian.AppendUint64(buf, uint64(id))
	}
	return buf
}

func decodeIdList(value []byte) ([]FeatureId, error) {
	if len(value)%8 != 0 {
		return nil, fmt.Errorf("id list value has %d bytes, not a multiple of 8", len(value))
	}
	ids := make([]FeatureId, 0, len(value)/8)
	for off := 0; off < len(value); off += 8 {
		ids = append(ids, FeatureId(binary.BigEndian.Uint64(value[off:])))
	}
	return ids, nil
}

// CellGeometry pairs a covering cell with one geometry record it was
// generated to cover. A cell id maps to a list of these: one per feature
// whose covering included that cell.
type CellGeometry struct {
	Cell     s2.CellID
	Geometry []byte
}

// encodeCellGeometries packs entries as [cell u64][len u32][geometry bytes].
func encodeCellGeometries(entries []CellGeometry) []byte {
	var buf []byte
	for _, e := range entries {
		buf = binary.BigEndian.AppendUint64(buf, uint64(e.Cell))
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(e.Geometry)))
		buf = append(buf, e.Geometry...)
	}
	return buf
}

func decodeCellGeometries(value []byte) ([]CellGeometry, error) {
	var out []CellGeometry
	for off := 0; off < len(value); {
		if len(value)-off < 12 {
			return nil, fmt.Errorf("cell geometry list truncated at byte %d", off)
		}
		cell := s2.CellID(binary.BigEndian.Uint64(value[off:]))
		n := int(binary.BigEndian.Uint32(value[off+8:]))
		off += 12
		if len(value)-off < n {
			return nil, fmt.Errorf("cell geometry list truncated at byte %d", off)
		}
		out = append(out, CellGeometry{Cell: cell, Geometry: value[off : off+n : off+n]})
		off += n
	}
	return out, nil
}
