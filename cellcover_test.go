package geostore

import (
	"errors"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// squareRing builds a closed ring of the given half-width in degrees
// around a center point. orb points are (lon, lat).
func squareRing(lat, lng, half float64) orb.Ring {
	return orb.Ring{
		{lng - half, lat - half},
		{lng + half, lat - half},
		{lng + half, lat + half},
		{lng - half, lat + half},
		{lng - half, lat - half},
	}
}

func TestPolygonFromRings(t *testing.T) {
	t.Run("ValidRing", func(t *testing.T) {
		poly, err := PolygonFromRings([]orb.Ring{squareRing(37.77, -122.42, 0.05)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		center := s2.PointFromLatLng(s2.LatLngFromDegrees(37.77, -122.42))
		if !poly.ContainsPoint(center) {
			t.Error("polygon does not contain its center")
		}
	})

	t.Run("PoleRejection", func(t *testing.T) {
		for _, lat := range []float64{91, -91} {
			ring := orb.Ring{{0, lat}, {1, 89}, {-1, 89}, {0, lat}}
			_, err := PolygonFromRings([]orb.Ring{ring})
			var geomErr *GeometryError
			if !errors.As(err, &geomErr) {
				t.Fatalf("lat %v: err = %v, want GeometryError", lat, err)
			}
			if geomErr.Lat != lat {
				t.Errorf("GeometryError.Lat = %v, want %v", geomErr.Lat, lat)
			}
		}
	})
}

func TestRectCover(t *testing.T) {
	topRight := s2.LatLngFromDegrees(37.82, -122.37)
	bottomLeft := s2.LatLngFromDegrees(37.72, -122.47)

	cells := RectCover(topRight, bottomLeft, 6, 12, 1)
	if len(cells) == 0 {
		t.Fatal("empty covering")
	}
	for _, c := range cells {
		if c.Level() < 6 || c.Level() > 12 {
			t.Errorf("cell %d at level %d outside [6, 12]", uint64(c), c.Level())
		}
	}

	// Deterministic for a fixed shape and configuration.
	again := RectCover(topRight, bottomLeft, 6, 12, 1)
	if len(again) != len(cells) {
		t.Fatalf("covering sizes differ: %d vs %d", len(cells), len(again))
	}
	for i := range cells {
		if cells[i] != again[i] {
			t.Errorf("covering differs at %d: %d vs %d", i, uint64(cells[i]), uint64(again[i]))
		}
	}
}

func TestCoverAtAllLevels(t *testing.T) {
	rings := []orb.Ring{squareRing(40.74, -73.98, 0.02)}
	const (
		minLevel = 4
		maxLevel = 10
		levelMod = 2
	)

	cells, err := CoverAtAllLevels(rings, minLevel, maxLevel, levelMod)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) == 0 {
		t.Fatal("empty cover")
	}

	seen := make(map[s2.CellID]bool)
	var leaves []s2.CellID
	for _, c := range cells {
		if seen[c] {
			t.Errorf("duplicate cell %d", uint64(c))
		}
		seen[c] = true

		switch c.Level() {
		case 10:
			leaves = append(leaves, c)
		case 8, 6, 4:
			// indexed coarser levels
		default:
			t.Errorf("cell %d at level %d, want one of 10/8/6/4", uint64(c), c.Level())
		}
	}
	if len(leaves) == 0 {
		t.Fatal("no cells at maxLevel")
	}

	t.Run("AncestorsOnly", func(t *testing.T) {
		// Every coarser cell must be an ancestor of some maxLevel cell.
		for _, c := range cells {
			if c.Level() == maxLevel {
				continue
			}
			found := false
			for _, leaf := range leaves {
				if leaf.Parent(c.Level()) == c {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("cell %d at level %d is not an ancestor of any leaf", uint64(c), c.Level())
			}
		}
	})

	t.Run("FullAncestorChains", func(t *testing.T) {
		// Every leaf contributes its whole chain at the configured step.
		for _, leaf := range leaves {
			for level := maxLevel - levelMod; level >= minLevel; level -= levelMod {
				if !seen[leaf.Parent(level)] {
					t.Errorf("missing ancestor of %d at level %d", uint64(leaf), level)
				}
			}
		}
	})

	t.Run("QueryContract", func(t *testing.T) {
		// A point inside the geometry finds an indexed cell at every
		// indexed level by taking its own cell's parent, which is exactly
		// what the reverse-geo query path does.
		leaf := s2.CellIDFromLatLng(s2.LatLngFromDegrees(40.74, -73.98))
		for level := maxLevel; level >= minLevel; level -= levelMod {
			if !seen[leaf.Parent(level)] {
				t.Errorf("point cell at level %d not in cover", level)
			}
		}
	})
}

func TestCoverAtAllLevelsDefaultStep(t *testing.T) {
	rings := []orb.Ring{squareRing(51.5, -0.12, 0.01)}

	// levelMod 0 means every level.
	cells, err := CoverAtAllLevels(rings, 6, 9, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	levels := make(map[int]bool)
	for _, c := range cells {
		levels[c.Level()] = true
	}
	for level := 6; level <= 9; level++ {
		if !levels[level] {
			t.Errorf("level %d missing from cover", level)
		}
	}
}
