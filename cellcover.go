package geostore

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// Cell covering: deterministic conversion of geographic shapes into sets of
// s2 cell ids. The level/levelMod semantics here are a contract shared with
// index construction; a query that steps levels differently than the build
// did will look up cells that were never written.

// defaultMaxCells bounds the size of a polygon covering when the caller
// gives no hint. The s2 coverer treats it as advisory and may exceed it for
// shapes that cannot be covered more coarsely.
const defaultMaxCells = 4096

// normLevelMod clamps a level step to at least 1 (every level).
func normLevelMod(levelMod int) int {
	if levelMod < 1 {
		return 1
	}
	return levelMod
}

// RectCover returns a covering of the rectangle spanned by the two corner
// points at the given inclusive level bounds. The returned order carries no
// meaning beyond being a valid covering.
func RectCover(topRight, bottomLeft s2.LatLng, minLevel, maxLevel, levelMod int) []s2.CellID {
	rect := s2.RectFromLatLng(bottomLeft).AddPoint(topRight)
	rc := &s2.RegionCoverer{
		MinLevel: minLevel,
		MaxLevel: maxLevel,
		LevelMod: normLevelMod(levelMod),
		MaxCells: defaultMaxCells,
	}
	return rc.Covering(rect)
}

// PolygonFromRings builds one spherical polygon from a set of rings,
// closing each ring and unioning the resulting loops. Rings with a vertex
// beyond latitude +/-90 would have to wrap a pole and are rejected with a
// GeometryError.
func PolygonFromRings(rings []orb.Ring) (*s2.Polygon, error) {
	loops := make([]*s2.Loop, 0, len(rings))
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		pts := make([]s2.Point, 0, len(ring))
		for i, v := range ring {
			if math.Abs(v.Lat()) > 90 {
				return nil, &GeometryError{Lat: v.Lat(), Lng: v.Lon()}
			}
			// orb rings close with a repeated first vertex; s2 loops
			// close implicitly.
			if i == len(ring)-1 && len(ring) > 1 && v == ring[0] {
				break
			}
			pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(v.Lat(), v.Lon())))
		}
		loop := s2.LoopFromPoints(pts)
		// Orient the loop so its interior is the smaller region; vertex
		// order in stored rings is not guaranteed.
		if loop.Area() > 2*math.Pi {
			loop.Invert()
		}
		loops = append(loops, loop)
	}
	return s2.PolygonFromLoops(loops), nil
}

// PolygonCovering covers the polygon built from rings at the given
// inclusive level bounds. maxCellsHint is advisory only; zero or negative
// selects the default.
func PolygonCovering(rings []orb.Ring, minLevel, maxLevel, maxCellsHint, levelMod int) ([]s2.CellID, error) {
	poly, err := PolygonFromRings(rings)
	if err != nil {
		return nil, err
	}
	maxCells := maxCellsHint
	if maxCells <= 0 {
		maxCells = defaultMaxCells
	}
	rc := &s2.RegionCoverer{
		MinLevel: minLevel,
		MaxLevel: maxLevel,
		LevelMod: normLevelMod(levelMod),
		MaxCells: maxCells,
	}
	return rc.Covering(poly), nil
}

// CoverAtAllLevels returns the deduplicated cell set used to index a
// geometry: the covering at maxLevel, plus every ancestor of each covering
// cell walking down to minLevel in steps of levelMod. Ancestors only, never
// descendants and never levels the step skips. This guarantees a query
// cell at any indexed level is an ancestor-or-equal of some covering cell
// actually touching the geometry, while keeping the set roughly 4/3 the
// size of the maxLevel covering.
func CoverAtAllLevels(rings []orb.Ring, minLevel, maxLevel, levelMod int) ([]s2.CellID, error) {
	leaves, err := PolygonCovering(rings, maxLevel, maxLevel, defaultMaxCells, 1)
	if err != nil {
		return nil, err
	}
	mod := normLevelMod(levelMod)

	seen := make(map[s2.CellID]bool, len(leaves)*2)
	cells := make([]s2.CellID, 0, len(leaves)*4/3)
	add := func(c s2.CellID) {
		if !seen[c] {
			seen[c] = true
			cells = append(cells, c)
		}
	}
	for _, leaf := range leaves {
		add(leaf)
		for level := leaf.Level() - mod; level >= minLevel; level -= mod {
			add(leaf.Parent(level))
		}
	}
	return cells, nil
}
