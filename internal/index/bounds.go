// Package index implements a queryable spatial index over decoded S-57
// features, with two interchangeable backends — a linear scan for small
// feature sets and an STR-ordered R-tree for large ones — behind one
// contract so callers don't need to know which backend answered a query.
package index

import "github.com/chartworks/s57/internal/parser"

// Bounds is an axis-aligned geographic bounding box in [lon, lat] degrees.
type Bounds struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Empty reports whether the bounds have never been extended by a point.
func (b Bounds) Empty() bool {
	return b.MinLon > b.MaxLon || b.MinLat > b.MaxLat
}

// Intersects reports whether two bounds overlap (touching counts).
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinLon <= o.MaxLon && b.MaxLon >= o.MinLon &&
		b.MinLat <= o.MaxLat && b.MaxLat >= o.MinLat
}

func (b Bounds) extend(lon, lat float64) Bounds {
	if b.Empty() {
		return Bounds{MinLon: lon, MaxLon: lon, MinLat: lat, MaxLat: lat}
	}
	if lon < b.MinLon {
		b.MinLon = lon
	}
	if lon > b.MaxLon {
		b.MaxLon = lon
	}
	if lat < b.MinLat {
		b.MinLat = lat
	}
	if lat > b.MaxLat {
		b.MaxLat = lat
	}
	return b
}

func (b Bounds) union(o Bounds) Bounds {
	if o.Empty() {
		return b
	}
	if b.Empty() {
		return o
	}
	return Bounds{
		MinLon: min(b.MinLon, o.MinLon),
		MaxLon: max(b.MaxLon, o.MaxLon),
		MinLat: min(b.MinLat, o.MinLat),
		MaxLat: max(b.MaxLat, o.MaxLat),
	}
}

// emptyBounds is a Bounds with no extent yet, per Empty's convention.
var emptyBounds = Bounds{MinLon: 1, MaxLon: -1, MinLat: 1, MaxLat: -1}

// featureBounds computes a feature's geometry bounding box from its
// [lon, lat] (or [lon, lat, depth]) coordinate tuples. A feature with no
// geometry (a meta-feature) reports emptyBounds.
func featureBounds(f *parser.Feature) Bounds {
	b := emptyBounds
	for _, coord := range f.Geometry.Coordinates {
		if len(coord) < 2 {
			continue
		}
		b = b.extend(coord[0], coord[1])
	}
	return b
}
