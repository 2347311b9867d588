package index

import (
	"sort"

	"github.com/chartworks/s57/internal/parser"
)

// SpatialIndex is the query contract both backends satisfy identically —
// verified by parity tests that run the same queries against both and
// diff the results.
type SpatialIndex interface {
	QueryBounds(b Bounds) []*parser.Feature
	QueryPoint(lat, lon, radiusDegrees float64) []*parser.Feature
	QueryByType(objectClass string) []*parser.Feature
	QueryNavigationAids() []*parser.Feature
	QueryDepthFeatures() []*parser.Feature
	CalculateBounds() (Bounds, bool)
	FeatureCount() int
	PresentFeatureTypes() []string
	GetAllFeatures() []*parser.Feature
}

// RTreeConfig tunes the R-tree backend's node fan-out.
type RTreeConfig struct {
	// MinChildren and MaxChildren bound node fan-out; zero values fall
	// back to DefaultMinChildren/DefaultMaxChildren.
	MinChildren int
	MaxChildren int

	// ForceLinear forces the linear backend regardless of feature count,
	// for callers that want predictable query latency over throughput.
	ForceLinear bool
}

const (
	// DefaultMinChildren and DefaultMaxChildren are rtreego node fan-out
	// defaults, matching the teacher's pkg/s57 spatialIndex construction.
	DefaultMinChildren = 4
	DefaultMaxChildren = 16

	// rtreeThreshold is the feature count at or above which the adaptive
	// factory picks the R-tree backend over linear scan.
	rtreeThreshold = 200
)

// NewIndex builds the backend appropriate for the given feature set: R-tree
// once features number at least rtreeThreshold, linear scan below it or
// when cfg.ForceLinear is set.
//
// Reference: teacher's pkg/s57/s57.go spatialIndex (always-R-tree), here
// generalized into a size-adaptive choice. The R-tree is still built by
// per-feature Insert, with features inserted in STR-sorted order.
func NewIndex(features []*parser.Feature, cfg RTreeConfig) SpatialIndex {
	if cfg.ForceLinear || len(features) < rtreeThreshold {
		return newLinearIndex(features)
	}
	return newRTreeIndex(features, cfg)
}

// sortByRecordID gives both backends identical output ordering, so parity
// tests can compare query results directly without re-sorting.
func sortByRecordID(features []*parser.Feature) []*parser.Feature {
	sort.Slice(features, func(i, j int) bool { return features[i].RecordID < features[j].RecordID })
	return features
}

// navigationAidClasses is the union of object classes query_navigation_aids
// reports: all buoy subtypes, beacons, lighthouses, and daymarks.
var navigationAidClasses = map[string]bool{
	"BOYCAR": true, "BOYINB": true, "BOYISD": true, "BOYLAT": true,
	"BOYSAW": true, "BOYSPP": true,
	"BCNCAR": true, "BCNISD": true, "BCNLAT": true, "BCNSAW": true, "BCNSPP": true,
	"LIGHTS": true, "LITFLT": true, "LITVES": true,
	"DAYMAR": true,
}

// depthFeatureClasses is the union of object classes query_depth_features
// reports: depth areas, depth contours, and soundings.
var depthFeatureClasses = map[string]bool{
	"DEPARE": true,
	"DEPCNT": true,
	"SOUNDG": true,
}

func matchesAny(classes map[string]bool, objectClass string) bool {
	return classes[objectClass]
}

func withinSquare(f *parser.Feature, lat, lon, radius float64) bool {
	b := featureBounds(f)
	if b.Empty() {
		return false
	}
	square := Bounds{MinLon: lon - radius, MaxLon: lon + radius, MinLat: lat - radius, MaxLat: lat + radius}
	return square.Intersects(b)
}
