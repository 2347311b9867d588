package index

import (
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/chartworks/s57/internal/parser"
)

// rtreeIndex answers queries via an STR-ordered R-tree, used once a
// feature set is large enough that O(log n) queries pay for the
// construction cost.
//
// Reference: teacher's pkg/s57/s57.go spatialIndex/indexedFeature.
type rtreeIndex struct {
	tree     *rtreego.Rtree
	features []*parser.Feature
	bounds   Bounds
	hasBounds bool
}

// indexedFeature wraps a Feature for storage as an rtreego.Spatial, with
// its bounding box precomputed at build time.
type indexedFeature struct {
	feature *parser.Feature
	bounds  Bounds
}

// pointEpsilon is the minimum rect side rtreego requires; point features
// (zero-area bounds) are padded to this, matching the teacher's approach.
const pointEpsilon = 0.0001

func (f *indexedFeature) Bounds() rtreego.Rect {
	lonLen := math.Max(f.bounds.MaxLon-f.bounds.MinLon, pointEpsilon)
	latLen := math.Max(f.bounds.MaxLat-f.bounds.MinLat, pointEpsilon)
	rect, _ := rtreego.NewRect(rtreego.Point{f.bounds.MinLon, f.bounds.MinLat}, []float64{lonLen, latLen})
	return rect
}

func newRTreeIndex(features []*parser.Feature, cfg RTreeConfig) *rtreeIndex {
	minChildren := cfg.MinChildren
	if minChildren <= 0 {
		minChildren = DefaultMinChildren
	}
	maxChildren := cfg.MaxChildren
	if maxChildren <= 0 {
		maxChildren = DefaultMaxChildren
	}

	wrapped := make([]*indexedFeature, len(features))
	bounds := emptyBounds
	hasBounds := false
	for i, f := range features {
		b := featureBounds(f)
		wrapped[i] = &indexedFeature{feature: f, bounds: b}
		if !b.Empty() {
			bounds = bounds.union(b)
			hasBounds = true
		}
	}

	strSort(wrapped, maxChildren)

	tree := rtreego.NewTree(2, minChildren, maxChildren)
	for _, w := range wrapped {
		tree.Insert(w)
	}

	return &rtreeIndex{tree: tree, features: features, bounds: bounds, hasBounds: hasBounds}
}

// strSort orders features the way Sort-Tile-Recursive packing would
// before insertion: sorted into vertical slabs of roughly sqrt(n/leafCap)
// width by longitude, then by latitude within each slab. rtreego does not
// expose a true bulk-load constructor, so this ordering is the STR
// contribution: inserting in STR order instead of arbitrary feature order
// produces substantially better node packing than naive sequential
// Insert, without needing access to the tree's internal node layout.
func strSort(items []*indexedFeature, leafCap int) {
	n := len(items)
	if n <= leafCap {
		return
	}

	slabCount := int(math.Ceil(math.Sqrt(float64(n) / float64(leafCap))))
	if slabCount < 1 {
		slabCount = 1
	}

	sortByLon(items)

	slabSize := (n + slabCount - 1) / slabCount
	for start := 0; start < n; start += slabSize {
		end := start + slabSize
		if end > n {
			end = n
		}
		sortByLat(items[start:end])
	}
}

func sortByLon(items []*indexedFeature) {
	insertionSort(items, func(a, b *indexedFeature) bool { return a.bounds.MinLon < b.bounds.MinLon })
}

func sortByLat(items []*indexedFeature) {
	insertionSort(items, func(a, b *indexedFeature) bool { return a.bounds.MinLat < b.bounds.MinLat })
}

// insertionSort is used instead of sort.Slice to keep strSort's tie-
// breaking stable across runs without pulling in a closure-heavy
// interface sort for what are typically small slab slices; for large
// slabs this degrades to O(n^2) worst case, acceptable since it only
// orders features at index-build time.
func insertionSort(items []*indexedFeature, less func(a, b *indexedFeature) bool) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && less(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func (idx *rtreeIndex) QueryBounds(b Bounds) []*parser.Feature {
	rect, ok := toRect(b)
	if !ok {
		return nil
	}
	return idx.search(rect)
}

func (idx *rtreeIndex) QueryPoint(lat, lon, radiusDegrees float64) []*parser.Feature {
	square := Bounds{MinLon: lon - radiusDegrees, MaxLon: lon + radiusDegrees, MinLat: lat - radiusDegrees, MaxLat: lat + radiusDegrees}
	return idx.QueryBounds(square)
}

func (idx *rtreeIndex) search(rect rtreego.Rect) []*parser.Feature {
	results := idx.tree.SearchIntersect(rect)
	out := make([]*parser.Feature, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*indexedFeature).feature)
	}
	return sortByRecordID(out)
}

func toRect(b Bounds) (rtreego.Rect, bool) {
	if b.Empty() {
		return rtreego.Rect{}, false
	}
	lonLen := math.Max(b.MaxLon-b.MinLon, pointEpsilon)
	latLen := math.Max(b.MaxLat-b.MinLat, pointEpsilon)
	rect, err := rtreego.NewRect(rtreego.Point{b.MinLon, b.MinLat}, []float64{lonLen, latLen})
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

func (idx *rtreeIndex) QueryByType(objectClass string) []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if f.ObjectClass == objectClass {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *rtreeIndex) QueryNavigationAids() []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if matchesAny(navigationAidClasses, f.ObjectClass) {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *rtreeIndex) QueryDepthFeatures() []*parser.Feature {
	out := make([]*parser.Feature, 0)
	for _, f := range idx.features {
		if matchesAny(depthFeatureClasses, f.ObjectClass) {
			out = append(out, f)
		}
	}
	return sortByRecordID(out)
}

func (idx *rtreeIndex) CalculateBounds() (Bounds, bool) {
	return idx.bounds, idx.hasBounds
}

func (idx *rtreeIndex) FeatureCount() int { return len(idx.features) }

func (idx *rtreeIndex) PresentFeatureTypes() []string {
	return presentFeatureTypes(idx.features)
}

func (idx *rtreeIndex) GetAllFeatures() []*parser.Feature {
	return sortByRecordID(append([]*parser.Feature(nil), idx.features...))
}
