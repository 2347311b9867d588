package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chartworks/s57/internal/parser"
)

func gridFeatures(n int) []*parser.Feature {
	classes := []string{"DEPARE", "LIGHTS", "BOYLAT", "SOUNDG"}
	features := make([]*parser.Feature, n)
	for i := 0; i < n; i++ {
		lon := float64(i%50) * 0.1
		lat := float64(i/50) * 0.1
		features[i] = &parser.Feature{
			RecordID:    int64(n - i), // intentionally out of order
			ObjectClass: classes[i%len(classes)],
			Geometry: parser.Geometry{
				Type:        parser.GeometryTypePoint,
				Coordinates: [][]float64{{lon, lat}},
			},
		}
	}
	return features
}

func recordIDs(features []*parser.Feature) []int64 {
	ids := make([]int64, len(features))
	for i, f := range features {
		ids[i] = f.RecordID
	}
	return ids
}

func TestNewIndexPicksBackendByThreshold(t *testing.T) {
	small := NewIndex(gridFeatures(50), RTreeConfig{})
	_, isLinearSmall := small.(*linearIndex)
	assert.True(t, isLinearSmall, "below threshold should use the linear backend")

	large := NewIndex(gridFeatures(rtreeThreshold), RTreeConfig{})
	_, isRTreeLarge := large.(*rtreeIndex)
	assert.True(t, isRTreeLarge, "at-threshold feature count should use the R-tree backend")

	forced := NewIndex(gridFeatures(rtreeThreshold), RTreeConfig{ForceLinear: true})
	_, isLinearForced := forced.(*linearIndex)
	assert.True(t, isLinearForced, "ForceLinear should override the count-based choice")
}

func TestLinearAndRTreeParity(t *testing.T) {
	features := gridFeatures(500)

	linear := NewIndex(features, RTreeConfig{ForceLinear: true})
	rtree := NewIndex(features, RTreeConfig{})

	t.Run("QueryBounds", func(t *testing.T) {
		b := Bounds{MinLon: 0.5, MaxLon: 2.0, MinLat: 0.0, MaxLat: 1.0}
		assert.Equal(t, recordIDs(linear.QueryBounds(b)), recordIDs(rtree.QueryBounds(b)))
	})

	t.Run("QueryPoint", func(t *testing.T) {
		assert.Equal(t,
			recordIDs(linear.QueryPoint(0.3, 0.3, 0.25)),
			recordIDs(rtree.QueryPoint(0.3, 0.3, 0.25)))
	})

	t.Run("QueryByType", func(t *testing.T) {
		assert.Equal(t,
			recordIDs(linear.QueryByType("DEPARE")),
			recordIDs(rtree.QueryByType("DEPARE")))
	})

	t.Run("QueryNavigationAids", func(t *testing.T) {
		assert.Equal(t,
			recordIDs(linear.QueryNavigationAids()),
			recordIDs(rtree.QueryNavigationAids()))
	})

	t.Run("QueryDepthFeatures", func(t *testing.T) {
		assert.Equal(t,
			recordIDs(linear.QueryDepthFeatures()),
			recordIDs(rtree.QueryDepthFeatures()))
	})

	t.Run("FeatureCount", func(t *testing.T) {
		assert.Equal(t, linear.FeatureCount(), rtree.FeatureCount())
	})

	t.Run("CalculateBounds", func(t *testing.T) {
		lb, lok := linear.CalculateBounds()
		rb, rok := rtree.CalculateBounds()
		assert.Equal(t, lok, rok)
		assert.InDelta(t, lb.MinLon, rb.MinLon, 1e-9)
		assert.InDelta(t, lb.MaxLat, rb.MaxLat, 1e-9)
	})

	t.Run("GetAllFeatures sorted by RecordID", func(t *testing.T) {
		all := linear.GetAllFeatures()
		for i := 1; i < len(all); i++ {
			assert.LessOrEqual(t, all[i-1].RecordID, all[i].RecordID)
		}
	})
}

func TestQueryResultsSortedByRecordID(t *testing.T) {
	rtree := NewIndex(gridFeatures(300), RTreeConfig{})
	results := rtree.QueryByType("LIGHTS")
	require.NotEmpty(t, results)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].RecordID, results[i].RecordID)
	}
}

func TestPresentFeatureTypes(t *testing.T) {
	idx := NewIndex(gridFeatures(10), RTreeConfig{ForceLinear: true})
	types := idx.PresentFeatureTypes()
	assert.ElementsMatch(t, []string{"DEPARE", "LIGHTS", "BOYLAT", "SOUNDG"}, types)
}

func TestBoundsIntersects(t *testing.T) {
	a := Bounds{MinLon: 0, MaxLon: 1, MinLat: 0, MaxLat: 1}
	b := Bounds{MinLon: 0.5, MaxLon: 1.5, MinLat: 0.5, MaxLat: 1.5}
	c := Bounds{MinLon: 2, MaxLon: 3, MinLat: 2, MaxLat: 3}
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
}

func TestFeatureBoundsHandlesMetaFeature(t *testing.T) {
	meta := &parser.Feature{ObjectClass: "C_AGGR", Geometry: parser.Geometry{}}
	assert.True(t, featureBounds(meta).Empty())
}

func BenchmarkRTreeQueryBounds(b *testing.B) {
	idx := NewIndex(gridFeatures(5000), RTreeConfig{})
	box := Bounds{MinLon: 1, MaxLon: 2, MinLat: 1, MaxLat: 2}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.QueryBounds(box)
	}
}
