package s57

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGeoJSONPoint(t *testing.T) {
	features := []Feature{{
		ObjectClass: "LIGHTS",
		Label:       "Fl(2)R",
		Geometry:    Geometry{Type: "Point", Coordinates: [][]float64{{-71.05, 42.36}}},
		Attributes:  map[string]interface{}{"COLOUR": 3},
	}}

	collection := ToGeoJSON(features)
	require.Equal(t, "FeatureCollection", collection.Type)
	require.Len(t, collection.Features, 1)

	gf := collection.Features[0]
	assert.Equal(t, "Feature", gf.Type)
	assert.Equal(t, "Point", gf.Geometry.Type)
	assert.Equal(t, []float64{-71.05, 42.36}, gf.Geometry.Coordinates)
	assert.Equal(t, "LIGHTS", gf.Properties["objectClass"])
	assert.Equal(t, "Fl(2)R", gf.Properties["label"])
	assert.Equal(t, 3, gf.Properties["COLOUR"])
}

func TestToGeoJSONPolygonNestsSingleRing(t *testing.T) {
	ring := [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	features := []Feature{{
		ObjectClass: "DEPARE",
		Geometry:    Geometry{Type: "Polygon", Coordinates: ring},
	}}

	collection := ToGeoJSON(features)
	coords, ok := collection.Features[0].Geometry.Coordinates.([][][]float64)
	require.True(t, ok)
	require.Len(t, coords, 1)
	assert.Equal(t, ring, coords[0])
}

func TestToGeoJSONLineStringPassesThroughCoordinates(t *testing.T) {
	line := [][]float64{{0, 0}, {1, 1}}
	features := []Feature{{ObjectClass: "COALNE", Geometry: Geometry{Type: "LineString", Coordinates: line}}}

	collection := ToGeoJSON(features)
	assert.Equal(t, line, collection.Features[0].Geometry.Coordinates)
}

func TestToGeoJSONOmitsEmptyLabel(t *testing.T) {
	features := []Feature{{ObjectClass: "DEPARE", Geometry: Geometry{Type: "Point", Coordinates: [][]float64{{0, 0}}}}}
	collection := ToGeoJSON(features)
	_, hasLabel := collection.Features[0].Properties["label"]
	assert.False(t, hasLabel)
}
