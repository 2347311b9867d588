package s57

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chartworks/s57/internal/parser"
)

func TestUsageBandScaleRange(t *testing.T) {
	min, max := UsageBandHarbour.ScaleRange()
	assert.Equal(t, 4000, min)
	assert.Equal(t, 22000, max)

	min, max = UsageBandOverview.ScaleRange()
	assert.Equal(t, 1500000, min)
	assert.Equal(t, 0, max)

	assert.Equal(t, "Harbour", UsageBandHarbour.String())
	assert.Equal(t, "Unknown", UsageBand(99).String())
}

func TestToPublicFeatureDerivesDepthsForSoundg(t *testing.T) {
	f := &parser.Feature{
		ObjectClass: "SOUNDG",
		Geometry: parser.Geometry{
			Type:        parser.GeometryTypePoint,
			Coordinates: [][]float64{{-71.0, 42.0, 12.5}},
		},
		Attributes: map[string]interface{}{},
	}

	pub := toPublicFeature(f)
	depths, ok := pub.Attributes["DEPTHS"].([]float64)
	assert.True(t, ok)
	assert.Equal(t, []float64{12.5}, depths)
}

func TestToPublicFeatureLeavesNonSoundgAttributesAlone(t *testing.T) {
	f := &parser.Feature{
		ObjectClass: "LIGHTS",
		Geometry:    parser.Geometry{Type: parser.GeometryTypePoint, Coordinates: [][]float64{{-71.0, 42.0}}},
		Attributes:  map[string]interface{}{"COLOUR": 1},
	}

	pub := toPublicFeature(f)
	_, hasDepths := pub.Attributes["DEPTHS"]
	assert.False(t, hasDepths)
	assert.Equal(t, 1, pub.Attributes["COLOUR"])
}

func TestBoundsOfCoordinates(t *testing.T) {
	coords := [][]float64{{0, 0}, {2, 3}, {-1, 1}}
	b, ok := boundsOfCoordinates(coords)
	assert.True(t, ok)
	assert.Equal(t, -1.0, b.MinLon)
	assert.Equal(t, 2.0, b.MaxLon)
	assert.Equal(t, 0.0, b.MinLat)
	assert.Equal(t, 3.0, b.MaxLat)

	_, ok = boundsOfCoordinates(nil)
	assert.False(t, ok)
}
