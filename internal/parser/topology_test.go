package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRingClosed(t *testing.T) {
	closed := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	assert.True(t, isRingClosed(closed))

	open := [][2]float64{{0, 0}, {1, 0}, {1, 1}}
	assert.False(t, isRingClosed(open))

	nearlyClosed := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0.0000001, 0.0000001}}
	assert.True(t, isRingClosed(nearlyClosed), "within ringClosureTolerance should count as closed")
}

func TestCloseRing(t *testing.T) {
	ring := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0.0000001, 0.0000001}}
	closed := closeRing(ring, ringClosureTolerance)
	assert.Len(t, closed, 5)
	assert.Equal(t, closed[0], closed[4])
}

func TestCloseRingLeavesGenuinelyOpenRingUnchanged(t *testing.T) {
	ring := [][2]float64{{0, 0}, {1, 0}, {1, 1}}
	closed := closeRing(ring, ringClosureTolerance)
	assert.Equal(t, ring, closed, "a gap beyond tolerance is not this helper's job to force shut")
}

func TestSelfIntersectsDetectsCrossing(t *testing.T) {
	// A bowtie: (0,0)->(1,1)->(1,0)->(0,1)->(0,0) crosses itself.
	bowtie := [][2]float64{{0, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}}
	assert.True(t, selfIntersects(bowtie))
}

func TestSelfIntersectsAllowsSimpleSquare(t *testing.T) {
	square := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	assert.False(t, selfIntersects(square))
}

func TestPolygonBuilderLoadEdge(t *testing.T) {
	records := map[spatialKey]*spatialRecord{
		{RCNM: int(spatialTypeEdge), RCID: 1}: {
			RecordType:  spatialTypeEdge,
			ID:          1,
			Coordinates: [][]float64{{0.5, 0.5}},
			VectorPointers: []vectorPointer{
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 10},
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 11},
			},
		},
		{RCNM: int(spatialTypeConnectedNode), RCID: 10}: {
			RecordType:  spatialTypeConnectedNode,
			ID:          10,
			Coordinates: [][]float64{{0, 0}},
		},
		{RCNM: int(spatialTypeConnectedNode), RCID: 11}: {
			RecordType:  spatialTypeConnectedNode,
			ID:          11,
			Coordinates: [][]float64{{1, 1}},
		},
	}

	builder := newPolygonBuilder(records)
	e, err := builder.loadEdge(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), e.StartNodeID)
	assert.Equal(t, int64(11), e.EndNodeID)

	coords := builder.getFullEdgeCoordinates(e, 1)
	assert.Equal(t, [][2]float64{{0, 0}, {0.5, 0.5}, {1, 1}}, coords)

	reversed := builder.getFullEdgeCoordinates(e, 2)
	assert.Equal(t, [][2]float64{{1, 1}, {0.5, 0.5}, {0, 0}}, reversed)
}

func TestPolygonBuilderLoadEdgeMissing(t *testing.T) {
	builder := newPolygonBuilder(map[spatialKey]*spatialRecord{})
	_, err := builder.loadEdge(999)
	assert.Error(t, err)
}
