package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructLineStringFallsBackToPointOnUnresolvableEdges(t *testing.T) {
	records := map[spatialKey]*spatialRecord{
		{RCNM: int(spatialTypeEdge), RCID: 1}: {
			RecordType: spatialTypeEdge,
			ID:         1,
			VectorPointers: []vectorPointer{
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 10},
			},
		},
		{RCNM: int(spatialTypeConnectedNode), RCID: 10}: {
			RecordType:  spatialTypeConnectedNode,
			ID:          10,
			Coordinates: [][]float64{{4.0, 5.0}},
		},
	}
	rec := &featureRecord{
		RecordID:    7,
		SpatialRefs: []spatialRef{{RCID: 999}, {RCID: 1, Orientation: 1}}, // edge 999 has no matching spatial record
	}
	coll := NewCollector()

	geom, err := constructLineStringGeometry(rec, records, coll)
	require.NoError(t, err, "a single resolvable coordinate should degrade, not error")
	assert.Equal(t, GeometryTypePoint, geom.Type, "fewer than 2 resolved coordinates falls back to a Point")
}

func TestConstructPolygonFallsBackToPointWhenFewerThanThreeCoordinates(t *testing.T) {
	records := map[spatialKey]*spatialRecord{
		{RCNM: int(spatialTypeEdge), RCID: 1}: {
			RecordType: spatialTypeEdge,
			ID:         1,
			VectorPointers: []vectorPointer{
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 10},
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 11},
			},
		},
		{RCNM: int(spatialTypeConnectedNode), RCID: 10}: {
			RecordType:  spatialTypeConnectedNode,
			ID:          10,
			Coordinates: [][]float64{{4.0, 5.0}},
		},
		{RCNM: int(spatialTypeConnectedNode), RCID: 11}: {
			RecordType:  spatialTypeConnectedNode,
			ID:          11,
			Coordinates: [][]float64{{4.0, 5.0}}, // degenerate: zero-length edge
		},
	}
	rec := &featureRecord{RecordID: 8, SpatialRefs: []spatialRef{{RCID: 1, Orientation: 1}}}
	coll := NewCollector()

	geom, err := constructPolygonGeometry(rec, records, coll)
	require.NoError(t, err)
	assert.Equal(t, GeometryTypePoint, geom.Type)
	assert.Equal(t, [][]float64{{4.0, 5.0}}, geom.Coordinates)
	assert.NotEmpty(t, coll.Warnings())
}

func TestConstructPolygonErrorsWhenNoCoordinatesResolveAtAll(t *testing.T) {
	rec := &featureRecord{RecordID: 9, SpatialRefs: []spatialRef{{RCID: 404}}}
	_, err := constructPolygonGeometry(rec, map[spatialKey]*spatialRecord{}, nil)
	assert.Error(t, err, "no fallback coordinate exists when nothing at all resolved")
}

func TestConstructPolygonFallsBackToLineWhenRingIsClearlyOpen(t *testing.T) {
	records := map[spatialKey]*spatialRecord{
		{RCNM: int(spatialTypeEdge), RCID: 1}: {
			RecordType: spatialTypeEdge,
			ID:         1,
			VectorPointers: []vectorPointer{
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 10},
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 11},
			},
		},
		{RCNM: int(spatialTypeEdge), RCID: 2}: {
			RecordType: spatialTypeEdge,
			ID:         2,
			VectorPointers: []vectorPointer{
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 11},
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 12},
			},
		},
		{RCNM: int(spatialTypeConnectedNode), RCID: 10}: {RecordType: spatialTypeConnectedNode, ID: 10, Coordinates: [][]float64{{0, 0}}},
		{RCNM: int(spatialTypeConnectedNode), RCID: 11}: {RecordType: spatialTypeConnectedNode, ID: 11, Coordinates: [][]float64{{1, 0}}},
		{RCNM: int(spatialTypeConnectedNode), RCID: 12}: {RecordType: spatialTypeConnectedNode, ID: 12, Coordinates: [][]float64{{1, 1}}},
	}
	rec := &featureRecord{
		RecordID: 6,
		SpatialRefs: []spatialRef{
			{RCID: 1, Orientation: 1},
			{RCID: 2, Orientation: 1},
		},
	}
	coll := NewCollector()

	geom, err := constructPolygonGeometry(rec, records, coll)
	require.NoError(t, err)
	assert.Equal(t, GeometryTypeLineString, geom.Type, "endpoints (0,0) and (1,1) are far beyond ringClosureTolerance")
	assert.Equal(t, [][]float64{{0, 0}, {1, 0}, {1, 1}}, geom.Coordinates)

	found := false
	for _, w := range coll.Warnings() {
		if w.Code == "POLYGON_RING_OPEN" {
			found = true
		}
	}
	assert.True(t, found, "expected a POLYGON_RING_OPEN warning")
}

func TestEdgeStitchingUsesExactFloatEquality(t *testing.T) {
	// Stitching collapses a shared endpoint only on exact float equality,
	// per the documented ambiguity: this is fragile under arithmetic, but
	// correct for repeated decodes of the same raw integer.
	records := map[spatialKey]*spatialRecord{
		{RCNM: int(spatialTypeEdge), RCID: 1}: {
			RecordType: spatialTypeEdge, ID: 1,
			VectorPointers: []vectorPointer{
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 10},
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 11},
			},
		},
		{RCNM: int(spatialTypeEdge), RCID: 2}: {
			RecordType: spatialTypeEdge, ID: 2,
			VectorPointers: []vectorPointer{
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 11},
				{TargetRCNM: int(spatialTypeConnectedNode), TargetRCID: 12},
			},
		},
		{RCNM: int(spatialTypeConnectedNode), RCID: 10}: {RecordType: spatialTypeConnectedNode, ID: 10, Coordinates: [][]float64{{0, 0}}},
		{RCNM: int(spatialTypeConnectedNode), RCID: 11}: {RecordType: spatialTypeConnectedNode, ID: 11, Coordinates: [][]float64{{1, 0}}},
		{RCNM: int(spatialTypeConnectedNode), RCID: 12}: {RecordType: spatialTypeConnectedNode, ID: 12, Coordinates: [][]float64{{1, 1}}},
	}
	rec := &featureRecord{
		RecordID: 5,
		SpatialRefs: []spatialRef{
			{RCID: 1, Orientation: 1},
			{RCID: 2, Orientation: 1},
		},
	}

	geom, err := constructLineStringGeometry(rec, records, nil)
	require.NoError(t, err)
	// the shared node (1,0) must appear once, not twice.
	assert.Equal(t, [][]float64{{0, 0}, {1, 0}, {1, 1}}, geom.Coordinates)
}
