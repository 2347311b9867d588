package parser

// spatialKey uniquely identifies a spatial record by (RCNM, RCID): RCID
// alone is only unique within one record type.
//
// Reference: S-57 §2.2.2.
type spatialKey struct {
	RCNM int
	RCID int64
}

// edge is a spatial edge record with its endpoint connectivity resolved
// out of VRPT, kept separate from the node geometry it references.
//
// Reference: S-57 §5.1.3.2.
type edge struct {
	ID          int64
	Points      [][2]float64
	StartNodeID int64
	EndNodeID   int64
}

// polygonBuilder assembles polygon rings from edge/node topology,
// caching resolved edges across calls for one feature's FSPT list.
type polygonBuilder struct {
	spatialRecords map[spatialKey]*spatialRecord
	edgeCache       map[int64]*edge
}

func newPolygonBuilder(spatialRecords map[spatialKey]*spatialRecord) *polygonBuilder {
	return &polygonBuilder{
		spatialRecords: spatialRecords,
		edgeCache:      make(map[int64]*edge),
	}
}

func (r *polygonBuilder) getNode(nodeID int64) *spatialRecord {
	if node, ok := r.spatialRecords[spatialKey{RCNM: int(spatialTypeConnectedNode), RCID: nodeID}]; ok && len(node.Coordinates) > 0 {
		return node
	}
	if node, ok := r.spatialRecords[spatialKey{RCNM: int(spatialTypeIsolatedNode), RCID: nodeID}]; ok && len(node.Coordinates) > 0 {
		return node
	}
	return nil
}

// getFullEdgeCoordinates stitches start node + intermediate SG2D points +
// end node into one coordinate run, reversing it when orientation==2.
func (r *polygonBuilder) getFullEdgeCoordinates(e *edge, orientation int) [][2]float64 {
	coords := make([][2]float64, 0, len(e.Points)+2)

	if e.StartNodeID != 0 {
		if node := r.getNode(e.StartNodeID); node != nil {
			coord := node.Coordinates[0]
			coords = append(coords, [2]float64{coord[0], coord[1]})
		}
	}
	coords = append(coords, e.Points...)
	if e.EndNodeID != 0 {
		if node := r.getNode(e.EndNodeID); node != nil {
			coord := node.Coordinates[0]
			coords = append(coords, [2]float64{coord[0], coord[1]})
		}
	}

	if orientation == 2 {
		reversed := make([][2]float64, len(coords))
		for i, c := range coords {
			reversed[len(coords)-1-i] = c
		}
		return reversed
	}
	return coords
}

// loadEdge resolves an edge's node connectivity and intermediate
// coordinates, caching the result.
//
// Reference: S-57 §5.1.3.2, §5.1.4.4 — edge geometry is only the SG2D
// shape points; node geometry belongs to the node records it references.
func (r *polygonBuilder) loadEdge(edgeID int64) (*edge, error) {
	if e, ok := r.edgeCache[edgeID]; ok {
		return e, nil
	}

	key := spatialKey{RCNM: int(spatialTypeEdge), RCID: edgeID}
	spatial, ok := r.spatialRecords[key]
	if !ok {
		return nil, &ErrMissingSpatialRecord{SpatialID: edgeID}
	}
	if spatial.RecordType != spatialTypeEdge {
		return nil, &ErrInvalidSpatialRecord{SpatialID: edgeID, Reason: "expected edge record (RCNM=130)"}
	}

	var startNodeID, endNodeID int64
	for _, ptr := range spatial.VectorPointers {
		if ptr.TargetRCNM == int(spatialTypeIsolatedNode) || ptr.TargetRCNM == int(spatialTypeConnectedNode) {
			if startNodeID == 0 {
				startNodeID = ptr.TargetRCID
			} else if endNodeID == 0 {
				endNodeID = ptr.TargetRCID
			}
		}
	}

	points := make([][2]float64, 0, len(spatial.Coordinates))
	for _, coord := range spatial.Coordinates {
		points = append(points, [2]float64{coord[0], coord[1]})
	}

	newEdge := &edge{ID: edgeID, Points: points, StartNodeID: startNodeID, EndNodeID: endNodeID}
	r.edgeCache[edgeID] = newEdge
	return newEdge, nil
}

// resolvePolygon builds polygon rings from a feature's edge references.
func (r *polygonBuilder) resolvePolygon(edgeRefs []spatialRef) ([][][2]float64, error) {
	if len(edgeRefs) == 0 {
		return nil, &ErrInvalidGeometry{Reason: "no edge references provided"}
	}
	return r.buildRingsWithOrientation(edgeRefs)
}

// buildRingsWithOrientation walks FSPT edge references in order, applies
// each edge's orientation, and deduplicates the shared node between
// consecutive edges so the ring doesn't carry doubled vertices.
//
// Reference: S-57 §4.7.3 — in practice, real ENC files don't always
// present edges pre-sorted, but within one feature's FSPT list they are
// contiguous enough that simple concatenation-with-dedup closes the ring.
func (r *polygonBuilder) buildRingsWithOrientation(edgeRefs []spatialRef) ([][][2]float64, error) {
	coords := make([][2]float64, 0)

	for _, ref := range edgeRefs {
		e, err := r.loadEdge(ref.RCID)
		if err != nil {
			continue
		}
		edgeCoords := r.getFullEdgeCoordinates(e, ref.Orientation)

		if len(coords) > 0 && len(edgeCoords) > 0 {
			last := coords[len(coords)-1]
			first := edgeCoords[0]
			if last[0] == first[0] && last[1] == first[1] {
				edgeCoords = edgeCoords[1:]
			}
		}
		coords = append(coords, edgeCoords...)
	}

	if len(coords) == 0 {
		return nil, &ErrInvalidGeometry{Reason: "no coordinates collected from edges"}
	}
	if isRingClosed(coords) {
		coords = closeRing(coords, ringClosureTolerance)
	}

	return [][][2]float64{coords}, nil
}

// ringClosureTolerance is how close (in decimal degrees) a ring's first
// and last point must be to count as already closed; S-57 coordinates
// are stored at 1e-7 degree precision, so 1e-6 safely absorbs rounding
// from repeated COMF scaling without masking a genuinely open ring.
const ringClosureTolerance = 1e-6

func isRingClosed(ring [][2]float64) bool {
	if len(ring) < 3 {
		return false
	}
	return pointsEqual(ring[0], ring[len(ring)-1], ringClosureTolerance)
}

func pointsEqual(a, b [2]float64, tol float64) bool {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx <= tol && dy <= tol
}

// closeRing closes a ring exactly by appending a copy of its first point.
// It only acts when the endpoints differ but are within tol of each other —
// an already exactly closed ring, or a ring with a larger gap, is returned
// unchanged, since the latter is a genuinely open ring, not a rounding artifact.
func closeRing(coords [][2]float64, tol float64) [][2]float64 {
	if len(coords) == 0 || !pointsEqual(coords[0], coords[len(coords)-1], tol) {
		return coords
	}
	if coords[0] == coords[len(coords)-1] {
		return coords
	}
	closed := make([][2]float64, len(coords)+1)
	copy(closed, coords)
	closed[len(coords)] = coords[0]
	return closed
}

// selfIntersects reports whether a ring's non-adjacent segments cross,
// using a pairwise segment-intersection test. This is O(n^2);
// constructPolygonGeometry calls it only to emit a POLYGON_SELF_INTERSECTS
// warning.
func selfIntersects(ring [][2]float64) bool {
	n := len(ring)
	if n < 4 {
		return false
	}
	for i := 0; i < n-1; i++ {
		a1, a2 := ring[i], ring[i+1]
		for j := i + 1; j < n-1; j++ {
			if j == i+1 || (i == 0 && j == n-2) {
				continue // adjacent segments (including wraparound) share an endpoint, not a crossing
			}
			b1, b2 := ring[j], ring[j+1]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, p3, p4 [2]float64) bool {
	d1 := cross(p4, p3, p1)
	d2 := cross(p4, p3, p2)
	d3 := cross(p2, p1, p3)
	d4 := cross(p2, p1, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return false
}

func cross(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}
