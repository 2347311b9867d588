package parser

import "math"

// geomPrim is FRID's GRIM subfield: the primitive class driving which
// spatial assembly path a feature takes.
//
// Reference: S-57 §7.6.1, Table 7.6.
type geomPrim int

const (
	geomPrimPoint      geomPrim = 1
	geomPrimLine       geomPrim = 2
	geomPrimArea       geomPrim = 3
	geomPrimNone       geomPrim = 255
)

// constructGeometry assembles a Feature's Geometry from its spatial
// pointer list and the dataset's resolved spatial records, dispatching on
// GRIM. Meta-features (GRIM=255, e.g. C_AGGR, M_COVR used only as a
// coverage boundary) legitimately produce an empty Geometry.
//
// Reference: S-57 §7.3.
func constructGeometry(rec *featureRecord, spatialRecords map[spatialKey]*spatialRecord, coll *Collector) (Geometry, error) {
	switch geomPrim(rec.GeomPrim) {
	case geomPrimPoint:
		return constructPointGeometry(rec, spatialRecords)
	case geomPrimLine:
		return constructLineStringGeometry(rec, spatialRecords, coll)
	case geomPrimArea:
		return constructPolygonGeometry(rec, spatialRecords, coll)
	case geomPrimNone:
		return Geometry{}, nil
	default:
		return Geometry{}, &ErrInvalidGeometry{Reason: "unrecognized GRIM value"}
	}
}

// constructPointGeometry resolves a feature's single node reference into
// a Point geometry.
func constructPointGeometry(rec *featureRecord, spatialRecords map[spatialKey]*spatialRecord) (Geometry, error) {
	if len(rec.SpatialRefs) == 0 {
		return Geometry{}, &ErrMissingSpatialRecord{FeatureID: rec.RecordID}
	}
	ref := rec.SpatialRefs[0]

	node := lookupNode(spatialRecords, ref.RCID)
	if node == nil {
		return Geometry{}, &ErrMissingSpatialRecord{FeatureID: rec.RecordID, SpatialID: ref.RCID}
	}
	if len(node.Coordinates) == 0 {
		return Geometry{}, &ErrInvalidGeometry{Type: GeometryTypePoint, Reason: "node has no coordinates"}
	}

	return Geometry{Type: GeometryTypePoint, Coordinates: [][]float64{node.Coordinates[0]}}, nil
}

func lookupNode(spatialRecords map[spatialKey]*spatialRecord, rcid int64) *spatialRecord {
	if node, ok := spatialRecords[spatialKey{RCNM: int(spatialTypeConnectedNode), RCID: rcid}]; ok {
		return node
	}
	if node, ok := spatialRecords[spatialKey{RCNM: int(spatialTypeIsolatedNode), RCID: rcid}]; ok {
		return node
	}
	return nil
}

// constructLineStringGeometry stitches a feature's ordered edge
// references into one LineString, honoring each edge's FSPT orientation.
//
// Reference: S-57 §7.6.8, §5.1.3.2.
func constructLineStringGeometry(rec *featureRecord, spatialRecords map[spatialKey]*spatialRecord, coll *Collector) (Geometry, error) {
	if len(rec.SpatialRefs) == 0 {
		return Geometry{}, &ErrMissingSpatialRecord{FeatureID: rec.RecordID}
	}

	builder := newPolygonBuilder(spatialRecords)
	coords := make([][2]float64, 0)

	for _, ref := range rec.SpatialRefs {
		e, err := builder.loadEdge(ref.RCID)
		if err != nil {
			if coll != nil {
				coll.Warnf(SeverityWarning, "MISSING_SPATIAL_RECORD", "feature %d: edge %d: %v", rec.RecordID, ref.RCID, err)
			}
			continue
		}
		edgeCoords := builder.getFullEdgeCoordinates(e, ref.Orientation)
		if len(coords) > 0 && len(edgeCoords) > 0 {
			last := coords[len(coords)-1]
			first := edgeCoords[0]
			if last[0] == first[0] && last[1] == first[1] {
				edgeCoords = edgeCoords[1:]
			}
		}
		coords = append(coords, edgeCoords...)
	}

	if len(coords) < 2 {
		return fallbackToPoint(rec.RecordID, GeometryTypeLineString, coords, coll)
	}

	return Geometry{Type: GeometryTypeLineString, Coordinates: coordsTo2DSlice(coords)}, nil
}

// fallbackToPoint handles an assembler that resolved too few coordinates
// to form its intended shape. Rather than dropping the feature, it degrades
// to a Point using whatever single coordinate is available, keeping feature
// counts stable across malformed or partially-unresolvable input. A feature
// with no resolvable coordinates at all is still an error: there is nothing
// to fall back to.
func fallbackToPoint(recordID int64, wantType GeometryType, coords [][2]float64, coll *Collector) (Geometry, error) {
	if len(coords) == 0 {
		return Geometry{}, &ErrInvalidGeometry{Type: wantType, Reason: "no coordinates resolved"}
	}
	if coll != nil {
		coll.Warnf(SeverityWarning, "GEOMETRY_DEGRADED_TO_POINT",
			"feature %d: %s resolved only %d coordinate(s), falling back to Point", recordID, wantType, len(coords))
	}
	return Geometry{Type: GeometryTypePoint, Coordinates: [][]float64{{coords[0][0], coords[0][1]}}}, nil
}

// constructPolygonGeometry resolves a feature's edge references into a
// closed ring, auto-closing within ringClosureTolerance and recording a
// POLYGON_CLOSED_AUTO warning rather than silently mutating the geometry
// the way an unconditional closure would.
//
// Reference: S-57 §7.3, Annex A Part 1 §2.
func constructPolygonGeometry(rec *featureRecord, spatialRecords map[spatialKey]*spatialRecord, coll *Collector) (Geometry, error) {
	if len(rec.SpatialRefs) == 0 {
		return Geometry{}, &ErrMissingSpatialRecord{FeatureID: rec.RecordID}
	}

	builder := newPolygonBuilder(spatialRecords)
	rawCoords := make([][2]float64, 0)
	for _, ref := range rec.SpatialRefs {
		e, err := builder.loadEdge(ref.RCID)
		if err != nil {
			if coll != nil {
				coll.Warnf(SeverityWarning, "MISSING_SPATIAL_RECORD", "feature %d: edge %d: %v", rec.RecordID, ref.RCID, err)
			}
			continue
		}
		edgeCoords := builder.getFullEdgeCoordinates(e, ref.Orientation)
		if len(rawCoords) > 0 && len(edgeCoords) > 0 {
			last := rawCoords[len(rawCoords)-1]
			first := edgeCoords[0]
			if last[0] == first[0] && last[1] == first[1] {
				edgeCoords = edgeCoords[1:]
			}
		}
		rawCoords = append(rawCoords, edgeCoords...)
	}

	if len(rawCoords) < 3 {
		return fallbackToPoint(rec.RecordID, GeometryTypePolygon, rawCoords, coll)
	}

	if !isRingClosed(rawCoords) {
		if coll != nil {
			coll.Warnf(SeverityWarning, "POLYGON_RING_OPEN", "feature %d: ring endpoints %.7f apart exceeds closure tolerance %.7f, falling back to Line",
				rec.RecordID, ringGap(rawCoords), ringClosureTolerance)
		}
		return Geometry{Type: GeometryTypeLineString, Coordinates: coordsTo2DSlice(rawCoords)}, nil
	}

	ring := closeRing(rawCoords, ringClosureTolerance)
	if coll != nil && len(ring) > len(rawCoords) {
		coll.Warnf(SeverityInfo, "POLYGON_CLOSED_AUTO", "feature %d: ring endpoints %.7f apart, closed within tolerance %.7f",
			rec.RecordID, ringGap(rawCoords), ringClosureTolerance)
	}

	if coll != nil && selfIntersects(ring) {
		coll.Warnf(SeverityWarning, "POLYGON_SELF_INTERSECTS", "feature %d: ring has self-intersecting segments", rec.RecordID)
	}

	return Geometry{Type: GeometryTypePolygon, Coordinates: coordsTo2DSlice(ring)}, nil
}

func ringGap(ring [][2]float64) float64 {
	if len(ring) < 2 {
		return 0
	}
	first, last := ring[0], ring[len(ring)-1]
	dx := first[0] - last[0]
	dy := first[1] - last[1]
	return math.Hypot(dx, dy)
}

func coordsTo2DSlice(coords [][2]float64) [][]float64 {
	out := make([][]float64, len(coords))
	for i, c := range coords {
		out[i] = []float64{c[0], c[1]}
	}
	return out
}
