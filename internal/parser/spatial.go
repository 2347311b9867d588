package parser

import (
	"encoding/binary"

	"github.com/chartworks/s57/internal/iso8211"
)

// vectorPointer is a pointer to another spatial record, from a VRPT
// field: 9 bytes per entry.
//
// Reference: S-57 §7.7.1.4.
type vectorPointer struct {
	TargetRCNM  int
	TargetRCID  int64
	Orientation int
	Usage       int
	Topology    int
	Mask        int
}

// spatialRecord is a parsed S-57 vector (node/edge/face) record.
//
// Reference: S-57 §2.1.
type spatialRecord struct {
	ID             int64
	RecordType     spatialType
	Coordinates    [][]float64
	VectorPointers []vectorPointer
	RecordVersion  int
	UpdateInstr    int
}

type spatialType int

const (
	spatialTypeIsolatedNode  spatialType = 110
	spatialTypeConnectedNode spatialType = 120
	spatialTypeEdge          spatialType = 130
	spatialTypeFace          spatialType = 140
)

// parseSpatialRecordWithParams extracts spatial data from an ISO 8211
// record, returning nil if the record has no VRID field.
//
// Reference: S-57 §7.7.1.1.
func parseSpatialRecordWithParams(record *iso8211.Record, params datasetParams) *spatialRecord {
	vridData, hasVRID := record.Field("VRID")
	if !hasVRID || len(vridData) < 8 {
		return nil
	}

	rec := &spatialRecord{
		RecordType:     spatialType(vridData[0]),
		Coordinates:    make([][]float64, 0),
		VectorPointers: make([]vectorPointer, 0),
	}
	rec.ID = int64(binary.LittleEndian.Uint32(vridData[1:5]))
	rec.RecordVersion = int(binary.LittleEndian.Uint16(vridData[5:7]))
	rec.UpdateInstr = int(vridData[7])

	if sg2dData, ok := record.Field("SG2D"); ok {
		rec.Coordinates = parseCoordinates2D(sg2dData, params.COMF)
	}
	if sg3dData, ok := record.Field("SG3D"); ok {
		rec.Coordinates = parseCoordinates3D(sg3dData, params.COMF, params.SOMF)
	}
	if vrptData, ok := record.Field("VRPT"); ok {
		rec.VectorPointers = parseVectorPointers(vrptData)
	}

	return rec
}

// parseCoordinates2D decodes SG2D's repeated [XCOO,YCOO] int32 pairs,
// scaled by COMF.
//
// Reference: S-57 §7.7.1.6.
func parseCoordinates2D(data []byte, comf int32) [][]float64 {
	coords := make([][]float64, 0, len(data)/8)
	for offset := 0; offset+8 <= len(data); offset += 8 {
		x := int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
		y := int32(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		coords = append(coords, []float64{convertCoordinate(x, comf), convertCoordinate(y, comf)})
	}
	return coords
}

// parseCoordinates3D decodes SG3D's repeated [XCOO,YCOO,VE3D] int32
// triples: X/Y scaled by COMF, depth scaled by SOMF.
//
// Reference: S-57 §7.7.1.7.
func parseCoordinates3D(data []byte, comf, somf int32) [][]float64 {
	coords := make([][]float64, 0, len(data)/12)
	for offset := 0; offset+12 <= len(data); offset += 12 {
		x := int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
		y := int32(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		z := int32(binary.LittleEndian.Uint32(data[offset+8 : offset+12]))
		coords = append(coords, []float64{
			convertCoordinate(x, comf),
			convertCoordinate(y, comf),
			convertCoordinate(z, somf),
		})
	}
	return coords
}

// parseVectorPointers decodes VRPT's repeated 9-byte pointer entries.
//
// Reference: S-57 §7.7.1.4.
func parseVectorPointers(data []byte) []vectorPointer {
	pointers := make([]vectorPointer, 0, len(data)/9)
	for i := 0; i+8 < len(data); i += 9 {
		pointers = append(pointers, vectorPointer{
			TargetRCNM:  int(data[i]),
			TargetRCID:  int64(binary.LittleEndian.Uint32(data[i+1 : i+5])),
			Orientation: int(data[i+5]),
			Usage:       int(data[i+6]),
			Topology:    int(data[i+7]),
			Mask:        int(data[i+8]),
		})
	}
	return pointers
}
