package parser

import (
	"encoding/binary"
	"fmt"

	"github.com/chartworks/s57/internal/iso8211"
)

// GeometryType is the kind of spatial representation a Feature carries.
type GeometryType int

const (
	GeometryTypePoint GeometryType = iota
	GeometryTypeLineString
	GeometryTypePolygon
)

func (g GeometryType) String() string {
	switch g {
	case GeometryTypePoint:
		return "Point"
	case GeometryTypeLineString:
		return "LineString"
	case GeometryTypePolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Geometry is a feature's assembled spatial representation: a classified
// type plus [lon, lat] or [lon, lat, depth] coordinate tuples.
//
// Reference: S-57 §7.3: Spatial record structure.
type Geometry struct {
	Type        GeometryType
	Coordinates [][]float64
}

// FOID is a feature's globally unique identifier: producing agency plus a
// per-agency feature number and subdivision. It is the key the update
// applicator uses to match RUIN=Modify/Delete records to existing
// features, since RCID is only unique within one exchange set.
//
// Reference: S-57 Part 3 §7.6.2.
type FOID struct {
	AGEN uint16
	FIDN uint32
	FIDS uint16
}

func (f FOID) String() string {
	return fmt.Sprintf("%d-%d-%d", f.AGEN, f.FIDN, f.FIDS)
}

// ParseFOIDString parses the "%d-%d-%d" form produced by FOID.String.
// Malformed input falls back to the zero FOID rather than erroring, since
// callers (the CLI, update diagnostics) treat an unparsable FOID as
// "unknown feature" rather than a hard failure.
func ParseFOIDString(s string) FOID {
	var f FOID
	var agen, fidn, fids uint64
	n, err := fmt.Sscanf(s, "%d-%d-%d", &agen, &fidn, &fids)
	if err != nil || n != 3 {
		return FOID{}
	}
	f.AGEN = uint16(agen)
	f.FIDN = uint32(fidn)
	f.FIDS = uint16(fids)
	return f
}

// Feature is a navigational object extracted from S-57 chart data: its
// identity, object class, geometry, and decoded attributes.
//
// Reference: S-57 §2.1.
type Feature struct {
	ID          FOID
	RecordID    int64 // RCID, unique only within this exchange set
	ObjectClass string
	ObjectCode  int
	Geometry    Geometry
	Attributes  map[string]interface{}
	Label       string // from OBJNAM, falling back to the object class acronym

	recordVersion int
	updateInstr   int
}

// RecordVersion returns the feature's RVER, used by the update
// applicator to reject out-of-sequence Modify/Delete instructions.
func (f *Feature) RecordVersion() int { return f.recordVersion }

// spatialRef is a feature-to-spatial pointer with orientation/usage/mask,
// from an FSPT field.
//
// Reference: S-57 §7.6.8.
type spatialRef struct {
	RCID        int64
	Orientation int
	Usage       int
	Mask        int
}

// featureRecord is the intermediate, pre-geometry representation of an
// FRID record used while updates are still being merged.
type featureRecord struct {
	ID            FOID
	RecordID      int64
	ObjectClass   int
	GeomPrim      int
	Group         int
	RecordVersion int
	UpdateInstr   int
	Attributes    map[string]interface{}
	SpatialRefs   []spatialRef
}

// parseFeatureRecord extracts feature data from an ISO 8211 record,
// returning nil if the record has no FRID field.
//
// Reference: S-57 §7.6.1.
func parseFeatureRecord(record *iso8211.Record, coll *Collector) *featureRecord {
	fridData, hasFRID := record.Field("FRID")
	if !hasFRID || len(fridData) < 12 {
		return nil
	}
	if fridData[0] != 100 {
		return nil
	}

	rec := &featureRecord{
		Attributes:  make(map[string]interface{}),
		SpatialRefs: make([]spatialRef, 0),
	}

	rec.RecordID = int64(binary.LittleEndian.Uint32(fridData[1:5]))
	rec.GeomPrim = int(fridData[5])
	rec.Group = int(fridData[6])
	rec.ObjectClass = int(binary.LittleEndian.Uint16(fridData[7:9]))
	rec.RecordVersion = int(binary.LittleEndian.Uint16(fridData[9:11]))
	rec.UpdateInstr = int(fridData[11])

	if foidData, ok := record.Field("FOID"); ok && len(foidData) >= 8 {
		rec.ID = FOID{
			AGEN: binary.LittleEndian.Uint16(foidData[0:2]),
			FIDN: binary.LittleEndian.Uint32(foidData[2:6]),
			FIDS: binary.LittleEndian.Uint16(foidData[6:8]),
		}
	}

	if attfData, ok := record.Field("ATTF"); ok {
		rec.Attributes = parseAttributes(attfData, coll)
	}

	if fsptData, ok := record.Field("FSPT"); ok {
		rec.SpatialRefs = parseSpatialPointers(fsptData)
	}

	return rec
}

// parseAttributes decodes the ATTF field's repeated [ATTL(2), ATVL(var)]
// groups, coercing each value according to the attribute's declared type
// in the catalogue rather than keeping everything as a raw string.
//
// Reference: S-57 Appendix B.1.
func parseAttributes(data []byte, coll *Collector) map[string]interface{} {
	attributes := make(map[string]interface{})

	offset := 0
	for offset+2 <= len(data) {
		code := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2

		valueEnd := offset
		for valueEnd < len(data) && data[valueEnd] != iso8211.UnitTerminator {
			valueEnd++
		}

		if valueEnd > offset {
			raw := string(data[offset:valueEnd])
			def, known := attributeDef(code)
			name := def.Acronym
			if !known {
				name = AttributeCodeToString(code, coll)
			}
			attributes[name] = decodeAttributeValue(def, known, raw)
		}

		offset = valueEnd + 1
	}

	return attributes
}

// parseSpatialPointers extracts FSPT pointers: 8 bytes per entry.
//
// Reference: S-57 §7.6.8.
func parseSpatialPointers(data []byte) []spatialRef {
	refs := make([]spatialRef, 0, len(data)/8)
	for i := 0; i+7 < len(data); i += 8 {
		refs = append(refs, spatialRef{
			RCID:        int64(binary.LittleEndian.Uint32(data[i+1 : i+5])),
			Orientation: int(data[i+5]),
			Usage:       int(data[i+6]),
			Mask:        int(data[i+7]),
		})
	}
	return refs
}
