// Package s57 is the public façade over the S-57 ENC decoder: parsing a
// base cell plus its update files into a ParsedDataset, querying features
// spatially, and converting results to GeoJSON.
package s57

import (
	"github.com/chartworks/s57/internal/index"
	"github.com/chartworks/s57/internal/parser"
)

// Bounds is an axis-aligned geographic bounding box in [lon, lat] degrees.
type Bounds = index.Bounds

// Feature mirrors internal/parser.Feature for the public API, keeping the
// internal package's types out of the exported surface.
type Feature struct {
	ID          string // FOID string form, "agency-feature-subdivision"
	RecordID    int64
	ObjectClass string
	Geometry    Geometry
	Attributes  map[string]interface{}
	Label       string
}

// Geometry mirrors internal/parser.Geometry.
type Geometry struct {
	Type        string
	Coordinates [][]float64
}

func toPublicFeature(f *parser.Feature) Feature {
	attrs := f.Attributes
	if f.ObjectClass == "SOUNDG" && len(f.Geometry.Coordinates) > 0 && len(f.Geometry.Coordinates[0]) >= 3 {
		attrs = withDepths(attrs, f.Geometry.Coordinates)
	}

	return Feature{
		ID:          f.ID.String(),
		RecordID:    f.RecordID,
		ObjectClass: f.ObjectClass,
		Geometry:    Geometry{Type: f.Geometry.Type.String(), Coordinates: f.Geometry.Coordinates},
		Attributes:  attrs,
		Label:       f.Label,
	}
}

// withDepths derives a DEPTHS attribute from a SOUNDG point's third
// ([lon, lat, depth]) coordinate, so callers that only inspect Attributes
// (e.g. a GeoJSON properties map) see the sounding depth without also
// having to parse Geometry.Coordinates.
func withDepths(attrs map[string]interface{}, coords [][]float64) map[string]interface{} {
	depths := make([]float64, 0, len(coords))
	for _, c := range coords {
		if len(c) >= 3 {
			depths = append(depths, c[2])
		}
	}
	out := make(map[string]interface{}, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	out["DEPTHS"] = depths
	return out
}

// ChartMetadata is the public mirror of a decoded cell's DSID/DSPM fields.
type ChartMetadata struct {
	DatasetName          string
	Edition              string
	UpdateNumber         string
	UpdateDate           string
	IssueDate            string
	S57Edition           string
	ProducingAgency      int
	Comment              string
	ExchangePurpose      string
	ProductSpecification string
	ApplicationProfile   string
	IntendedUsage        int
	CoordinateUnits      int
	HorizontalDatumCode  int
	HorizontalDatumName  string
	VerticalDatumCode    int
	VerticalDatumName    string
	SoundingDatumCode    int
	SoundingDatumName    string
	CompilationScale     int32
	UsageBand            UsageBand
}

// UsageBand is the ENC usage band (navigational purpose), derived from
// INTU. Presentation-adjacent but a plain derived lookup, not rendering.
//
// Reference: S-57 Part 3 §7.3.1.1 (INTU), S-52 §3.4.
type UsageBand int

const (
	UsageBandUnknown  UsageBand = 0
	UsageBandOverview UsageBand = 1
	UsageBandGeneral  UsageBand = 2
	UsageBandCoastal  UsageBand = 3
	UsageBandApproach UsageBand = 4
	UsageBandHarbour  UsageBand = 5
	UsageBandBerthing UsageBand = 6
)

func (ub UsageBand) String() string {
	switch ub {
	case UsageBandOverview:
		return "Overview"
	case UsageBandGeneral:
		return "General"
	case UsageBandCoastal:
		return "Coastal"
	case UsageBandApproach:
		return "Approach"
	case UsageBandHarbour:
		return "Harbour"
	case UsageBandBerthing:
		return "Berthing"
	default:
		return "Unknown"
	}
}

// ScaleRange returns the recommended (min, max) scale denominators for the
// usage band; 0 means open-ended at that end.
func (ub UsageBand) ScaleRange() (minScale, maxScale int) {
	switch ub {
	case UsageBandOverview:
		return 1500000, 0
	case UsageBandGeneral:
		return 350000, 1500000
	case UsageBandCoastal:
		return 90000, 350000
	case UsageBandApproach:
		return 22000, 90000
	case UsageBandHarbour:
		return 4000, 22000
	case UsageBandBerthing:
		return 0, 4000
	default:
		return 0, 0
	}
}
