package parser

import (
	"encoding/binary"
	"strings"

	"github.com/chartworks/s57/internal/iso8211"
)

// datasetMetadata holds the DSID (Data Set Identification) fields that
// identify a chart cell: name, edition, dates, and the S-57/product
// profile it was exchanged under.
//
// Reference: S-57 Part 3 §7.3.1.1: Data Set Identification field
// structure with all subfields.
type datasetMetadata struct {
	rcnm int
	rcid int64
	expp int
	intu int
	dsnm string
	edtn string
	updn string
	uadt string
	isdt string
	sted string
	prsp int
	psdn string
	pred string
	prof int
	agen int
	comt string
}

func (m *datasetMetadata) ExchangePurpose() string {
	switch m.expp {
	case 1:
		return "New"
	case 2:
		return "Revision"
	default:
		return "Unknown"
	}
}

func (m *datasetMetadata) ProductSpecification() string {
	switch m.prsp {
	case 1:
		return "ENC"
	case 2:
		return "ODD"
	default:
		return "Unknown"
	}
}

func (m *datasetMetadata) ApplicationProfile() string {
	switch m.prof {
	case 1:
		return "EN (ENC New)"
	case 2:
		return "ER (ENC Revision)"
	case 3:
		return "DD (Data Dictionary)"
	default:
		return "Unknown"
	}
}

// datasetParams holds the DSPM (Data Set Parameters) record: coordinate
// scaling factors and the datum/unit codes that apply to every spatial
// record in the cell.
//
// Reference: S-57 Part 3 §7.3.2: Data Set Parameter Record.
type datasetParams struct {
	COMF int32
	SOMF int32
	HDAT int
	VDAT int
	SDAT int
	CSCL int32
	COUN int
}

func defaultDatasetParams() datasetParams {
	return datasetParams{COMF: 10000000, SOMF: 10}
}

// horizontalDatumNames and verticalDatumNames are the S-57 Appendix A
// Chapter 3 (Annex) datum code tables, used to turn HDAT/VDAT/SDAT codes
// into names and to flag codes the catalogue doesn't recognize.
var horizontalDatumNames = map[int]string{
	1:  "WGS72",
	2:  "WGS84",
	3:  "European 1950",
	4:  "Potsdam Datum",
	5:  "Adindan",
	6:  "Australian Geodetic 1966",
	7:  "Australian Geodetic 1984",
	8:  "Ayabelle Lighthouse",
	9:  "Bukit Rimpah",
	10: "Tokyo",
}

var verticalDatumNames = map[int]string{
	1:  "Mean low water springs",
	2:  "Mean lower low water springs",
	3:  "Mean sea level",
	4:  "Lowest low water",
	5:  "Mean low water",
	6:  "Lowest low water springs",
	7:  "Approximate mean low water springs",
	8:  "Indian spring low water",
	9:  "Low water springs",
	10: "Approximate lowest astronomical tide",
	11: "Nearly lowest low water",
	12: "Mean lower low water",
	13: "Low water",
	14: "Approximate mean low water",
	15: "Approximate mean lower low water",
	16: "Mean high water",
	17: "Mean high water springs",
	18: "High water",
	19: "Approximate mean sea level",
	20: "High water springs",
	21: "Mean higher high water",
	22: "Equinoctial spring low water",
	23: "Lowest astronomical tide",
	24: "Local datum",
	25: "International Great Lakes Datum 1985",
	26: "Mean water level",
	27: "Lower low water large tide",
	28: "Higher high water large tide",
	29: "Nearly highest high water",
	30: "Highest astronomical tide",
}

func datumName(table map[int]string, code int, warnCode, kind string, coll *Collector) string {
	if name, ok := table[code]; ok {
		return name
	}
	if coll != nil {
		coll.Warnf(SeverityWarning, warnCode, "unknown %s datum code %d", kind, code)
	}
	return "Unknown"
}

// HorizontalDatumName returns the human-readable name of a HDAT code.
func HorizontalDatumName(code int, coll *Collector) string {
	return datumName(horizontalDatumNames, code, "UNKNOWN_HORIZONTAL_DATUM", "horizontal", coll)
}

// VerticalDatumName returns the human-readable name of a VDAT code.
func VerticalDatumName(code int, coll *Collector) string {
	return datumName(verticalDatumNames, code, "UNKNOWN_VERTICAL_DATUM", "vertical", coll)
}

// SoundingDatumName returns the human-readable name of an SDAT code.
func SoundingDatumName(code int, coll *Collector) string {
	return datumName(verticalDatumNames, code, "UNKNOWN_SOUNDING_DATUM", "sounding", coll)
}

// extractDSID finds and parses the first DSID field among the given
// records.
func extractDSID(records []*iso8211.Record) *datasetMetadata {
	for _, rec := range records {
		if data, ok := rec.Field("DSID"); ok {
			return parseDSID(data)
		}
	}
	return nil
}

// parseDSID decodes the DSID field's mixed binary/ASCII layout.
//
// Reference: S-57 Part 3 §7.3.1.1, table 7.4.
func parseDSID(data []byte) *datasetMetadata {
	dsid := &datasetMetadata{}
	if len(data) < 7 {
		return dsid
	}

	offset := 0
	dsid.rcnm = int(data[offset])
	offset++
	if offset+4 <= len(data) {
		dsid.rcid = int64(binary.LittleEndian.Uint32(data[offset : offset+4]))
		offset += 4
	}
	if offset < len(data) {
		dsid.expp = int(data[offset])
		offset++
	}
	if offset < len(data) {
		dsid.intu = int(data[offset])
		offset++
	}

	extractASCII := func() string {
		if offset >= len(data) {
			return ""
		}
		start := offset
		for offset < len(data) && data[offset] != iso8211.UnitTerminator {
			offset++
		}
		result := string(data[start:offset])
		if offset < len(data) && data[offset] == iso8211.UnitTerminator {
			offset++
		}
		return result
	}

	dsid.dsnm = extractASCII()
	dsid.edtn = extractASCII()
	dsid.updn = extractASCII()

	if offset+8 <= len(data) {
		dsid.uadt = strings.TrimRight(string(data[offset:offset+8]), "\x00 ")
		offset += 8
	}
	if offset+8 <= len(data) {
		dsid.isdt = strings.TrimRight(string(data[offset:offset+8]), "\x00 ")
		offset += 8
	}
	if offset+4 <= len(data) {
		dsid.sted = strings.TrimRight(string(data[offset:offset+4]), "\x00 ")
		offset += 4
	}
	if offset < len(data) {
		dsid.prsp = int(data[offset])
		offset++
	}
	dsid.psdn = extractASCII()
	dsid.pred = extractASCII()
	if offset < len(data) {
		dsid.prof = int(data[offset])
		offset++
	}
	if offset+2 <= len(data) {
		dsid.agen = int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2
	}
	dsid.comt = extractASCII()

	return dsid
}

// extractDatasetParams finds and parses the first DSPM field among the
// given records, falling back to S-57's conventional defaults (10^7
// COMF, 10 SOMF) when none is present.
func extractDatasetParams(records []*iso8211.Record) datasetParams {
	for _, rec := range records {
		if data, ok := rec.Field("DSPM"); ok {
			return parseDSPM(data)
		}
	}
	return defaultDatasetParams()
}

// parseDSPM decodes the DSPM field's fixed binary layout.
//
// Reference: S-57 Part 3 §7.3.2.1.
func parseDSPM(data []byte) datasetParams {
	params := defaultDatasetParams()
	if len(data) < 24 || data[0] != 20 {
		return params
	}

	offset := 1 // RCNM
	offset += 4 // RCID

	params.HDAT = int(data[offset])
	offset++
	params.VDAT = int(data[offset])
	offset++
	params.SDAT = int(data[offset])
	offset++

	params.CSCL = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4

	offset += 3 // DUNI, HUNI, PUNI

	params.COUN = int(data[offset])
	offset++

	if offset+4 <= len(data) {
		params.COMF = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
		offset += 4
	}
	if offset+4 <= len(data) {
		params.SOMF = int32(binary.LittleEndian.Uint32(data[offset : offset+4]))
	}

	if params.COMF <= 0 {
		params.COMF = 10000000
	}
	if params.SOMF <= 0 {
		params.SOMF = 10
	}
	return params
}

// convertCoordinate scales a raw integer coordinate by a multiplication
// factor, falling back to the conventional 10^7 factor if comf is
// invalid.
func convertCoordinate(value int32, comf int32) float64 {
	if comf <= 0 {
		comf = 10000000
	}
	return float64(value) / float64(comf)
}

// Chart is the top-level decoded cell: its metadata, parameters, and
// (once built) its features. ChartMetadata in pkg/s57 mirrors the public
// fields of this type.
type Chart struct {
	metadata       *datasetMetadata
	params         datasetParams
	Features       []Feature
	spatialRecords map[spatialKey]*spatialRecord
}

func (c *Chart) DatasetName() string {
	if c.metadata == nil {
		return ""
	}
	return c.metadata.dsnm
}

func (c *Chart) Edition() string {
	if c.metadata == nil {
		return ""
	}
	return c.metadata.edtn
}

func (c *Chart) UpdateNumber() string {
	if c.metadata == nil {
		return ""
	}
	return c.metadata.updn
}

func (c *Chart) UpdateDate() string {
	if c.metadata == nil {
		return ""
	}
	return c.metadata.uadt
}

func (c *Chart) IssueDate() string {
	if c.metadata == nil {
		return ""
	}
	return c.metadata.isdt
}

func (c *Chart) S57Edition() string {
	if c.metadata == nil {
		return ""
	}
	return c.metadata.sted
}

func (c *Chart) ProducingAgency() int {
	if c.metadata == nil {
		return 0
	}
	return c.metadata.agen
}

func (c *Chart) Comment() string {
	if c.metadata == nil {
		return ""
	}
	return c.metadata.comt
}

func (c *Chart) ExchangePurpose() string {
	if c.metadata == nil {
		return "Unknown"
	}
	return c.metadata.ExchangePurpose()
}

func (c *Chart) ProductSpecification() string {
	if c.metadata == nil {
		return "Unknown"
	}
	return c.metadata.ProductSpecification()
}

func (c *Chart) ApplicationProfile() string {
	if c.metadata == nil {
		return "Unknown"
	}
	return c.metadata.ApplicationProfile()
}

func (c *Chart) IntendedUsage() int {
	if c.metadata == nil {
		return 0
	}
	return c.metadata.intu
}

func (c *Chart) CoordinateUnits() int  { return c.params.COUN }
func (c *Chart) HorizontalDatum() int  { return c.params.HDAT }
func (c *Chart) VerticalDatum() int    { return c.params.VDAT }
func (c *Chart) SoundingDatum() int    { return c.params.SDAT }
func (c *Chart) CompilationScale() int32 { return c.params.CSCL }
