package s57

import (
	"sort"

	"github.com/chartworks/s57/internal/index"
	"github.com/chartworks/s57/internal/parser"
)

// ParseOptions configures a Parse/ParseBytes call.
type ParseOptions struct {
	ValidateGeometry  bool
	ObjectClassFilter []string
	StrictMode        bool

	// MaxWarnings is the warning count at which a synthetic
	// MAX_WARNINGS_EXCEEDED warning is appended; later warnings are still
	// recorded. nil means no threshold; a pointer to 0 is a valid, distinct
	// threshold of zero.
	MaxWarnings *int

	RTree index.RTreeConfig
}

// DefaultParseOptions matches the development profile: non-strict
// decoding, geometry validated, no warning cap.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{ValidateGeometry: true}
}

// ProductionParseOptions caps warnings at 100 and stays non-strict.
func ProductionParseOptions() ParseOptions {
	max := 100
	return ParseOptions{ValidateGeometry: true, MaxWarnings: &max}
}

// TestingParseOptions enables strict mode with a small warning cap.
func TestingParseOptions() ParseOptions {
	max := 10
	return ParseOptions{ValidateGeometry: true, StrictMode: true, MaxWarnings: &max}
}

// ParsedDataset is a fully decoded cell: metadata, features, bounds, a
// spatial index over the features, and the warnings produced decoding it.
type ParsedDataset struct {
	Metadata ChartMetadata
	Bounds   Bounds
	Warnings []parser.Warning
	Updates  UpdateSummary

	features []*parser.Feature
	index    index.SpatialIndex
}

// Parse decodes a base cell's bytes plus zero or more ordered update
// files' bytes into a ParsedDataset.
func Parse(baseData []byte, updateDatas [][]byte, opts ParseOptions) (*ParsedDataset, error) {
	if len(baseData) == 0 {
		return nil, newInputError("s57: base cell data is empty")
	}

	innerOpts := parser.ParseOptions{
		ValidateGeometry:  opts.ValidateGeometry,
		ObjectClassFilter: opts.ObjectClassFilter,
		StrictMode:        opts.StrictMode,
		MaxWarnings:       opts.MaxWarnings,
	}

	result, err := parser.Parse(baseData, updateDatas, innerOpts)
	if err != nil {
		return nil, newParseError(err, "s57: parsing cell")
	}

	return buildParsedDataset(result, opts), nil
}

// ParseBytes decodes a base cell with no update files applied.
func ParseBytes(baseData []byte, opts ParseOptions) (*ParsedDataset, error) {
	return Parse(baseData, nil, opts)
}

func buildParsedDataset(result *parser.ParseResult, opts ParseOptions) *ParsedDataset {
	chart := result.Chart

	features := make([]*parser.Feature, len(chart.Features))
	for i := range chart.Features {
		features[i] = &chart.Features[i]
	}

	spatialIndex := index.NewIndex(features, opts.RTree)

	return &ParsedDataset{
		Metadata: toChartMetadata(chart),
		Bounds:   chartBounds(chart, spatialIndex),
		Warnings: result.Warnings,
		Updates:  UpdateSummary(result.Updates),
		features: features,
		index:    spatialIndex,
	}
}

// chartBounds prefers the M_COVR meta-feature's geometry (the dataset's
// declared coverage boundary) over the bounding box of every feature,
// falling back to the index's computed bounds when no M_COVR is present.
//
// Reference: teacher's pkg/s57/s57.go buildSpatialIndex, which special-
// cases coverage features when computing chart bounds.
func chartBounds(chart *parser.Chart, idx index.SpatialIndex) Bounds {
	for _, f := range chart.Features {
		if f.ObjectClass != "M_COVR" {
			continue
		}
		if b, ok := boundsOfCoordinates(f.Geometry.Coordinates); ok {
			return b
		}
	}

	b, ok := idx.CalculateBounds()
	if !ok {
		return Bounds{}
	}
	return b
}

func boundsOfCoordinates(coords [][]float64) (Bounds, bool) {
	var b Bounds
	first := true
	for _, coord := range coords {
		if len(coord) < 2 {
			continue
		}
		if first {
			b = Bounds{MinLon: coord[0], MaxLon: coord[0], MinLat: coord[1], MaxLat: coord[1]}
			first = false
			continue
		}
		b.MinLon = min(b.MinLon, coord[0])
		b.MaxLon = max(b.MaxLon, coord[0])
		b.MinLat = min(b.MinLat, coord[1])
		b.MaxLat = max(b.MaxLat, coord[1])
	}
	return b, !first
}

func toChartMetadata(chart *parser.Chart) ChartMetadata {
	// Datum names are resolved only here, with a throwaway Collector: an
	// unknown datum code yields "Unknown" but its warning is not added to
	// the dataset's Warnings.
	coll := parser.NewCollector()
	return ChartMetadata{
		DatasetName:          chart.DatasetName(),
		Edition:              chart.Edition(),
		UpdateNumber:         chart.UpdateNumber(),
		UpdateDate:           chart.UpdateDate(),
		IssueDate:            chart.IssueDate(),
		S57Edition:           chart.S57Edition(),
		ProducingAgency:      chart.ProducingAgency(),
		Comment:              chart.Comment(),
		ExchangePurpose:      chart.ExchangePurpose(),
		ProductSpecification: chart.ProductSpecification(),
		ApplicationProfile:   chart.ApplicationProfile(),
		IntendedUsage:        chart.IntendedUsage(),
		CoordinateUnits:      chart.CoordinateUnits(),
		HorizontalDatumCode:  chart.HorizontalDatum(),
		HorizontalDatumName:  parser.HorizontalDatumName(chart.HorizontalDatum(), coll),
		VerticalDatumCode:    chart.VerticalDatum(),
		VerticalDatumName:    parser.VerticalDatumName(chart.VerticalDatum(), coll),
		SoundingDatumCode:    chart.SoundingDatum(),
		SoundingDatumName:    parser.SoundingDatumName(chart.SoundingDatum(), coll),
		CompilationScale:     chart.CompilationScale(),
		UsageBand:            UsageBand(chart.IntendedUsage()),
	}
}

// Features returns every decoded feature, in ISO 8211 record order.
func (d *ParsedDataset) Features() []Feature { return toPublicFeatures(d.features) }

// FeatureCount returns the number of decoded features.
func (d *ParsedDataset) FeatureCount() int { return d.index.FeatureCount() }

// PresentFeatureTypes returns the distinct object class acronyms present.
func (d *ParsedDataset) PresentFeatureTypes() []string { return d.index.PresentFeatureTypes() }

// QueryBounds returns features whose geometry bounding box intersects b.
func (d *ParsedDataset) QueryBounds(b Bounds) []Feature {
	return toPublicFeatures(d.index.QueryBounds(b))
}

// QueryPoint returns features whose bounding box intersects the
// axis-aligned square of side 2*radiusDegrees centered on (lat, lon).
func (d *ParsedDataset) QueryPoint(lat, lon, radiusDegrees float64) []Feature {
	return toPublicFeatures(d.index.QueryPoint(lat, lon, radiusDegrees))
}

// QueryByType returns features of the given object class acronym.
func (d *ParsedDataset) QueryByType(objectClass string) []Feature {
	return toPublicFeatures(d.index.QueryByType(objectClass))
}

// QueryNavigationAids returns buoys, beacons, lights, and daymarks.
func (d *ParsedDataset) QueryNavigationAids() []Feature {
	return toPublicFeatures(d.index.QueryNavigationAids())
}

// QueryDepthFeatures returns depth areas, depth contours, and soundings.
func (d *ParsedDataset) QueryDepthFeatures() []Feature {
	return toPublicFeatures(d.index.QueryDepthFeatures())
}

// FindFeaturesOptions filters and bounds a FindFeatures call.
type FindFeaturesOptions struct {
	ObjectClass string // if non-empty, only this object class
	Bounds      *Bounds
	Limit       int // 0 means unlimited
}

// FindFeatures applies an optional object-class and bounds filter, sorts
// by RecordID, then truncates to Limit. Sorting before truncation means a
// call with a smaller Limit returns a prefix of a call with a larger one.
func (d *ParsedDataset) FindFeatures(opts FindFeaturesOptions) []Feature {
	var candidates []*parser.Feature
	switch {
	case opts.ObjectClass != "":
		candidates = d.index.QueryByType(opts.ObjectClass)
	case opts.Bounds != nil:
		candidates = d.index.QueryBounds(*opts.Bounds)
	default:
		candidates = d.index.GetAllFeatures()
	}

	if opts.ObjectClass != "" && opts.Bounds != nil {
		filtered := make([]*parser.Feature, 0, len(candidates))
		for _, f := range candidates {
			if b, ok := boundsOfCoordinates(f.Geometry.Coordinates); ok && b.Intersects(*opts.Bounds) {
				filtered = append(filtered, f)
			}
		}
		candidates = filtered
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].RecordID < candidates[j].RecordID })

	if opts.Limit > 0 && len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	return toPublicFeatures(candidates)
}

func toPublicFeatures(features []*parser.Feature) []Feature {
	out := make([]Feature, len(features))
	for i, f := range features {
		out[i] = toPublicFeature(f)
	}
	return out
}

// Summary is a compact, printable overview of a ParsedDataset, used by
// cmd/s57dump and suitable for logging.
type Summary struct {
	DatasetName  string
	Edition      string
	UpdateNumber string
	FeatureCount int
	ObjectTypes  []string
	Bounds       Bounds
	WarningCount int
}

// Summary returns a Summary of the dataset.
func (d *ParsedDataset) Summary() Summary {
	return Summary{
		DatasetName:  d.Metadata.DatasetName,
		Edition:      d.Metadata.Edition,
		UpdateNumber: d.Metadata.UpdateNumber,
		FeatureCount: d.FeatureCount(),
		ObjectTypes:  d.PresentFeatureTypes(),
		Bounds:       d.Bounds,
		WarningCount: len(d.Warnings),
	}
}
