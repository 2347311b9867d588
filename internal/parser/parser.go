package parser

import (
	"github.com/pkg/errors"

	"github.com/chartworks/s57/internal/iso8211"
)

// ParseOptions configures a Parse call.
type ParseOptions struct {
	// ValidateGeometry runs ValidateGeometry on every constructed feature.
	ValidateGeometry bool

	// ObjectClassFilter, if non-empty, keeps only features whose object
	// class acronym appears in the list.
	ObjectClassFilter []string

	// StrictMode escalates SeverityError-or-above warnings to an
	// immediate failure instead of a recorded Warning.
	StrictMode bool

	// MaxWarnings is the warning count at which a synthetic
	// MAX_WARNINGS_EXCEEDED warning is appended; later warnings are still
	// recorded. nil means no threshold; a pointer to 0 is a valid, distinct
	// threshold of zero.
	MaxWarnings *int
}

// DefaultParseOptions returns the conventional parsing defaults: strict
// mode off, geometry validated, no warning cap.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ValidateGeometry: true,
	}
}

// ParseResult is a fully decoded cell plus the diagnostics produced while
// decoding it.
type ParseResult struct {
	Chart    *Chart
	Warnings []Warning
	Updates  UpdateSummary
}

// Parse decodes a base cell's bytes plus zero or more sequential update
// files' bytes into a ParseResult.
//
// Reference: S-57 Part 1 §1: exchange set structure (one base cell plus
// its ordered update files).
func Parse(baseData []byte, updateDatas [][]byte, opts ParseOptions) (*ParseResult, error) {
	collOpts := []CollectorOption{WithStrictMode(opts.StrictMode)}
	if opts.MaxWarnings != nil {
		collOpts = append(collOpts, WithMaxWarnings(*opts.MaxWarnings))
	}
	coll := NewCollector(collOpts...)
	return parseInner(baseData, updateDatas, opts, coll)
}

// parseInner does the actual decoding work, recovering a
// StrictModeException raised by coll.Warnf into a returned error.
func parseInner(baseData []byte, updateDatas [][]byte, opts ParseOptions, coll *Collector) (result *ParseResult, err error) {
	defer recoverStrictMode(&err)

	chart, summary, buildErr := parseAndBuild(baseData, updateDatas, opts, coll)
	if buildErr != nil {
		return nil, buildErr
	}

	return &ParseResult{Chart: chart, Warnings: coll.Warnings(), Updates: summary}, nil
}

func parseAndBuild(baseData []byte, updateDatas [][]byte, opts ParseOptions, coll *Collector) (*Chart, UpdateSummary, error) {
	data, err := parseBaseFile(baseData, coll)
	if err != nil {
		return nil, UpdateSummary{}, errors.Wrap(err, "parser: parsing base cell")
	}

	var summary UpdateSummary
	if len(updateDatas) > 0 {
		updateFiles := make([]*iso8211.File, 0, len(updateDatas))
		for _, ud := range updateDatas {
			f, err := iso8211.ReadFile(ud)
			if err != nil {
				return nil, UpdateSummary{}, errors.Wrap(err, "parser: parsing update file")
			}
			updateFiles = append(updateFiles, f)
		}
		summary = applySequentialUpdates(data, updateFiles, coll)
	}

	chart := buildChart(data, opts, coll)
	return chart, summary, nil
}

// parseBaseFile decodes the base cell's ISO 8211 records into the
// intermediate, pre-geometry chartData: metadata, parameters, feature
// records, and spatial records, all keyed for update application.
func parseBaseFile(baseData []byte, coll *Collector) (*chartData, error) {
	isoFile, err := iso8211.ReadFile(baseData)
	if err != nil {
		return nil, errors.Wrap(err, "decoding ISO 8211 structure")
	}

	params := extractDatasetParams(isoFile.Records)
	metadata := extractDSID(isoFile.Records)
	if metadata == nil {
		metadata = &datasetMetadata{}
	}

	features := make([]*featureRecord, 0)
	featuresByFOID := make(map[FOID]*featureRecord)
	spatialRecords := make(map[spatialKey]*spatialRecord)

	for _, record := range isoFile.Records {
		if featureRec := parseFeatureRecord(record, coll); featureRec != nil {
			features = append(features, featureRec)
			featuresByFOID[featureRec.ID] = featureRec
			continue
		}
		if spatialRec := parseSpatialRecordWithParams(record, params); spatialRec != nil {
			key := spatialKey{RCNM: int(spatialRec.RecordType), RCID: spatialRec.ID}
			spatialRecords[key] = spatialRec
		}
	}

	return &chartData{
		metadata:       metadata,
		params:         params,
		features:       features,
		featuresByFOID: featuresByFOID,
		spatialRecords: spatialRecords,
	}, nil
}

// buildChart constructs geometries for every feature record surviving
// update application and assembles the final Chart. A feature whose object
// class can't be resolved, whose geometry can't be assembled, or whose
// geometry fails validation is discarded with an error-severity warning
// rather than aborting the whole chart — only strict mode turns such a
// warning into a failure (via coll's own escalation), per §4.6/§7.
func buildChart(data *chartData, opts ParseOptions, coll *Collector) *Chart {
	finalFeatures := make([]Feature, 0, len(data.features))

	for _, rec := range data.features {
		objClass, err := ObjectClassToString(rec.ObjectClass, coll)
		if err != nil {
			continue
		}

		if len(opts.ObjectClassFilter) > 0 && !containsString(opts.ObjectClassFilter, objClass) {
			continue
		}

		geometry, err := constructGeometry(rec, data.spatialRecords, coll)
		if err != nil {
			coll.Warnf(SeverityError, "GEOMETRY_CONSTRUCTION_FAILED", "feature %v, ObjectClass=%s (OBJL=%d), GeomPrim=%d: %v",
				rec.ID, objClass, rec.ObjectClass, rec.GeomPrim, err)
			continue
		}

		if opts.ValidateGeometry {
			if err := ValidateGeometry(&geometry); err != nil {
				coll.Warnf(SeverityError, "INVALID_GEOMETRY", "feature %v: %v", rec.ID, err)
				continue
			}
		}

		ValidateRequiredAttributes(objClass, rec.Attributes, rec.RecordID, coll)

		label := objClass
		if name, ok := rec.Attributes["OBJNAM"]; ok {
			if s, ok := name.(string); ok && s != "" {
				label = s
			}
		}

		finalFeatures = append(finalFeatures, Feature{
			ID:            rec.ID,
			RecordID:      rec.RecordID,
			ObjectClass:   objClass,
			ObjectCode:    rec.ObjectClass,
			Geometry:      geometry,
			Attributes:    rec.Attributes,
			Label:         label,
			recordVersion: rec.RecordVersion,
			updateInstr:   rec.UpdateInstr,
		})
	}

	return &Chart{
		metadata:       data.metadata,
		params:         data.params,
		Features:       finalFeatures,
		spatialRecords: data.spatialRecords,
	}
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
