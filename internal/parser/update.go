package parser

import (
	"strconv"

	"github.com/chartworks/s57/internal/iso8211"
)

// UpdateInstruction is the RUIN (Record Update Instruction) field value.
//
// Reference: S-57 Part 3 §8.4.2.2, §8.4.3.2.
type UpdateInstruction int

const (
	UpdateInsert UpdateInstruction = 1
	UpdateDelete UpdateInstruction = 2
	UpdateModify UpdateInstruction = 3
)

func (u UpdateInstruction) String() string {
	switch u {
	case UpdateInsert:
		return "INSERT"
	case UpdateDelete:
		return "DELETE"
	case UpdateModify:
		return "MODIFY"
	default:
		return "UNKNOWN"
	}
}

// chartData is the mutable intermediate state the update applicator
// operates on: feature and spatial records keyed for O(1) lookup, plus
// the base cell's metadata carried along so UPDN sequencing can be
// checked against it.
type chartData struct {
	metadata       *datasetMetadata
	params         datasetParams
	features       []*featureRecord
	featuresByFOID map[FOID]*featureRecord
	spatialRecords map[spatialKey]*spatialRecord
}

// UpdateSummary reports what a sequence of update files did to a cell,
// so callers (the CLI, a host application) can log or display it without
// re-deriving it from Warnings().
type UpdateSummary struct {
	FilesApplied int
	Inserted     int
	Deleted      int
	Modified     int
	FinalUpdn    string
}

// applySequentialUpdates applies parsed update records, in file order, to
// chart, validating UPDN sequencing against the base cell and RVER
// sequencing against each feature/spatial record's stored version.
// Sequencing gaps and operation conflicts (FOID already exists on Insert,
// FOID absent on Delete/Modify, ...) are recorded as error-severity
// warnings and the applicator continues with the rest of the chain —
// only strict mode turns one into a failure, via coll's own escalation.
// A malformed update record is skipped the same way.
//
// Reference: S-57 Part 3 §8.2: update file sequencing rules.
func applySequentialUpdates(chart *chartData, updateSets []*iso8211.File, coll *Collector) UpdateSummary {
	summary := UpdateSummary{FinalUpdn: chart.metadata.updn}

	for _, updateFile := range updateSets {
		updn := extractDSID(updateFile.Records)
		if updn != nil {
			if err := checkSequenceGap(summary.FinalUpdn, updn.updn); err != nil {
				coll.Warnf(SeverityError, "UPDATE_GAP", "%v", err)
			}
			summary.FinalUpdn = updn.updn
		}

		for _, record := range updateFile.Records {
			if fridData, ok := record.Field("FRID"); ok && len(fridData) >= 12 {
				applyFeatureUpdate(chart, record, coll, &summary)
				continue
			}
			if vridData, ok := record.Field("VRID"); ok && len(vridData) >= 8 {
				applySpatialUpdate(chart, record, coll)
				continue
			}
		}

		summary.FilesApplied++
	}

	return summary
}

// checkSequenceGap validates that an update's UPDN immediately follows
// the cell's current UPDN. S-57 update numbers are zero-padded decimal
// strings ("001", "002", ...); non-numeric UPDNs (seen in some older
// exchange sets) skip the check rather than hard-failing.
func checkSequenceGap(current, next string) error {
	curN, err1 := strconv.Atoi(current)
	nextN, err2 := strconv.Atoi(next)
	if err1 != nil || err2 != nil {
		return nil
	}
	if nextN != curN+1 {
		return &ErrSequenceGap{Expected: strconv.Itoa(curN + 1), Got: next}
	}
	return nil
}

// hasUpdatePayload reports whether a RUIN=Modify record actually carries a
// feature description to merge (an ATTF and/or FSPT field), as opposed to
// a bare FRID/FOID with nothing to apply.
func hasUpdatePayload(record *iso8211.Record) bool {
	if _, ok := record.Field("ATTF"); ok {
		return true
	}
	_, ok := record.Field("FSPT")
	return ok
}

// applyFeatureUpdate handles one FRID record's RUIN instruction against
// the feature store, keyed by FOID rather than RCID since RCID is only
// unique within one exchange set and update files are separate records.
//
// Reference: S-57 Part 3 §8.4, operation semantics.
func applyFeatureUpdate(chart *chartData, record *iso8211.Record, coll *Collector, summary *UpdateSummary) {
	incoming := parseFeatureRecord(record, coll)
	if incoming == nil {
		coll.Warnf(SeverityError, "MALFORMED_UPDATE_RECORD", "malformed FRID update record")
		return
	}
	ruin := UpdateInstruction(incoming.UpdateInstr)

	switch ruin {
	case UpdateInsert:
		if _, exists := chart.featuresByFOID[incoming.ID]; exists {
			coll.Warnf(SeverityError, "INSERT_EXISTS", "feature %v: INSERT for an already-existing FOID, no change", incoming.ID)
			return
		}
		chart.features = append(chart.features, incoming)
		chart.featuresByFOID[incoming.ID] = incoming
		summary.Inserted++

	case UpdateDelete:
		existing, exists := chart.featuresByFOID[incoming.ID]
		if !exists {
			coll.Warnf(SeverityError, "DELETE_MISSING", "feature %v: DELETE for a FOID not in the store, no change", incoming.ID)
			return
		}
		if err := checkVersionConflict(existing.RecordVersion, incoming.RecordVersion, incoming.ID, ruin); err != nil {
			coll.Warnf(SeverityError, "UPDATE_RVER_MISMATCH", "%v", err)
		}
		delete(chart.featuresByFOID, incoming.ID)
		for i, f := range chart.features {
			if f == existing {
				chart.features = append(chart.features[:i], chart.features[i+1:]...)
				break
			}
		}
		summary.Deleted++

	case UpdateModify:
		existing, exists := chart.featuresByFOID[incoming.ID]
		if !exists {
			coll.Warnf(SeverityError, "MODIFY_MISSING", "feature %v: MODIFY for a FOID not in the store, no change", incoming.ID)
			return
		}
		if !hasUpdatePayload(record) {
			coll.Warnf(SeverityError, "MODIFY_MISSING_FEATURE", "feature %v: MODIFY with no attribute or spatial payload, no change", incoming.ID)
			return
		}
		if err := checkVersionConflict(existing.RecordVersion, incoming.RecordVersion, incoming.ID, ruin); err != nil {
			coll.Warnf(SeverityError, "UPDATE_RVER_MISMATCH", "%v", err)
		}
		mergeFeatureRecord(existing, incoming)
		summary.Modified++

	default:
		coll.Warnf(SeverityError, "MALFORMED_UPDATE_RECORD", "feature %v: unrecognized RUIN value %d", incoming.ID, incoming.UpdateInstr)
	}
}

// checkVersionConflict requires an update's RVER to immediately follow
// the stored record's current RVER, rejecting replays and out-of-order
// application rather than silently overwriting.
//
// Reference: S-57 Part 3 §8.4.3: record version sequencing.
func checkVersionConflict(currentVersion, updateVersion int, foid FOID, instr UpdateInstruction) error {
	if updateVersion != currentVersion+1 {
		return &ErrVersionConflict{FOID: foid, CurrentVersion: currentVersion, UpdateVersion: updateVersion, UpdateInstr: instr}
	}
	return nil
}

// mergeFeatureRecord applies a RUIN=Modify record field-by-field onto the
// stored feature, rather than the teacher's full-struct overwrite: ATTF
// groups present in the update replace or add attributes, attributes
// absent from the update are left untouched, and a non-empty FSPT list
// replaces the spatial reference set wholesale (S-57 doesn't support
// partial FSPT updates).
func mergeFeatureRecord(existing, incoming *featureRecord) {
	existing.RecordVersion = incoming.RecordVersion
	existing.UpdateInstr = incoming.UpdateInstr

	if incoming.ObjectClass != 0 {
		existing.ObjectClass = incoming.ObjectClass
	}
	if incoming.GeomPrim != 0 {
		existing.GeomPrim = incoming.GeomPrim
	}
	if incoming.Group != 0 {
		existing.Group = incoming.Group
	}
	for k, v := range incoming.Attributes {
		existing.Attributes[k] = v
	}
	if len(incoming.SpatialRefs) > 0 {
		existing.SpatialRefs = incoming.SpatialRefs
	}
}

// applySpatialUpdate handles one VRID record's RUIN instruction against
// the spatial record store, using the same operation-conflict codes as
// applyFeatureUpdate: conflicts are recorded as error-severity warnings
// and the record is skipped rather than aborting the parse.
func applySpatialUpdate(chart *chartData, record *iso8211.Record, coll *Collector) {
	incoming := parseSpatialRecordWithParams(record, chart.params)
	if incoming == nil {
		coll.Warnf(SeverityError, "MALFORMED_UPDATE_RECORD", "malformed VRID update record")
		return
	}
	key := spatialKey{RCNM: int(incoming.RecordType), RCID: incoming.ID}
	ruin := UpdateInstruction(incoming.UpdateInstr)

	switch ruin {
	case UpdateInsert:
		if _, exists := chart.spatialRecords[key]; exists {
			coll.Warnf(SeverityError, "INSERT_EXISTS", "spatial record %d: INSERT for an already-existing record, no change", incoming.ID)
			return
		}
		chart.spatialRecords[key] = incoming

	case UpdateDelete:
		if _, exists := chart.spatialRecords[key]; !exists {
			coll.Warnf(SeverityError, "DELETE_MISSING", "spatial record %d: DELETE for a record not in the store, no change", incoming.ID)
			return
		}
		delete(chart.spatialRecords, key)

	case UpdateModify:
		existing, exists := chart.spatialRecords[key]
		if !exists {
			coll.Warnf(SeverityError, "MODIFY_MISSING", "spatial record %d: MODIFY for a record not in the store, no change", incoming.ID)
			return
		}
		if err := checkVersionConflict(existing.RecordVersion, incoming.RecordVersion, FOID{}, ruin); err != nil {
			coll.Warnf(SeverityError, "UPDATE_RVER_MISMATCH", "%v", err)
		}
		chart.spatialRecords[key] = incoming

	default:
		coll.Warnf(SeverityError, "MALFORMED_UPDATE_RECORD", "spatial record %d: unrecognized RUIN value %d", incoming.ID, incoming.UpdateInstr)
	}
}
