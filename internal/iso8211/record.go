package iso8211

import (
	"fmt"

	"github.com/pkg/errors"
)

// LeadRecord is the DDR ("L") record that opens every ISO 8211 file. It
// carries the field tag/name/format-control descriptors that data records
// reference by tag, but no field data of its own.
type LeadRecord struct {
	Leader     Leader
	FieldTypes map[string]*FieldType
}

// Record is a data ("D") record: a leader, a directory, and the raw bytes
// of each field it contains, keyed by tag. Callers interpret the bytes
// according to S-57 semantics; this package only slices them out.
type Record struct {
	Leader Leader
	Fields map[string][]byte
	// Order preserves directory order, since some S-57 fields (ATTF/FSPT)
	// repeat and callers may care about first-seen order for diagnostics.
	Order []string
}

// Field returns the raw bytes for tag and whether it was present.
func (r *Record) Field(tag string) ([]byte, bool) {
	b, ok := r.Fields[tag]
	return b, ok
}

// trimFieldData strips a single trailing field terminator, if present.
func trimFieldData(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == FieldTerminator {
		return b[:n-1]
	}
	return b
}

func sliceFields(data []byte, leader Leader, entries []DirEntry) (map[string][]byte, []string, error) {
	fields := make(map[string][]byte, len(entries))
	order := make([]string, 0, len(entries))
	for _, e := range entries {
		start := leader.BaseAddress + e.Position
		end := start + e.Length
		if start < 0 || end > len(data) || start > end {
			return nil, nil, fmt.Errorf("iso8211: field %q at [%d:%d] out of bounds (record length %d)", e.Tag, start, end, len(data))
		}
		fields[e.Tag] = trimFieldData(data[start:end])
		order = append(order, e.Tag)
	}
	return fields, order, nil
}

// readLead parses the DDR at the front of data and returns it along with
// the number of bytes it occupied.
func readLead(data []byte) (*LeadRecord, int, error) {
	leader, err := readLeader(data, 0)
	if err != nil {
		return nil, 0, errors.Wrap(err, "iso8211: reading lead record leader")
	}
	if leader.LeaderID != 'L' {
		return nil, 0, fmt.Errorf("iso8211: first record is not a lead (DDR) record, got leader id %q", leader.LeaderID)
	}
	entries, err := readDirectory(data, leader, leaderSize)
	if err != nil {
		return nil, 0, errors.Wrap(err, "iso8211: reading lead record directory")
	}
	raw, _, err := sliceFields(data, leader, entries)
	if err != nil {
		return nil, 0, err
	}

	lead := &LeadRecord{Leader: leader, FieldTypes: make(map[string]*FieldType, len(entries))}
	for _, e := range entries {
		fdata := raw[e.Tag]
		ft, err := parseFieldType(e.Tag, fdata)
		if err != nil {
			return nil, 0, err
		}
		lead.FieldTypes[e.Tag] = ft
	}
	return lead, leader.RecordLength, nil
}

// parseFieldType decodes a DDR field's control-field data: data structure
// and type codes, followed by name / array descriptor / format controls
// separated by UnitTerminator.
func parseFieldType(tag string, data []byte) (*FieldType, error) {
	ft := &FieldType{Tag: tag}
	// The first 9 bytes are the field-control subfield (data structure,
	// data type, auxiliary controls, printable FT/UT, escape sequence);
	// this module does not need them since S-57 consumers decode field
	// payloads against fixed binary layouts rather than generic controls.
	if len(data) <= 9 {
		return ft, nil
	}
	rest := data[9:]
	parts := splitOnUnitTerminator(rest)
	if len(parts) > 0 {
		ft.Name = parts[0]
	}
	if len(parts) > 1 {
		ft.ArrayDescriptor = parts[1]
	}
	if len(parts) > 2 {
		ft.FormatControls = parts[2]
	}
	return ft, nil
}

func splitOnUnitTerminator(b []byte) []string {
	var out []string
	start := 0
	for i, c := range b {
		if c == UnitTerminator {
			out = append(out, string(b[start:i]))
			start = i + 1
		}
	}
	if start <= len(b) {
		out = append(out, string(b[start:]))
	}
	return out
}

// readDataRecord parses one "D" record starting at offset. Field slicing
// uses only the record's own leader and directory, since S-57 data records
// are self-describing.
func readDataRecord(data []byte, offset int) (*Record, int, error) {
	leader, err := readLeader(data, offset)
	if err != nil {
		return nil, 0, err
	}
	if leader.LeaderID != 'D' {
		return nil, 0, fmt.Errorf("iso8211: record at offset %d is not a data record, got leader id %q", offset, leader.LeaderID)
	}
	if offset+leader.RecordLength > len(data) {
		return nil, 0, fmt.Errorf("iso8211: truncated record at offset %d: leader declares %d bytes, %d remain", offset, leader.RecordLength, len(data)-offset)
	}
	entries, err := readDirectory(data, leader, offset+leaderSize)
	if err != nil {
		return nil, 0, err
	}
	recData := data[offset : offset+leader.RecordLength]
	fields, order, err := sliceFields(recData, leader, entries)
	if err != nil {
		return nil, 0, err
	}
	return &Record{Leader: leader, Fields: fields, Order: order}, leader.RecordLength, nil
}
