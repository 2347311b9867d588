// Package iso8211 implements the ISO/IEC 8211 record structure that
// underlies S-57 exchange sets: a leader, a directory of field tags, and
// the field data area they describe.
//
// It owns exactly the framing layer — leader and directory parsing, field
// slicing, subfield splitting and binary type coercion. It has no opinion
// about what DSID, FRID, or ATTF mean; that belongs to the chart semantics
// built on top of it.
package iso8211

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

const (
	// FieldTerminator separates fields within the field area and entries
	// from the end of the directory.
	FieldTerminator = 0x1E
	// UnitTerminator separates subfields within a field's data.
	UnitTerminator = 0x1F

	leaderSize = 24
)

// Leader is the fixed 24-byte record leader that precedes every record
// (both the DDR "lead" record and each data record) in an ISO 8211 file.
type Leader struct {
	RecordLength        int
	InterchangeLevel    byte
	LeaderID            byte // 'L' for a lead (DDR) record, 'D' for a data record
	InlineCode          byte
	Version             byte
	ApplicationInd      byte
	FieldControlLength  int
	BaseAddress         int
	ExtendedCharSet     [3]byte
	SizeOfFieldLength   int
	SizeOfFieldPosition int
	SizeOfFieldTag      int
}

// DirEntry is one directory entry: a field's tag, its length in the field
// area, and its byte offset relative to the base address.
type DirEntry struct {
	Tag      string
	Length   int
	Position int
}

func atoiField(b []byte, name string) (int, error) {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, errors.Wrapf(err, "iso8211: malformed %s field %q", name, string(b))
	}
	return n, nil
}

// readLeader parses the 24-byte leader starting at offset in data.
func readLeader(data []byte, offset int) (Leader, error) {
	if offset+leaderSize > len(data) {
		return Leader{}, fmt.Errorf("iso8211: truncated leader at offset %d (have %d bytes)", offset, len(data)-offset)
	}
	b := data[offset : offset+leaderSize]

	var l Leader
	recLen, err := atoiField(b[0:5], "record length")
	if err != nil {
		return Leader{}, err
	}
	l.RecordLength = recLen
	l.InterchangeLevel = b[5]
	l.LeaderID = b[6]
	l.InlineCode = b[7]
	l.Version = b[8]
	l.ApplicationInd = b[9]

	fcl, err := atoiField(b[10:12], "field control length")
	if err != nil {
		return Leader{}, err
	}
	l.FieldControlLength = fcl

	baseAddr, err := atoiField(b[12:17], "base address")
	if err != nil {
		return Leader{}, err
	}
	l.BaseAddress = baseAddr
	copy(l.ExtendedCharSet[:], b[17:20])

	l.SizeOfFieldLength = int(b[20] - '0')
	l.SizeOfFieldPosition = int(b[21] - '0')
	// b[22] is reserved
	l.SizeOfFieldTag = int(b[23] - '0')

	if l.SizeOfFieldLength <= 0 || l.SizeOfFieldPosition <= 0 || l.SizeOfFieldTag <= 0 {
		return Leader{}, fmt.Errorf("iso8211: invalid entry map sizes in leader at offset %d", offset)
	}
	if l.BaseAddress <= leaderSize {
		return Leader{}, fmt.Errorf("iso8211: BAD_BASE_ADDR: base address %d does not leave room for a directory after leader at %d", l.BaseAddress, offset)
	}
	if l.RecordLength <= 0 {
		return Leader{}, fmt.Errorf("iso8211: LEADER_LEN_MISMATCH: non-positive record length %d", l.RecordLength)
	}
	return l, nil
}

// readDirectory parses directory entries from immediately after the leader
// up to the field terminator that precedes BaseAddress.
func readDirectory(data []byte, leader Leader, dirStart int) ([]DirEntry, error) {
	entrySize := leader.SizeOfFieldTag + leader.SizeOfFieldLength + leader.SizeOfFieldPosition
	if entrySize <= 0 {
		return nil, fmt.Errorf("iso8211: zero-length directory entry size")
	}

	dirEnd := dirStart - leaderSize + leader.BaseAddress - 1 // position of the field terminator
	if dirEnd < dirStart || dirEnd > len(data) {
		return nil, fmt.Errorf("iso8211: LEADER_LEN_MISMATCH: directory end %d out of range [%d,%d)", dirEnd, dirStart, len(data))
	}

	var entries []DirEntry
	pos := dirStart
	for pos+entrySize <= dirEnd {
		tag := string(data[pos : pos+leader.SizeOfFieldTag])
		pos += leader.SizeOfFieldTag

		lengthStr := data[pos : pos+leader.SizeOfFieldLength]
		pos += leader.SizeOfFieldLength
		length, err := atoiField(lengthStr, "directory field length")
		if err != nil {
			return nil, err
		}

		positionStr := data[pos : pos+leader.SizeOfFieldPosition]
		pos += leader.SizeOfFieldPosition
		position, err := atoiField(positionStr, "directory field position")
		if err != nil {
			return nil, err
		}

		entries = append(entries, DirEntry{Tag: tag, Length: length, Position: position})
	}
	return entries, nil
}
