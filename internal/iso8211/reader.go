package iso8211

import (
	"io"

	"github.com/pkg/errors"
)

// Reader lazily iterates the data records of an ISO 8211 byte stream,
// having consumed the lead (DDR) record on construction.
type Reader struct {
	data []byte
	pos  int
	Lead *LeadRecord
}

// NewReader parses the lead record from data and positions the reader at
// the first data record.
func NewReader(data []byte) (*Reader, error) {
	lead, n, err := readLead(data)
	if err != nil {
		return nil, errors.Wrap(err, "iso8211: NewReader")
	}
	return &Reader{data: data, pos: n, Lead: lead}, nil
}

// Next returns the next data record, or io.EOF once the stream is
// exhausted. A truncated trailing record is reported as an error rather
// than silently dropped, so callers can distinguish a clean end of file
// from a corrupt tail.
func (r *Reader) Next() (*Record, error) {
	if r.pos >= len(r.data) {
		return nil, io.EOF
	}
	rec, n, err := readDataRecord(r.data, r.pos)
	if err != nil {
		return nil, errors.Wrapf(err, "iso8211: reading record at offset %d", r.pos)
	}
	r.pos += n
	return rec, nil
}

// File eagerly parses every data record, for callers (like the S-57 base
// cell loader) that need random access to the whole record set rather
// than a streaming pass.
type File struct {
	Lead    *LeadRecord
	Records []*Record
}

// ReadFile parses data into a Lead record plus every data record.
func ReadFile(data []byte) (*File, error) {
	r, err := NewReader(data)
	if err != nil {
		return nil, err
	}
	f := &File{Lead: r.Lead}
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		f.Records = append(f.Records, rec)
	}
	return f, nil
}
