package s57

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
)

// MappedFile is a memory-mapped chart file. Close unmaps and closes the
// underlying descriptor; callers must not use Data after Close.
//
// Reference: saferwall-pe's File, which opens and mmap.Map's a PE binary
// instead of reading it into a heap buffer.
type MappedFile struct {
	Data mmap.MMap
	f    *os.File
}

// Close unmaps the file and closes its descriptor.
func (m *MappedFile) Close() error {
	if m.Data != nil {
		if err := m.Data.Unmap(); err != nil {
			return err
		}
	}
	if m.f != nil {
		return m.f.Close()
	}
	return nil
}

// LoadCell memory-maps a base cell or update file for read-only access.
// The caller must Close the returned MappedFile when done with it.
func LoadCell(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newInputError("s57: opening %s: %v", path, err)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, newInputError("s57: mapping %s: %v", path, err)
	}

	return &MappedFile{Data: data, f: f}, nil
}

// LoadUpdates finds and memory-maps the update files that follow a base
// cell on disk. S-57 exchange sets name a base cell "NAME.000" and its
// updates "NAME.001", "NAME.002", ...; this discovers every update whose
// extension is a three-digit number greater than 000 and returns them in
// ascending order, along with the path each one came from.
//
// The caller must Close every returned MappedFile when done with them.
func LoadUpdates(baseCellPath string) ([]*MappedFile, []string, error) {
	dir := filepath.Dir(baseCellPath)
	base := strings.TrimSuffix(filepath.Base(baseCellPath), filepath.Ext(baseCellPath))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, newInputError("s57: reading directory %s: %v", dir, err)
	}

	type candidate struct {
		seq  int
		path string
	}
	var candidates []candidate

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		if stem != base || len(ext) != 4 {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(ext, "."))
		if err != nil || seq <= 0 {
			continue
		}
		candidates = append(candidates, candidate{seq: seq, path: filepath.Join(dir, name)})
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].seq < candidates[j].seq })

	files := make([]*MappedFile, 0, len(candidates))
	paths := make([]string, 0, len(candidates))
	for _, c := range candidates {
		mf, err := LoadCell(c.path)
		if err != nil {
			for _, opened := range files {
				opened.Close()
			}
			return nil, nil, err
		}
		files = append(files, mf)
		paths = append(paths, c.path)
	}

	return files, paths, nil
}

// ParseFile loads a base cell from disk, discovers and loads its update
// files, parses the whole sequence, and unmaps everything before
// returning — a convenience wrapper around LoadCell/LoadUpdates/Parse
// for callers that don't need the mapped files to outlive the parse.
func ParseFile(baseCellPath string, opts ParseOptions) (*ParsedDataset, error) {
	base, err := LoadCell(baseCellPath)
	if err != nil {
		return nil, err
	}
	defer base.Close()

	updates, _, err := LoadUpdates(baseCellPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, u := range updates {
			u.Close()
		}
	}()

	updateDatas := make([][]byte, len(updates))
	for i, u := range updates {
		updateDatas[i] = u.Data
	}

	dataset, err := Parse(base.Data, updateDatas, opts)
	if err != nil {
		return nil, newParseError(err, fmt.Sprintf("s57: parsing %s", baseCellPath))
	}
	return dataset, nil
}
