package s57

import "github.com/chartworks/s57/internal/parser"

// UpdateSummary reports what a sequence of update files did to a cell:
// how many files applied, how many inserts/deletes/modifies, and the
// UPDN the cell ended on.
type UpdateSummary parser.UpdateSummary

// ApplyUpdates decodes updateDatas, in order, against baseData and
// returns the resulting dataset. It is equivalent to calling Parse with
// updateDatas directly; it exists so callers that already hold a parsed
// base cell's bytes and a separate slice of update files' bytes don't
// need to re-assemble the combined call themselves.
func ApplyUpdates(baseData []byte, updateDatas [][]byte, opts ParseOptions) (*ParsedDataset, error) {
	return Parse(baseData, updateDatas, opts)
}
