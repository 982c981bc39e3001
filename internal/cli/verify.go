package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/protocolfill/internal/presentation/tui"
	"github.com/aretw0/protocolfill/pkg/sheetxml"
	"github.com/unidoc/unioffice/spreadsheet"
)

// VerifyOptions selects the document, the sheet and the cells to read back.
type VerifyOptions struct {
	Document string
	Sheet    string
	Cells    []string
	// Expect holds ref=value pairs that must match.
	Expect []string
}

// ReadCells opens a document with a full spreadsheet reader and returns the
// formatted value of every non-empty cell of the sheet (the first sheet when
// name is empty).
func ReadCells(path, name string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	wb, err := spreadsheet.Read(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("document is not a readable spreadsheet: %w", err)
	}

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("document has no sheets")
	}
	sheet := sheets[0]
	if name != "" {
		found := false
		for _, s := range sheets {
			if strings.EqualFold(s.Name(), name) {
				sheet, found = s, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("sheet %q not found", name)
		}
	}

	cells := make(map[string]string)
	for _, row := range sheet.Rows() {
		for _, cell := range row.Cells() {
			col, err := cell.Column()
			if err != nil {
				continue
			}
			if v := cell.GetFormattedValue(); v != "" {
				cells[fmt.Sprintf("%s%d", col, row.RowNumber())] = v
			}
		}
	}
	return cells, nil
}

// RunVerify prints cell values of a generated document and checks expectations.
func RunVerify(env *Env, opts VerifyOptions) error {
	cells, err := ReadCells(opts.Document, opts.Sheet)
	if err != nil {
		return err
	}

	refs := make([]string, 0, len(opts.Cells))
	for _, c := range opts.Cells {
		ref, err := sheetxml.NormalizeRef(c)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		for ref := range cells {
			refs = append(refs, ref)
		}
		sortRefs(refs)
	}
	for _, ref := range refs {
		fmt.Fprintf(env.Stdout, "%-6s %s\n", ref, cells[ref])
	}

	var mismatches int
	for _, e := range opts.Expect {
		ref, want, ok := strings.Cut(e, "=")
		if !ok {
			return fmt.Errorf("invalid expectation %q: want REF=value", e)
		}
		norm, err := sheetxml.NormalizeRef(ref)
		if err != nil {
			return err
		}
		if got := cells[norm]; got != want {
			mismatches++
			fmt.Fprintf(env.Stdout, "%s: want %q, got %q\n", norm, want, got)
		}
	}
	if mismatches > 0 {
		tui.Status(env.Stdout, false, fmt.Sprintf("%d of %d expectations failed", mismatches, len(opts.Expect)))
		return fmt.Errorf("verification failed")
	}
	if len(opts.Expect) > 0 {
		tui.Status(env.Stdout, true, fmt.Sprintf("%d expectations met", len(opts.Expect)))
	}
	return nil
}

// sortRefs orders references by row, then column.
func sortRefs(refs []string) {
	sort.Slice(refs, func(i, j int) bool {
		a, errA := sheetxml.ParseRef(refs[i])
		b, errB := sheetxml.ParseRef(refs[j])
		if errA != nil || errB != nil {
			return refs[i] < refs[j]
		}
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.ColumnIdx < b.ColumnIdx
	})
}
