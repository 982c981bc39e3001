package sheetxml

import (
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// Ref is a parsed A1-style cell reference.
type Ref struct {
	Column    string
	ColumnIdx uint32 // zero based
	Row       uint32 // one based
}

// String returns the canonical form ("D5").
func (r Ref) String() string {
	return fmt.Sprintf("%s%d", r.Column, r.Row)
}

// ParseRef parses a single cell reference. Dollar signs and case are
// normalized away; sheet-qualified and range references are rejected.
func ParseRef(s string) (Ref, error) {
	raw := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), "$", ""))
	if raw == "" {
		return Ref{}, fmt.Errorf("empty cell reference")
	}
	if strings.ContainsAny(raw, "!:") {
		return Ref{}, fmt.Errorf("cell reference %q must name a single cell", s)
	}
	if !isA1(raw) {
		return Ref{}, fmt.Errorf("invalid cell reference %q", s)
	}
	ref, err := reference.ParseCellReference(raw)
	if err != nil {
		return Ref{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	if ref.RowIdx == 0 || ref.Column == "" {
		return Ref{}, fmt.Errorf("invalid cell reference %q", s)
	}
	return Ref{Column: ref.Column, ColumnIdx: ref.ColumnIdx, Row: ref.RowIdx}, nil
}

// NormalizeRef returns the canonical form of s.
func NormalizeRef(s string) (string, error) {
	r, err := ParseRef(s)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// ColumnIndex returns the zero based index of a column name ("A" -> 0).
func ColumnIndex(col string) uint32 {
	return reference.ColumnToIndex(strings.ToUpper(col))
}

// isA1 reports whether s is letters followed by digits, e.g. "AB12".
func isA1(s string) bool {
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i > 3 || i == len(s) {
		return false
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return false
		}
	}
	return true
}
