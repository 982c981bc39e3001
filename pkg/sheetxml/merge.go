package sheetxml

import (
	"regexp"

	"github.com/unidoc/unioffice/spreadsheet/reference"
)

var mergeCellRe = regexp.MustCompile(`<mergeCell\s(?:[^>]*?\s)?ref="([^"]+)"`)

type mergedRange struct {
	fromCol, toCol uint32
	fromRow, toRow uint32
	anchor         Ref
}

func (m mergedRange) contains(r Ref) bool {
	return r.ColumnIdx >= m.fromCol && r.ColumnIdx <= m.toCol && r.Row >= m.fromRow && r.Row <= m.toRow
}

// mergedRanges lists the merged cell ranges declared in the worksheet.
func mergedRanges(markup string) []mergedRange {
	var out []mergedRange
	for _, m := range mergeCellRe.FindAllStringSubmatch(markup, -1) {
		from, to, err := reference.ParseRangeReference(m[1])
		if err != nil {
			continue
		}
		out = append(out, mergedRange{
			fromCol: from.ColumnIdx, toCol: to.ColumnIdx,
			fromRow: from.RowIdx, toRow: to.RowIdx,
			anchor: Ref{Column: from.Column, ColumnIdx: from.ColumnIdx, Row: from.RowIdx},
		})
	}
	return out
}

// anchorOf returns the top-left cell of the merged range containing r, if r
// is a covered (non-anchor) cell of such a range.
func anchorOf(ranges []mergedRange, r Ref) (Ref, bool) {
	for _, m := range ranges {
		if m.contains(r) && (m.anchor.ColumnIdx != r.ColumnIdx || m.anchor.Row != r.Row) {
			return m.anchor, true
		}
	}
	return Ref{}, false
}
