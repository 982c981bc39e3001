// Package sheetxml writes cell values directly into worksheet markup.
//
// The writer never parses and re-serializes the worksheet. Each write is a
// text substitution located by regular expressions, tried in a fixed order:
//
//  1. the cell exists with content: its payload is replaced
//  2. the cell exists self-closing with a style: it is re-opened keeping the style
//  3. the cell exists self-closing without a style: an inferred style is added
//  4. the cell is absent but its row exists: a new cell is inserted in column order
//  5. the row is absent: the write is skipped
//
// Values are sanitized and escaped exactly once, here.
package sheetxml

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
)

var (
	styleAttrRe = regexp.MustCompile(`\ss="([^"]*)"`)
	typeAttrRe  = regexp.MustCompile(`\st="[^"]*"`)
	rowCellRe   = regexp.MustCompile(`<c\s(?:[^>]*?\s)?r="([A-Z]+)[0-9]+"`)
)

func cellOpenRe(ref string) *regexp.Regexp {
	return regexp.MustCompile(`<c\s(?:[^>]*?\s)?r="` + regexp.QuoteMeta(ref) + `"[^>]*>`)
}

func rowOpenRe(row uint32) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`<row\s(?:[^>]*?\s)?r="%d"[^>]*>`, row))
}

// Writer applies cell writes to worksheet markup. It is safe for concurrent use.
type Writer struct {
	logger        *slog.Logger
	styles        StyleTable
	mergeRedirect bool
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger for per-cell outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithStyleTable sets the row-band style inference table used by cases 3 and 4.
func WithStyleTable(t StyleTable) Option {
	return func(w *Writer) {
		w.styles = t
	}
}

// WithMergeRedirect controls whether writes aimed at a covered cell of a
// merged range go to the range's top-left cell instead. Enabled by default.
func WithMergeRedirect(enabled bool) Option {
	return func(w *Writer) {
		w.mergeRedirect = enabled
	}
}

// New creates a Writer.
func New(opts ...Option) *Writer {
	w := &Writer{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		mergeRedirect: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Apply performs writes on markup in order. A failing write never aborts
// the batch; every write gets an outcome in the report.
func (w *Writer) Apply(markup string, writes []domain.CellWrite) (string, domain.WriteReport) {
	var report domain.WriteReport
	if len(writes) == 0 {
		return markup, report
	}
	if w.styles.IsZero() {
		w.logger.Warn("no default style policy configured, inferred cells are written without a style")
	}

	var merges []mergedRange
	if w.mergeRedirect {
		merges = mergedRanges(markup)
	}

	for _, cw := range writes {
		var outcome domain.CellOutcome
		markup, outcome = w.applyOne(markup, cw, merges)
		report.Add(outcome)

		attrs := []any{"cell", outcome.CellReference, "case", string(outcome.Case)}
		if outcome.RedirectedFrom != "" {
			attrs = append(attrs, "redirected_from", outcome.RedirectedFrom)
		}
		if outcome.Status == domain.StatusSkipped {
			w.logger.Warn("cell write skipped", append(attrs, "reason", outcome.Reason)...)
		} else {
			w.logger.Debug("cell written", attrs...)
		}
	}
	return markup, report
}

func (w *Writer) applyOne(markup string, cw domain.CellWrite, merges []mergedRange) (string, domain.CellOutcome) {
	out := domain.CellOutcome{CellReference: cw.CellReference, Status: domain.StatusSkipped, Case: domain.CaseInvalid}

	ref, err := ParseRef(cw.CellReference)
	if err != nil {
		out.Reason = err.Error()
		return markup, out
	}
	if anchor, ok := anchorOf(merges, ref); ok {
		out.RedirectedFrom = ref.String()
		ref = anchor
	}
	out.CellReference = ref.String()

	value, err := SanitizeValue(cw.Value)
	if err != nil {
		out.Reason = err.Error()
		return markup, out
	}
	payload := inlinePayload(value)

	if loc := cellOpenRe(out.CellReference).FindStringIndex(markup); loc != nil {
		return w.rewriteCell(markup, loc, ref, payload, out)
	}
	return w.insertCell(markup, ref, payload, out)
}

// rewriteCell handles cases 1 to 3: the cell's opening tag is at markup[loc[0]:loc[1]].
func (w *Writer) rewriteCell(markup string, loc []int, ref Ref, payload string, out domain.CellOutcome) (string, domain.CellOutcome) {
	tag := markup[loc[0]:loc[1]]
	end := loc[1]

	var attrs string
	if strings.HasSuffix(tag, "/>") {
		attrs = strings.TrimRight(tag[:len(tag)-2], " \t\r\n")
		if styleAttrRe.MatchString(attrs) {
			out.Case = domain.CaseStyledEmpty
		} else {
			out.Case = domain.CaseUnstyledEmpty
			if style, ok := w.styles.StyleFor(ref.Row); ok {
				attrs += ` s="` + style + `"`
			} else {
				w.logger.Debug("no style inferred for row", "cell", ref.String(), "row", ref.Row)
			}
		}
	} else {
		closeIdx := strings.Index(markup[loc[1]:], "</c>")
		if closeIdx < 0 {
			out.Reason = "cell element is not closed"
			return markup, out
		}
		end = loc[1] + closeIdx + len("</c>")
		attrs = tag[:len(tag)-1]
		out.Case = domain.CaseInlineContent
	}

	if typeAttrRe.MatchString(attrs) {
		attrs = typeAttrRe.ReplaceAllLiteralString(attrs, ` t="inlineStr"`)
	} else {
		attrs += ` t="inlineStr"`
	}

	out.Status = domain.StatusWritten
	return markup[:loc[0]] + attrs + ">" + payload + "</c>" + markup[end:], out
}

// insertCell handles cases 4 and 5.
func (w *Writer) insertCell(markup string, ref Ref, payload string, out domain.CellOutcome) (string, domain.CellOutcome) {
	loc := rowOpenRe(ref.Row).FindStringIndex(markup)
	if loc == nil {
		out.Case = domain.CaseRowMissing
		out.Reason = fmt.Sprintf("row %d not found", ref.Row)
		return markup, out
	}

	cell := `<c r="` + ref.String() + `"`
	if style, ok := w.styles.StyleFor(ref.Row); ok {
		cell += ` s="` + style + `"`
	}
	cell += ` t="inlineStr">` + payload + "</c>"

	out.Case = domain.CaseInsertedIntoRow
	out.Status = domain.StatusWritten

	tag := markup[loc[0]:loc[1]]
	if strings.HasSuffix(tag, "/>") {
		open := strings.TrimRight(tag[:len(tag)-2], " \t\r\n") + ">"
		return markup[:loc[0]] + open + cell + "</row>" + markup[loc[1]:], out
	}

	closeIdx := strings.Index(markup[loc[1]:], "</row>")
	if closeIdx < 0 {
		out.Status = domain.StatusSkipped
		out.Case = domain.CaseInvalid
		out.Reason = fmt.Sprintf("row %d is not closed", ref.Row)
		return markup, out
	}
	body := markup[loc[1] : loc[1]+closeIdx]

	at := len(body)
	for _, m := range rowCellRe.FindAllStringSubmatchIndex(body, -1) {
		if ColumnIndex(body[m[2]:m[3]]) > ref.ColumnIdx {
			at = m[0]
			break
		}
	}
	pos := loc[1] + at
	return markup[:pos] + cell + markup[pos:], out
}

// inlinePayload returns the inline string element for an already sanitized value.
func inlinePayload(value string) string {
	if value != strings.TrimSpace(value) {
		return `<is><t xml:space="preserve">` + Escape(value) + `</t></is>`
	}
	return "<is><t>" + Escape(value) + "</t></is>"
}

var defaultWriter = New()

// ApplyCellWrites applies writes with the default writer and returns the new markup.
func ApplyCellWrites(markup string, writes []domain.CellWrite) string {
	out, _ := defaultWriter.Apply(markup, writes)
	return out
}
