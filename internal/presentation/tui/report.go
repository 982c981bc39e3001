package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/muesli/termenv"
)

// Summary is what the CLI shows after a generation or a preview.
type Summary struct {
	Title         string
	Output        string
	WorksheetPath string
	Report        *domain.WriteReport
	Calculations  map[string]domain.CalculationResult
	Errors        []domain.ProtocolError
	Warnings      []string
}

// Markdown formats s as a markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	if s.Output != "" {
		fmt.Fprintf(&b, "- Output: `%s`\n", s.Output)
	}
	if s.WorksheetPath != "" {
		fmt.Fprintf(&b, "- Worksheet: `%s`\n", s.WorksheetPath)
	}
	if s.Report != nil {
		fmt.Fprintf(&b, "- Cells written: %d, skipped: %d\n", s.Report.ModifiedCount, s.Report.SkippedCount)
	}
	b.WriteString("\n")

	if s.Report != nil && s.Report.SkippedCount > 0 {
		b.WriteString("## Skipped cells\n\n| Cell | Case | Reason |\n|---|---|---|\n")
		for _, o := range s.Report.Skipped() {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", o.CellReference, o.Case, cellText(o.Reason))
		}
		b.WriteString("\n")
	}

	if len(s.Calculations) > 0 {
		b.WriteString("## Calculations\n\n| Question | Value | Valid | Within limits | Reason |\n|---|---|---|---|---|\n")
		ids := make([]string, 0, len(s.Calculations))
		for id := range s.Calculations {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			r := s.Calculations[id]
			value := "-"
			if v, ok := r.Number(); ok {
				value = domain.FormatNumber(v)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", id, value, yesNo(r.IsValid), yesNo(r.IsWithinLimits), cellText(r.ErrorReason))
		}
		b.WriteString("\n")
	}

	if len(s.Errors) > 0 {
		b.WriteString("## Protocol errors\n\n")
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", e.Title, e.Severity, e.Description)
		}
		b.WriteString("\n")
	}

	if len(s.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range s.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// cellText keeps table cells on one row.
func cellText(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Status prints a one-line colored verdict.
func Status(w io.Writer, ok bool, msg string) {
	p := termenv.NewOutput(w).Profile
	mark, color := "✔", "#4ade80"
	if !ok {
		mark, color = "✘", "#f87171"
	}
	fmt.Fprintln(w, termenv.String(mark+" "+msg).Foreground(p.Color(color)))
}
