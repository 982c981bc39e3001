package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_Markdown(t *testing.T) {
	v := 7.0
	var report domain.WriteReport
	report.Add(domain.CellOutcome{CellReference: "D5", Status: domain.StatusWritten, Case: domain.CaseStyledEmpty})
	report.Add(domain.CellOutcome{CellReference: "A99", Status: domain.StatusSkipped, Case: domain.CaseRowMissing, Reason: "row 99 not found"})

	md := Summary{
		Title:  "Generation report",
		Output: "out.xlsx",
		Report: &report,
		Calculations: map[string]domain.CalculationResult{
			"drop": {QuestionID: "drop", Value: &v, IsValid: true, IsWithinLimits: false, ErrorReason: "value 7 is above the maximum of 5"},
			"sum":  {QuestionID: "sum", IsValid: false, ErrorReason: "missing input"},
		},
		Errors:   []domain.ProtocolError{{Title: "drop out of range", Severity: domain.SeverityCritical, Description: "Value 7 exceeds 5."}},
		Warnings: []string{"valve: unrecognized answer"},
	}.Markdown()

	assert.Contains(t, md, "# Generation report")
	assert.Contains(t, md, "- Cells written: 1, skipped: 1")
	assert.Contains(t, md, "| A99 | row_missing | row 99 not found |")
	assert.Contains(t, md, "| drop | 7 | yes | no |")
	assert.Contains(t, md, "| sum | - | no | no | missing input |")
	assert.Contains(t, md, "- **drop out of range** (critical): Value 7 exceeds 5.")
	assert.Contains(t, md, "- valve: unrecognized answer")
	assert.Less(t, bytes.Index([]byte(md), []byte("| drop")), bytes.Index([]byte(md), []byte("| sum")))
}

func TestWriteMarkdown_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, "# Title\n"))
	assert.Equal(t, "# Title\n", buf.String())
	assert.False(t, IsTerminal(&buf))
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	Status(&buf, false, "2 cells skipped")
	assert.Contains(t, buf.String(), "2 cells skipped")
}
