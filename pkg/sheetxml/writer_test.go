package sheetxml_test

import (
	"encoding/xml"
	"regexp"
	"strings"
	"testing"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/sheetxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sheet = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>` +
	`<row r="3" spans="1:5"><c r="A3" s="2" t="s"><v>0</v></c><c r="C3" s="4"><v>12</v></c></row>` +
	`<row r="5"><c r="B5" s="7"/><c r="D5" s="12"/><c r="F5"/></row>` +
	`<row r="26"><c r="A26" s="3"/></row>` +
	`<row r="30"/>` +
	`</sheetData><mergeCells count="1"><mergeCell ref="H3:J4"/></mergeCells></worksheet>`

func cw(ref, value string) domain.CellWrite {
	return domain.CellWrite{CellReference: ref, Value: value}
}

func apply(t *testing.T, w *sheetxml.Writer, writes ...domain.CellWrite) (string, domain.WriteReport) {
	t.Helper()
	return w.Apply(sheet, writes)
}

func TestApply_StyledSelfClosing(t *testing.T) {
	out, report := apply(t, sheetxml.New(), cw("D5", "7"))
	assert.Contains(t, out, `<c r="D5" s="12" t="inlineStr"><is><t>7</t></is></c>`)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, domain.CaseStyledEmpty, report.Outcomes[0].Case)
	assert.Equal(t, 1, report.ModifiedCount)
}

func TestApply_ExistingContent(t *testing.T) {
	out, report := apply(t, sheetxml.New(), cw("A3", "Inspector"), cw("C3", "42"))
	assert.Contains(t, out, `<c r="A3" s="2" t="inlineStr"><is><t>Inspector</t></is></c>`)
	assert.Contains(t, out, `<c r="C3" s="4" t="inlineStr"><is><t>42</t></is></c>`)
	assert.NotContains(t, out, "<v>0</v>")
	for _, o := range report.Outcomes {
		assert.Equal(t, domain.CaseInlineContent, o.Case)
	}
}

func TestApply_UnstyledSelfClosing(t *testing.T) {
	styles := sheetxml.StyleTable{Default: "5"}
	out, report := apply(t, sheetxml.New(sheetxml.WithStyleTable(styles)), cw("F5", "v"))
	assert.Contains(t, out, `<c r="F5" s="5" t="inlineStr"><is><t>v</t></is></c>`)
	assert.Equal(t, domain.CaseUnstyledEmpty, report.Outcomes[0].Case)

	out, _ = apply(t, sheetxml.New(), cw("F5", "v"))
	assert.Contains(t, out, `<c r="F5" t="inlineStr"><is><t>v</t></is></c>`)
}

func TestApply_InsertKeepsColumnOrder(t *testing.T) {
	out, report := apply(t, sheetxml.New(), cw("C5", "mid"), cw("Z5", "last"), cw("A5", "first"))
	assert.Contains(t, out, `<row r="5"><c r="A5" t="inlineStr"><is><t>first</t></is></c><c r="B5" s="7"/>`+
		`<c r="C5" t="inlineStr"><is><t>mid</t></is></c><c r="D5" s="12"/><c r="F5"/>`+
		`<c r="Z5" t="inlineStr"><is><t>last</t></is></c></row>`)
	for _, o := range report.Outcomes {
		assert.Equal(t, domain.CaseInsertedIntoRow, o.Case)
	}
}

func TestApply_InsertUsesRowBand(t *testing.T) {
	styles := sheetxml.StyleTable{
		Bands:   []domain.StyleBand{{FromRow: 25, ToRow: 34, Style: "61"}, {FromRow: 68, ToRow: 77, Style: "95"}},
		Default: "5",
	}
	w := sheetxml.New(sheetxml.WithStyleTable(styles))
	out, _ := apply(t, w, cw("B26", "a"), cw("C3", "b"), cw("B30", "c"))
	assert.Contains(t, out, `<c r="B26" s="61" t="inlineStr"><is><t>a</t></is></c></row>`)
	assert.Contains(t, out, `<row r="30"><c r="B30" s="61" t="inlineStr"><is><t>c</t></is></c></row>`)
	// existing styles are never replaced by inferred ones
	assert.Contains(t, out, `<c r="C3" s="4" t="inlineStr">`)
}

func TestApply_RowMissing(t *testing.T) {
	out, report := apply(t, sheetxml.New(), cw("A99", "x"), cw("D5", "ok"))
	assert.Equal(t, 1, report.ModifiedCount)
	assert.Equal(t, 1, report.SkippedCount)
	skipped := report.Skipped()
	require.Len(t, skipped, 1)
	assert.Equal(t, domain.CaseRowMissing, skipped[0].Case)
	assert.NotContains(t, out, `r="99"`)
	assert.Contains(t, out, `<c r="D5" s="12" t="inlineStr">`)
}

func TestApply_InvalidReference(t *testing.T) {
	out, report := apply(t, sheetxml.New(), cw("A1,B1", "yes"))
	assert.Equal(t, sheet, out)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Equal(t, domain.CaseInvalid, report.Outcomes[0].Case)
}

func TestApply_MergeRedirect(t *testing.T) {
	out, report := apply(t, sheetxml.New(), cw("I4", "merged"))
	assert.Contains(t, out, `<c r="H3" t="inlineStr"><is><t>merged</t></is></c>`)
	assert.Equal(t, "H3", report.Outcomes[0].CellReference)
	assert.Equal(t, "I4", report.Outcomes[0].RedirectedFrom)

	out, _ = apply(t, sheetxml.New(sheetxml.WithMergeRedirect(false)), cw("I3", "merged"))
	assert.Contains(t, out, `<c r="I3" t="inlineStr">`)
}

func TestApply_Idempotent(t *testing.T) {
	writes := []domain.CellWrite{
		cw("A3", "a"), cw("D5", "b"), cw("F5", "c"), cw("E5", "d"), cw("B30", "e"), cw("Q99", "f"), cw("J4", "g"),
	}
	w := sheetxml.New(sheetxml.WithStyleTable(sheetxml.StyleTable{Default: "1"}))
	once, _ := w.Apply(sheet, writes)
	twice, _ := w.Apply(once, writes)
	assert.Equal(t, once, twice)
}

func TestApply_StylePreserved(t *testing.T) {
	styleOf := func(markup, ref string) string {
		m := regexp.MustCompile(`<c r="` + ref + `" s="([^"]*)"`).FindStringSubmatch(markup)
		require.NotNil(t, m, ref)
		return m[1]
	}
	out, _ := apply(t, sheetxml.New(sheetxml.WithStyleTable(sheetxml.StyleTable{Default: "99"})),
		cw("A3", "1"), cw("C3", "2"), cw("B5", "3"), cw("D5", "4"), cw("A26", "5"))
	for ref, style := range map[string]string{"A3": "2", "C3": "4", "B5": "7", "D5": "12", "A26": "3"} {
		assert.Equal(t, style, styleOf(out, ref), ref)
	}
}

func TestApply_EscapingRoundTrip(t *testing.T) {
	values := []string{
		`Tom & Jerry`,
		`<script>alert("x")</script>`,
		`it's "quoted"`,
		`&amp; already escaped`,
		`a > b < c`,
	}
	for _, v := range values {
		out, report := apply(t, sheetxml.New(), cw("D5", v))
		require.Equal(t, 1, report.ModifiedCount, v)
		assert.Equal(t, v, readInline(t, out, "D5"), v)
	}
}

func TestApply_SanitizesAndPreservesSpace(t *testing.T) {
	out, _ := apply(t, sheetxml.New(), cw("D5", "bad\x01\x1bvalue"), cw("B5", "  padded "))
	assert.Equal(t, "badvalue", readInline(t, out, "D5"))
	assert.Contains(t, out, `<t xml:space="preserve">  padded </t>`)
	assert.Equal(t, "  padded ", readInline(t, out, "B5"))
}

func TestApply_OversizedValueSkipped(t *testing.T) {
	t.Setenv(sheetxml.EnvMaxCellLength, "4")
	out, report := apply(t, sheetxml.New(), cw("D5", "12345"))
	assert.Equal(t, sheet, out)
	assert.Equal(t, 1, report.SkippedCount)
	assert.Contains(t, report.Outcomes[0].Reason, "maximum length")
}

func TestApplyCellWrites(t *testing.T) {
	out := sheetxml.ApplyCellWrites(`<sheetData><row r="1"><c r="A1" s="3"/></row></sheetData>`, []domain.CellWrite{cw("a1", "v")})
	assert.Equal(t, `<sheetData><row r="1"><c r="A1" s="3" t="inlineStr"><is><t>v</t></is></c></row></sheetData>`, out)
}

// readInline decodes the inline string of a cell with encoding/xml.
func readInline(t *testing.T, markup, ref string) string {
	t.Helper()
	var ws struct {
		Rows []struct {
			Cells []struct {
				R  string `xml:"r,attr"`
				IS struct {
					T string `xml:"t"`
				} `xml:"is"`
			} `xml:"c"`
		} `xml:"sheetData>row"`
	}
	require.NoError(t, xml.NewDecoder(strings.NewReader(markup)).Decode(&ws))
	for _, row := range ws.Rows {
		for _, c := range row.Cells {
			if c.R == ref {
				return c.IS.T
			}
		}
	}
	t.Fatalf("cell %s not found", ref)
	return ""
}
