package testutils

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Sheet is one worksheet of a workbook built by BuildWorkbook.
type Sheet struct {
	Name   string
	Markup string
}

// WorksheetXML wraps sheetData content (rows) and optional trailing elements
// (such as mergeCells) into a complete worksheet document.
func WorksheetXML(rows string, trailing ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
		`<sheetData>` + rows + `</sheetData>` + strings.Join(trailing, "") + `</worksheet>`
}

// fixedTime keeps generated packages byte-stable across runs.
var fixedTime = time.Date(2024, 1, 2, 3, 4, 6, 0, time.UTC)

// BuildWorkbook assembles a minimal spreadsheet package in memory.
// Worksheets are stored as xl/worksheets/sheetN.xml in the given order.
// docProps/app.xml is stored uncompressed so callers can check raw copies of
// entries that use a different method.
func BuildWorkbook(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()
	if len(sheets) == 0 {
		sheets = []Sheet{{Name: "Sheet1", Markup: WorksheetXML(`<row r="1"><c r="A1" s="1"/></row>`)}}
	}

	var (
		overrides strings.Builder
		entries   strings.Builder
		rels      strings.Builder
	)
	for i, s := range sheets {
		n := i + 1
		fmt.Fprintf(&overrides, `<Override PartName="/xl/worksheets/sheet%d.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/>`, n)
		fmt.Fprintf(&entries, `<sheet name="%s" sheetId="%d" r:id="rId%d"/>`, s.Name, n, n)
		fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet%d.xml"/>`, n, n)
	}
	stylesID := len(sheets) + 1
	fmt.Fprintf(&rels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`, stylesID)

	parts := []struct {
		name    string
		content string
		method  uint16
	}{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` +
			`<Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/>` +
			`<Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/>` +
			`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>` +
			overrides.String() + `</Types>`, zip.Deflate},
		{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/>` +
			`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>` +
			`</Relationships>`, zip.Deflate},
		{"docProps/app.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>protocolfill-test</Application></Properties>`, zip.Store},
		{"xl/workbook.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" ` +
			`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` +
			`<sheets>` + entries.String() + `</sheets></workbook>`, zip.Deflate},
		{"xl/_rels/workbook.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			rels.String() + `</Relationships>`, zip.Deflate},
		{"xl/styles.xml", minimalStyles, zip.Deflate},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string, method uint16) {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method, Modified: fixedTime})
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	for _, p := range parts {
		write(p.name, p.content, p.method)
	}
	for i, s := range sheets {
		write(fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1), s.Markup, zip.Deflate)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// ReadEntry returns one entry of a package, failing the test when it is missing.
func ReadEntry(t testing.TB, pkg []byte, name string) string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(pkg), int64(len(pkg)))
	require.NoError(t, err)
	for _, f := range r.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		var b bytes.Buffer
		_, err = b.ReadFrom(rc)
		require.NoError(t, err)
		return b.String()
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

const minimalStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">` +
	`<fonts count="1"><font><sz val="11"/><name val="Calibri"/></font></fonts>` +
	`<fills count="1"><fill><patternFill patternType="none"/></fill></fills>` +
	`<borders count="1"><border/></borders>` +
	`<cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs>` +
	`<cellXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/></cellXfs>` +
	`</styleSheet>`
