package domain

// StyleBand assigns a cell style id to an inclusive range of rows.
type StyleBand struct {
	FromRow int    `json:"from_row" yaml:"from_row" mapstructure:"from_row"`
	ToRow   int    `json:"to_row" yaml:"to_row" mapstructure:"to_row"`
	Style   string `json:"style" yaml:"style" mapstructure:"style"`
}

// TemplateMetadata is the per-template configuration consumed by the engine.
type TemplateMetadata struct {
	ID       string `json:"id" yaml:"id"`
	Type     string `json:"type" yaml:"type"`
	Language string `json:"language" yaml:"language"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`

	// WorksheetPath is the package entry to fill, e.g. "xl/worksheets/sheet1.xml".
	// When empty, SheetName (or the first sheet) is resolved from the workbook.
	WorksheetPath string `json:"worksheet_path,omitempty" yaml:"worksheet_path,omitempty"`
	SheetName     string `json:"sheet_name,omitempty" yaml:"sheet_name,omitempty"`

	SignatureCell string      `json:"signature_cell,omitempty" yaml:"signature_cell,omitempty"`
	StyleBands    []StyleBand `json:"style_bands,omitempty" yaml:"style_bands,omitempty"`
	DefaultStyle  string      `json:"default_style,omitempty" yaml:"default_style,omitempty"`
}

// Template is an original document package plus its metadata.
// Bytes must be treated as read-only; callers that modify them take a copy.
type Template struct {
	Metadata TemplateMetadata `json:"metadata"`
	Bytes    []byte           `json:"bytes"`
}

// Clone returns a deep copy so each request owns its template bytes.
func (t *Template) Clone() *Template {
	if t == nil {
		return nil
	}
	c := *t
	c.Bytes = append([]byte(nil), t.Bytes...)
	c.Metadata.StyleBands = append([]StyleBand(nil), t.Metadata.StyleBands...)
	return &c
}
