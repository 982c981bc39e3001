package sheetxml

import "github.com/aretw0/protocolfill/pkg/domain"

// StyleTable infers a style id for cells that have none, by row band.
// Bands are checked in order; the first band containing the row wins.
type StyleTable struct {
	Bands   []domain.StyleBand
	Default string
}

// StyleTableFor builds the style table declared by template metadata.
func StyleTableFor(meta domain.TemplateMetadata) StyleTable {
	return StyleTable{Bands: meta.StyleBands, Default: meta.DefaultStyle}
}

// IsZero reports whether the table declares no style policy at all.
func (t StyleTable) IsZero() bool {
	return len(t.Bands) == 0 && t.Default == ""
}

// StyleFor returns the style id for a one based row number.
func (t StyleTable) StyleFor(row uint32) (string, bool) {
	for _, b := range t.Bands {
		if b.Style == "" {
			continue
		}
		if int(row) >= b.FromRow && int(row) <= b.ToRow {
			return b.Style, true
		}
	}
	if t.Default != "" {
		return t.Default, true
	}
	return "", false
}
