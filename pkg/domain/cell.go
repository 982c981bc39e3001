package domain

// CellWrite is the literal (unescaped) string that must appear in the target cell.
type CellWrite struct {
	CellReference string `json:"cell_reference"`
	Value         string `json:"value"`
}

// WriteCase identifies which branch of the cell writer handled a write.
type WriteCase string

const (
	CaseInlineContent   WriteCase = "existing_content"
	CaseStyledEmpty     WriteCase = "styled_empty"
	CaseUnstyledEmpty   WriteCase = "unstyled_empty"
	CaseInsertedIntoRow WriteCase = "inserted"
	CaseRowMissing      WriteCase = "row_missing"
	CaseInvalid         WriteCase = "invalid"
)

// WriteStatus is the per-cell outcome of a write.
type WriteStatus string

const (
	StatusWritten WriteStatus = "written"
	StatusSkipped WriteStatus = "skipped"
)

// CellOutcome records what happened to one CellWrite.
type CellOutcome struct {
	CellReference  string      `json:"cell_reference"`
	RedirectedFrom string      `json:"redirected_from,omitempty"`
	Status         WriteStatus `json:"status"`
	Case           WriteCase   `json:"case"`
	Reason         string      `json:"reason,omitempty"`
}

// WriteReport aggregates the outcomes of one batch of cell writes.
type WriteReport struct {
	Outcomes      []CellOutcome `json:"outcomes"`
	ModifiedCount int           `json:"modified_count"`
	SkippedCount  int           `json:"skipped_count"`
}

// Add appends an outcome and updates the counters.
func (r *WriteReport) Add(o CellOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.Status == StatusWritten {
		r.ModifiedCount++
	} else {
		r.SkippedCount++
	}
}

// Skipped returns only the skipped outcomes.
func (r WriteReport) Skipped() []CellOutcome {
	var out []CellOutcome
	for _, o := range r.Outcomes {
		if o.Status == StatusSkipped {
			out = append(out, o)
		}
	}
	return out
}
