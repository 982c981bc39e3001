package domain

import "strings"

// QuestionType selects the encoding rules applied to an answer.
type QuestionType string

const (
	QuestionText        QuestionType = "text"
	QuestionNumber      QuestionType = "number"
	QuestionYesNoNA     QuestionType = "yes_no_na"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionMeasurement QuestionType = "measurement"
	QuestionCalculated  QuestionType = "calculated"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionNumber, QuestionYesNoNA, QuestionTrueFalse, QuestionMeasurement, QuestionCalculated:
		return true
	}
	return false
}

// IsNumeric reports whether answers of this type carry a number that can feed a formula.
func (t QuestionType) IsNumeric() bool {
	return t == QuestionNumber || t == QuestionMeasurement || t == QuestionCalculated
}

// Separators used inside CellReference.
const (
	// GroupSeparator splits the yes, no and na groups of a yes_no_na reference.
	GroupSeparator = ","
	// CellSeparator splits the cells of one group in multi-cell mode.
	CellSeparator = ";"
)

// QuestionConfig describes how one logical question maps onto the document.
type QuestionConfig struct {
	QuestionID string       `json:"question_id" yaml:"question_id" mapstructure:"question_id"`
	Type       QuestionType `json:"type" yaml:"type" mapstructure:"type"`

	// CellReference is a single cell ("D5"), a semicolon separated list ("D5;E5"),
	// or for yes_no_na a comma separated triple of such groups ("A1,B1,C1").
	CellReference string `json:"cell_reference" yaml:"cell_reference" mapstructure:"cell_reference"`
	MultiCell     bool   `json:"multi_cell" yaml:"multi_cell" mapstructure:"multi_cell"`

	Unit     string   `json:"unit,omitempty" yaml:"unit,omitempty" mapstructure:"unit"`
	MinValue *float64 `json:"min_value,omitempty" yaml:"min_value,omitempty" mapstructure:"min_value"`
	MaxValue *float64 `json:"max_value,omitempty" yaml:"max_value,omitempty" mapstructure:"max_value"`

	CalculationFormula string   `json:"calculation_formula,omitempty" yaml:"calculation_formula,omitempty" mapstructure:"calculation_formula"`
	CalculationInputs  []string `json:"calculation_inputs,omitempty" yaml:"calculation_inputs,omitempty" mapstructure:"calculation_inputs"`

	// Label is the human readable question text, used in protocol error titles.
	Label string `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
}

// DisplayName returns the label, falling back to the question id.
func (q QuestionConfig) DisplayName() string {
	if strings.TrimSpace(q.Label) != "" {
		return q.Label
	}
	return q.QuestionID
}

// HasBounds reports whether a minimum or maximum is configured.
func (q QuestionConfig) HasBounds() bool {
	return q.MinValue != nil || q.MaxValue != nil
}

// Float returns a pointer to v. Handy for literal bounds.
func Float(v float64) *float64 {
	return &v
}

// IndexConfigs returns configs keyed by question id. Later duplicates win.
func IndexConfigs(configs []QuestionConfig) map[string]QuestionConfig {
	idx := make(map[string]QuestionConfig, len(configs))
	for _, c := range configs {
		idx[c.QuestionID] = c
	}
	return idx
}
