package loam

import (
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// QuestionMetadata is the frontmatter of a question document.
// Order, bounds and inputs stay untyped so strict repositories (json.Number) and plain YAML
// (int, float64, string) decode the same way.
type QuestionMetadata struct {
	TemplateID string `json:"template_id" mapstructure:"template_id"`
	Order      any    `json:"order" mapstructure:"order"`

	QuestionID    string `json:"question_id" mapstructure:"question_id"`
	Type          string `json:"type" mapstructure:"type"`
	CellReference string `json:"cell_reference" mapstructure:"cell_reference"`
	MultiCell     bool   `json:"multi_cell" mapstructure:"multi_cell"`
	Unit          string `json:"unit" mapstructure:"unit"`
	MinValue      any    `json:"min_value" mapstructure:"min_value"`
	MaxValue      any    `json:"max_value" mapstructure:"max_value"`

	CalculationFormula string `json:"calculation_formula" mapstructure:"calculation_formula"`
	CalculationInputs  any    `json:"calculation_inputs" mapstructure:"calculation_inputs"`
	Label              string `json:"label" mapstructure:"label"`
}

// raw flattens the metadata into the generic shape config.DecodeQuestion expects.
func (m QuestionMetadata) raw() map[string]any {
	out := map[string]any{
		"question_id":    m.QuestionID,
		"type":           m.Type,
		"cell_reference": m.CellReference,
		"multi_cell":     m.MultiCell,
	}
	if m.Unit != "" {
		out["unit"] = m.Unit
	}
	if m.MinValue != nil {
		out["min_value"] = m.MinValue
	}
	if m.MaxValue != nil {
		out["max_value"] = m.MaxValue
	}
	if m.CalculationFormula != "" {
		out["calculation_formula"] = m.CalculationFormula
	}
	if m.CalculationInputs != nil {
		out["calculation_inputs"] = m.CalculationInputs
	}
	if m.Label != "" {
		out["label"] = m.Label
	}
	return out
}

// position decodes the order field; documents without one sort first.
func (m QuestionMetadata) position() int {
	var n int
	if m.Order == nil || mapstructure.WeakDecode(m.Order, &n) != nil {
		return 0
	}
	return n
}

// frontmatter is the inverse of raw, used when seeding a repository.
func frontmatter(templateID string, order int, q domain.QuestionConfig) map[string]any {
	out := map[string]any{
		"template_id":    templateID,
		"order":          order,
		"question_id":    q.QuestionID,
		"type":           string(q.Type),
		"cell_reference": q.CellReference,
		"multi_cell":     q.MultiCell,
	}
	if q.Unit != "" {
		out["unit"] = q.Unit
	}
	if q.MinValue != nil {
		out["min_value"] = *q.MinValue
	}
	if q.MaxValue != nil {
		out["max_value"] = *q.MaxValue
	}
	if q.CalculationFormula != "" {
		out["calculation_formula"] = q.CalculationFormula
	}
	if len(q.CalculationInputs) > 0 {
		out["calculation_inputs"] = q.CalculationInputs
	}
	if q.Label != "" {
		out["label"] = q.Label
	}
	return out
}
