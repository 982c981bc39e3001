package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/protocolfill/internal/presentation/graph"
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func configs() []domain.QuestionConfig {
	return []domain.QuestionConfig{
		{QuestionID: "notes", Type: domain.QuestionText, CellReference: "B2"},
		{QuestionID: "pressure-in", Type: domain.QuestionMeasurement, CellReference: "C2", Unit: "bar"},
		{QuestionID: "pressure.out", Type: domain.QuestionMeasurement, CellReference: "C3", Unit: "bar"},
		{
			QuestionID: "drop", Type: domain.QuestionCalculated, CellReference: "D2",
			CalculationFormula: "pressure-in - pressure.out", CalculationInputs: []string{"pressure-in", "pressure.out"},
		},
		{
			QuestionID: "ratio", Type: domain.QuestionCalculated, CellReference: "D3",
			CalculationFormula: "drop / ghost", CalculationInputs: []string{"drop", "ghost"},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		overlay     *graph.GraphOverlay
		contains    []string
		notContains []string
	}{
		{
			name: "Shapes And Edges",
			contains: []string{
				"graph LR\n",
				`pressure_in[/"pressure-in (bar)"/]`,
				`pressure_out[/"pressure.out (bar)"/]`,
				`drop[["drop <br/> pressure-in - pressure.out"]]`,
				`ghost(("ghost"))`,
				"pressure_in --> drop",
				"pressure_out --> drop",
				"drop ==> ratio",
				"ghost --> ratio",
			},
			notContains: []string{"notes", "classDef"},
		},
		{
			name: "Overlay",
			overlay: &graph.GraphOverlay{
				Results: map[string]domain.CalculationResult{
					"drop":  {QuestionID: "drop", Value: domain.Float(1), IsValid: true, IsWithinLimits: false},
					"ratio": {QuestionID: "ratio", IsValid: false},
				},
			},
			contains: []string{
				"class drop limits;",
				"class ratio invalid;",
			},
		},
		{
			name: "Cycle Wins Over Result",
			overlay: &graph.GraphOverlay{
				Results: map[string]domain.CalculationResult{
					"drop": {QuestionID: "drop", Value: domain.Float(1), IsValid: true, IsWithinLimits: true},
				},
				Cyclic: map[string]bool{"drop": true},
			},
			contains:    []string{"class drop cycle;"},
			notContains: []string{"class drop ok;"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(configs(), tt.overlay)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestGenerateMermaid_NoCalculations(t *testing.T) {
	got := graph.GenerateMermaid([]domain.QuestionConfig{
		{QuestionID: "notes", Type: domain.QuestionText, CellReference: "B2"},
	}, nil)
	assert.Equal(t, "graph LR\n", got)
	assert.False(t, strings.Contains(got, "notes"))
}
