package protocolfill_test

import (
	"fmt"
	"log"
	"sort"

	"github.com/aretw0/protocolfill"
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/formula"
)

// ExampleEngine_CalculateDerivedValues previews calculated questions without
// touching a document. Inputs come from measurement values and from results
// computed earlier in the same pass.
func ExampleEngine_CalculateDerivedValues() {
	configs := []domain.QuestionConfig{
		{QuestionID: "inlet", Type: domain.QuestionMeasurement, CellReference: "D10", Unit: "bar"},
		{QuestionID: "outlet", Type: domain.QuestionMeasurement, CellReference: "D11", Unit: "bar"},
		{
			QuestionID: "drop", Type: domain.QuestionCalculated, CellReference: "D12",
			CalculationFormula: "inlet - outlet", CalculationInputs: []string{"inlet", "outlet"},
			MaxValue: domain.Float(1),
		},
		{
			QuestionID: "share", Type: domain.QuestionCalculated, CellReference: "D13",
			CalculationFormula: "drop / inlet * 100", CalculationInputs: []string{"drop", "inlet"},
		},
		{
			QuestionID: "flow", Type: domain.QuestionCalculated, CellReference: "D14",
			CalculationFormula: "drop * k", CalculationInputs: []string{"drop", "k"},
		},
	}

	engine := protocolfill.New(protocolfill.WithRounding(formula.RoundTo(1)))
	results, err := engine.CalculateDerivedValues(configs, map[string]float64{"inlet": 4.5, "outlet": 3})
	if err != nil {
		log.Fatal(err)
	}

	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r := results[id]
		if v, ok := r.Number(); ok {
			fmt.Printf("%s = %g (within limits: %t)\n", id, v, r.IsWithinLimits)
			continue
		}
		fmt.Printf("%s: %s\n", id, r.ErrorReason)
	}

	// Output:
	// drop = 1.5 (within limits: false)
	// flow: missing input
	// share = 33.3 (within limits: true)
}
