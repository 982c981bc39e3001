package calculator_test

import (
	"testing"

	"github.com/aretw0/protocolfill/pkg/calculator"
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func calc(id, f string, inputs ...string) domain.QuestionConfig {
	return domain.QuestionConfig{
		QuestionID:         id,
		Type:               domain.QuestionCalculated,
		CalculationFormula: f,
		CalculationInputs:  inputs,
	}
}

func TestCalculateAll_Sum(t *testing.T) {
	results, err := calculator.CalculateAll(
		[]domain.QuestionConfig{calc("sum", "a+b", "a", "b")},
		map[string]float64{"a": 10, "b": 5},
	)
	require.NoError(t, err)

	r := results["sum"]
	assert.True(t, r.IsValid)
	assert.True(t, r.IsWithinLimits)
	require.NotNil(t, r.Value)
	assert.Equal(t, 15.0, *r.Value)
	assert.Empty(t, r.ErrorReason)
}

func TestCalculateAll_MissingInput(t *testing.T) {
	results, err := calculator.CalculateAll(
		[]domain.QuestionConfig{calc("sum", "a+b", "a", "b")},
		map[string]float64{"a": 10},
	)
	require.NoError(t, err)
	assert.Equal(t, domain.CalculationResult{
		QuestionID:  "sum",
		IsValid:     false,
		ErrorReason: calculator.ReasonMissingInput,
	}, results["sum"])
}

func TestCalculateAll_ChainsInDependencyOrder(t *testing.T) {
	// "total" is declared before its dependency "diff".
	questions := []domain.QuestionConfig{
		calc("total", "diff * 2", "diff"),
		{QuestionID: "a", Type: domain.QuestionMeasurement},
		calc("diff", "a - b", "a", "b"),
	}
	results, err := calculator.CalculateAll(questions, map[string]float64{"a": 9, "b": 4})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 5.0, *results["diff"].Value)
	assert.Equal(t, 10.0, *results["total"].Value)
}

func TestCalculateAll_InvalidDependencyPropagatesAsMissingInput(t *testing.T) {
	questions := []domain.QuestionConfig{
		calc("ratio", "a / b", "a", "b"),
		calc("scaled", "ratio * 10", "ratio"),
	}
	results, err := calculator.CalculateAll(questions, map[string]float64{"a": 1, "b": 0})
	require.NoError(t, err)

	assert.False(t, results["ratio"].IsValid)
	assert.Nil(t, results["ratio"].Value)
	assert.Contains(t, results["ratio"].ErrorReason, formula.ErrDivisionByZero.Error())
	assert.Equal(t, calculator.ReasonMissingInput, results["scaled"].ErrorReason)
}

func TestCalculateAll_Cycle(t *testing.T) {
	questions := []domain.QuestionConfig{
		calc("x", "y + 1", "y"),
		calc("y", "x + 1", "x"),
		calc("z", "x * 2", "x"),
		calc("ok", "a * 2", "a"),
	}
	results, err := calculator.CalculateAll(questions, map[string]float64{"a": 2})
	require.Error(t, err)

	var cycleErr *calculator.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"x", "y"}, cycleErr.QuestionIDs)

	assert.Equal(t, calculator.ReasonDependencyCycle, results["x"].ErrorReason)
	assert.Equal(t, calculator.ReasonDependencyCycle, results["y"].ErrorReason)
	assert.Equal(t, calculator.ReasonMissingInput, results["z"].ErrorReason)
	assert.True(t, results["ok"].IsValid)
	assert.Equal(t, 4.0, *results["ok"].Value)
}

func TestCalculateAll_CycleThroughFinishedQuestion(t *testing.T) {
	// z lies on x -> z -> y -> x but is reached after y is already finished
	questions := []domain.QuestionConfig{
		calc("x", "y + z", "y", "z"),
		calc("y", "x + 1", "x"),
		calc("z", "y + 1", "y"),
	}
	results, err := calculator.CalculateAll(questions, nil)

	var cycleErr *calculator.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"x", "y", "z"}, cycleErr.QuestionIDs)
	for _, id := range []string{"x", "y", "z"} {
		assert.Equal(t, calculator.ReasonDependencyCycle, results[id].ErrorReason, id)
	}
}

func TestCalculateAll_SelfReference(t *testing.T) {
	results, err := calculator.CalculateAll([]domain.QuestionConfig{calc("s", "s + 1", "s")}, nil)
	require.Error(t, err)
	assert.Equal(t, calculator.ReasonDependencyCycle, results["s"].ErrorReason)
}

func TestCalculateAll_Bounds(t *testing.T) {
	q := calc("area", "w * h", "w", "h")
	q.MinValue = domain.Float(1)
	q.MaxValue = domain.Float(20)

	results, err := calculator.CalculateAll([]domain.QuestionConfig{q}, map[string]float64{"w": 5, "h": 5})
	require.NoError(t, err)
	r := results["area"]
	assert.True(t, r.IsValid)
	assert.False(t, r.IsWithinLimits)
	assert.Equal(t, 25.0, *r.Value)
	assert.Contains(t, r.ErrorReason, "20")
}

func TestCalculateAll_MissingFormula(t *testing.T) {
	results, err := calculator.CalculateAll([]domain.QuestionConfig{calc("empty", "")}, nil)
	require.NoError(t, err)
	assert.Equal(t, calculator.ReasonMissingFormula, results["empty"].ErrorReason)
}

func TestCalculateAll_MeasurementValuesWinOverComputed(t *testing.T) {
	questions := []domain.QuestionConfig{
		calc("base", "1", "one"),
		calc("next", "base + 1", "base"),
	}
	results, err := calculator.CalculateAll(questions, map[string]float64{"one": 1, "base": 100})
	require.NoError(t, err)
	assert.Equal(t, 101.0, *results["next"].Value)
}

func TestCalculateAll_Rounding(t *testing.T) {
	c := calculator.New(calculator.WithEvaluator(formula.New(formula.WithRounding(formula.NoRounding))))
	results, err := c.CalculateAll([]domain.QuestionConfig{calc("half", "a / 2", "a")}, map[string]float64{"a": 3})
	require.NoError(t, err)
	assert.Equal(t, 1.5, *results["half"].Value)
}

func TestMeasurementValues(t *testing.T) {
	configs := []domain.QuestionConfig{
		{QuestionID: "m1", Type: domain.QuestionMeasurement},
		{QuestionID: "m2", Type: domain.QuestionMeasurement},
		{QuestionID: "n", Type: domain.QuestionNumber},
		{QuestionID: "t", Type: domain.QuestionText},
		{QuestionID: "bad", Type: domain.QuestionMeasurement},
	}
	answers := domain.Answers{
		"m1":  domain.NumberValue(3),
		"m2":  domain.StringValue("4,5"),
		"n":   domain.StringValue("7"),
		"t":   domain.StringValue("8"),
		"bad": domain.StringValue("n/a"),
	}
	assert.Equal(t, map[string]float64{"m1": 3, "m2": 4.5, "n": 7}, calculator.MeasurementValues(answers, configs))
}

func TestOrder(t *testing.T) {
	order, cyclic := calculator.Order([]domain.QuestionConfig{
		calc("c", "b", "b"),
		calc("b", "a", "a"),
		calc("a", "m", "m"),
		{QuestionID: "m", Type: domain.QuestionMeasurement},
	})
	assert.Empty(t, cyclic)
	ids := make([]string, 0, len(order))
	for _, q := range order {
		ids = append(ids, q.QuestionID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestOrder_Cycles(t *testing.T) {
	tests := []struct {
		name   string
		in     []domain.QuestionConfig
		cyclic map[string]bool
	}{
		{
			name: "Cycle Reached Through Finished Question",
			in: []domain.QuestionConfig{
				calc("x", "y + z", "y", "z"),
				calc("y", "x", "x"),
				calc("z", "y", "y"),
			},
			cyclic: map[string]bool{"x": true, "y": true, "z": true},
		},
		{
			name: "Dependent Of Cycle Is Not On It",
			in: []domain.QuestionConfig{
				calc("a", "b", "b"),
				calc("b", "a", "a"),
				calc("c", "a", "a"),
			},
			cyclic: map[string]bool{"a": true, "b": true},
		},
		{
			name:   "Self Loop",
			in:     []domain.QuestionConfig{calc("s", "s", "s"), calc("t", "s", "s")},
			cyclic: map[string]bool{"s": true},
		},
		{
			name: "Diamond Without Cycle",
			in: []domain.QuestionConfig{
				calc("top", "l + r", "l", "r"),
				calc("l", "m", "m"),
				calc("r", "m", "m"),
				{QuestionID: "m", Type: domain.QuestionMeasurement},
			},
			cyclic: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, cyclic := calculator.Order(tt.in)
			assert.Equal(t, tt.cyclic, cyclic)
			assert.Len(t, order, len(tt.in)-countMeasurements(tt.in))
		})
	}
}

func countMeasurements(in []domain.QuestionConfig) int {
	n := 0
	for _, q := range in {
		if q.Type != domain.QuestionCalculated {
			n++
		}
	}
	return n
}
