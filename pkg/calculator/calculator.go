// Package calculator computes derived values of calculated questions.
//
// Calculated questions are evaluated in dependency order. Inputs are taken from
// the measurement values first and then from results computed earlier in the
// same pass. A question with an absent input is never partially evaluated.
package calculator

import (
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/formula"
	"github.com/aretw0/protocolfill/pkg/measurement"
)

// Result reasons.
const (
	ReasonMissingInput    = "missing input"
	ReasonDependencyCycle = "dependency cycle"
	ReasonMissingFormula  = "missing formula"
)

// Calculator evaluates calculated questions. It holds no per-call state and is safe for concurrent use.
type Calculator struct {
	evaluator *formula.Evaluator
	logger    *slog.Logger
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithEvaluator sets the formula evaluator (and with it the rounding policy).
func WithEvaluator(e *formula.Evaluator) Option {
	return func(c *Calculator) {
		if e != nil {
			c.evaluator = e
		}
	}
}

// WithLogger sets the logger used for configuration problems.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		evaluator: formula.New(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CalculateAll evaluates every calculated question in questions.
//
// The returned map always holds one result per calculated question. When a
// dependency cycle exists the questions on it are invalid with reason
// "dependency cycle" and a *CycleError is returned alongside the results.
func (c *Calculator) CalculateAll(questions []domain.QuestionConfig, measurementValues map[string]float64) (map[string]domain.CalculationResult, error) {
	order, cyclic := Order(questions)
	results := make(map[string]domain.CalculationResult, len(order))

	for _, q := range order {
		if cyclic[q.QuestionID] {
			results[q.QuestionID] = invalid(q.QuestionID, ReasonDependencyCycle)
			continue
		}
		results[q.QuestionID] = c.calculate(q, measurementValues, results)
	}

	if len(cyclic) > 0 {
		ids := make([]string, 0, len(cyclic))
		for id := range cyclic {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		err := &CycleError{QuestionIDs: ids}
		c.logger.Warn("calculated questions form a dependency cycle", "question_ids", ids)
		return results, err
	}
	return results, nil
}

func (c *Calculator) calculate(q domain.QuestionConfig, measurementValues map[string]float64, computed map[string]domain.CalculationResult) domain.CalculationResult {
	if q.CalculationFormula == "" {
		c.logger.Warn("calculated question has no formula", "question_id", q.QuestionID)
		return invalid(q.QuestionID, ReasonMissingFormula)
	}

	bindings := make(map[string]float64, len(q.CalculationInputs))
	for _, in := range q.CalculationInputs {
		if v, ok := measurementValues[in]; ok {
			bindings[in] = v
			continue
		}
		if r, ok := computed[in]; ok {
			if v, ok := r.Number(); ok {
				bindings[in] = v
				continue
			}
		}
		c.logger.Debug("calculated question input absent", "question_id", q.QuestionID, "input", in)
		return invalid(q.QuestionID, ReasonMissingInput)
	}

	v, err := c.evaluator.Evaluate(q.CalculationFormula, bindings)
	if err != nil {
		if errors.Is(err, formula.ErrSyntax) {
			c.logger.Warn("calculation formula does not parse", "question_id", q.QuestionID, "formula", q.CalculationFormula, "error", err)
		}
		return invalid(q.QuestionID, err.Error())
	}

	verdict := measurement.ValidateConfig(v, q)
	res := domain.CalculationResult{
		QuestionID:     q.QuestionID,
		Value:          domain.Float(v),
		IsValid:        true,
		IsWithinLimits: verdict.OK,
	}
	if !verdict.OK {
		res.ErrorReason = verdict.Reason
	}
	return res
}

func invalid(id, reason string) domain.CalculationResult {
	return domain.CalculationResult{QuestionID: id, ErrorReason: reason}
}

var defaultCalculator = New()

// CalculateAll evaluates calculated questions with the default calculator.
func CalculateAll(questions []domain.QuestionConfig, measurementValues map[string]float64) (map[string]domain.CalculationResult, error) {
	return defaultCalculator.CalculateAll(questions, measurementValues)
}

// MeasurementValues extracts the numeric answers of number and measurement questions.
// Answers that do not parse as a finite number are left out.
func MeasurementValues(answers domain.Answers, configs []domain.QuestionConfig) map[string]float64 {
	values := make(map[string]float64)
	for _, q := range configs {
		if q.Type != domain.QuestionMeasurement && q.Type != domain.QuestionNumber {
			continue
		}
		a, ok := answers[q.QuestionID]
		if !ok {
			continue
		}
		if v, ok := measurement.FromValue(a); ok {
			values[q.QuestionID] = v
		}
	}
	return values
}
