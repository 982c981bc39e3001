package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/protocolfill/pkg/calculator"
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/formula"
	"github.com/aretw0/protocolfill/pkg/sheetxml"
)

// Validate lints a question configuration set. It returns an *AggregateError
// listing every problem, or nil. Generation does not require a clean
// configuration; problems there degrade per question.
func Validate(configs []domain.QuestionConfig) error {
	var errs []error
	add := func(id, field, reason string, value any) {
		errs = append(errs, &ValidationError{QuestionID: id, Field: field, Reason: reason, Value: value})
	}

	byID := make(map[string]domain.QuestionConfig, len(configs))
	for _, q := range configs {
		if strings.TrimSpace(q.QuestionID) == "" {
			add("", "question_id", "must not be empty", nil)
			continue
		}
		if _, dup := byID[q.QuestionID]; dup {
			add(q.QuestionID, "question_id", "duplicate question id", nil)
		}
		byID[q.QuestionID] = q
	}

	for _, q := range configs {
		if !q.Type.Valid() {
			add(q.QuestionID, "type", "unknown question type", string(q.Type))
			continue
		}
		for _, err := range checkCellReference(q) {
			add(q.QuestionID, "cell_reference", err, q.CellReference)
		}
		if q.MinValue != nil && q.MaxValue != nil && *q.MinValue > *q.MaxValue {
			add(q.QuestionID, "min_value", fmt.Sprintf("greater than max_value %s", domain.FormatNumber(*q.MaxValue)), domain.FormatNumber(*q.MinValue))
		}
		if q.HasBounds() && !q.Type.IsNumeric() {
			add(q.QuestionID, "min_value", "bounds only apply to numeric questions", nil)
		}
		if q.Type == domain.QuestionCalculated {
			errs = append(errs, checkCalculated(q, byID)...)
		} else if q.CalculationFormula != "" {
			add(q.QuestionID, "calculation_formula", "only calculated questions have a formula", nil)
		}
	}

	if _, cyclic := calculator.Order(configs); len(cyclic) > 0 {
		for _, q := range configs {
			if cyclic[q.QuestionID] {
				add(q.QuestionID, "calculation_inputs", "part of a dependency cycle", nil)
			}
		}
	}
	return aggregate(errs)
}

func checkCellReference(q domain.QuestionConfig) []string {
	if strings.TrimSpace(q.CellReference) == "" {
		return []string{"must not be empty"}
	}
	groups := []string{q.CellReference}
	if q.Type == domain.QuestionYesNoNA {
		groups = strings.Split(q.CellReference, domain.GroupSeparator)
		if len(groups) != 3 {
			return []string{fmt.Sprintf("yes_no_na needs 3 groups separated by %q, found %d", domain.GroupSeparator, len(groups))}
		}
	}
	var problems []string
	for _, g := range groups {
		cells := strings.Split(g, domain.CellSeparator)
		if len(cells) > 1 && !q.MultiCell {
			problems = append(problems, fmt.Sprintf("group %q lists several cells but multi_cell is off; only the first is written", strings.TrimSpace(g)))
		}
		for _, c := range cells {
			if _, err := sheetxml.ParseRef(c); err != nil {
				problems = append(problems, err.Error())
			}
		}
	}
	return problems
}

func checkCalculated(q domain.QuestionConfig, byID map[string]domain.QuestionConfig) []error {
	var errs []error
	add := func(field, reason string, value any) {
		errs = append(errs, &ValidationError{QuestionID: q.QuestionID, Field: field, Reason: reason, Value: value})
	}
	if strings.TrimSpace(q.CalculationFormula) == "" {
		add("calculation_formula", "calculated questions need a formula", nil)
		return errs
	}

	declared := make(map[string]bool, len(q.CalculationInputs))
	for _, in := range q.CalculationInputs {
		declared[in] = true
		dep, ok := byID[in]
		switch {
		case !ok:
			add("calculation_inputs", "references an unknown question", in)
		case !dep.Type.IsNumeric():
			add("calculation_inputs", fmt.Sprintf("input is a %s question, not numeric", dep.Type), in)
		}
	}
	for _, ref := range formula.References(q.CalculationFormula) {
		if !declared[ref] {
			add("calculation_formula", "uses an identifier not listed in calculation_inputs", ref)
		}
	}

	// Dry run with every input bound to 1 to catch syntax and character errors early.
	bindings := make(map[string]float64, len(q.CalculationInputs))
	for _, in := range q.CalculationInputs {
		bindings[in] = 1
	}
	if _, err := formula.New(formula.WithRounding(formula.NoRounding)).Evaluate(q.CalculationFormula, bindings); err != nil {
		if isStaticError(err) {
			add("calculation_formula", err.Error(), q.CalculationFormula)
		}
	}
	return errs
}

// isStaticError reports errors that do not depend on input values.
func isStaticError(err error) bool {
	return errors.Is(err, formula.ErrSyntax) || errors.Is(err, formula.ErrUnsafeExpression)
}
