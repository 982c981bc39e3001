package cli

import (
	"errors"
	"fmt"

	"github.com/aretw0/protocolfill/internal/presentation/graph"
	"github.com/aretw0/protocolfill/internal/presentation/tui"
	"github.com/aretw0/protocolfill/pkg/calculator"
	"github.com/aretw0/protocolfill/pkg/config"
)

// CalcOptions are the inputs of a derived value preview.
type CalcOptions struct {
	Questions string
	Answers   string
	Set       []string
	Language  string
	// Graph prints the dependency graph as a Mermaid flowchart instead of the table.
	Graph bool
}

// RunCalc evaluates the calculated questions and prints the results with
// the protocol errors they would raise.
func RunCalc(env *Env, opts CalcOptions) error {
	configs, err := config.LoadQuestions(opts.Questions)
	if err != nil {
		return err
	}

	values := map[string]float64{}
	if opts.Answers != "" {
		answers, err := LoadAnswers(opts.Answers)
		if err != nil {
			return err
		}
		values = calculator.MeasurementValues(answers, configs)
	}
	set, err := ParseAssignments(opts.Set)
	if err != nil {
		return err
	}
	for id, v := range set {
		values[id] = v
	}

	engine, err := env.Engine()
	if err != nil {
		return err
	}
	results, err := engine.CalculateDerivedValues(configs, values)
	var cycle *calculator.CycleError
	if err != nil && !errors.As(err, &cycle) {
		return err
	}

	if opts.Graph {
		_, cyclic := calculator.Order(configs)
		overlay := &graph.GraphOverlay{Results: results, Cyclic: cyclic}
		_, err := fmt.Fprint(env.Stdout, graph.GenerateMermaid(configs, overlay))
		return err
	}

	language := opts.Language
	if language == "" {
		language = env.Settings.Language
	}
	summary := tui.Summary{
		Title:        "Calculated values",
		Calculations: results,
		Errors:       calculator.ProtocolErrors(configs, values, results, language),
	}
	if cycle != nil {
		summary.Warnings = append(summary.Warnings, cycle.Error())
	}
	if err := tui.WriteMarkdown(env.Stdout, summary.Markdown()); err != nil {
		return err
	}
	if cycle != nil {
		return fmt.Errorf("configuration error: %w", cycle)
	}
	return nil
}
