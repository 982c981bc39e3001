package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/protocolfill"
	"github.com/aretw0/protocolfill/internal/presentation/tui"
	"github.com/aretw0/protocolfill/pkg/adapters/file"
	"github.com/aretw0/protocolfill/pkg/config"
	"github.com/aretw0/protocolfill/pkg/domain"
)

// GenerateOptions selects the template either by file (Template plus
// Questions) or from a store directory (StoreDir plus TemplateType).
type GenerateOptions struct {
	Template  string
	Questions string

	StoreDir      string
	QuestionsRepo string
	TemplateType  string
	SessionID     string

	Answers   string
	Output    string
	Language  string
	Signature string
	Sheet     string
}

// RunGenerate fills a template and writes the document to opts.Output.
func RunGenerate(ctx context.Context, env *Env, opts GenerateOptions) error {
	if opts.Output == "" {
		return fmt.Errorf("an output path is required")
	}
	if opts.Answers == "" {
		return fmt.Errorf("an answers file is required")
	}
	if opts.Language == "" {
		opts.Language = env.Settings.Language
	}

	answers, err := LoadAnswers(opts.Answers)
	if err != nil {
		return err
	}
	engine, err := env.Engine()
	if err != nil {
		return err
	}

	var res *protocolfill.Result
	switch {
	case opts.StoreDir != "":
		res, err = generateFromStore(ctx, env, engine, opts, answers)
	case opts.Template != "" && opts.Questions != "":
		res, err = generateFromFiles(ctx, env, engine, opts, answers)
		if err == nil {
			err = file.NewOutputWriter(filepath.Dir(opts.Output)).WriteDocument(ctx, filepath.Base(opts.Output), res.Document)
		}
	default:
		return fmt.Errorf("either --store or both --template and --questions are required")
	}
	if err != nil {
		return err
	}

	summary := tui.Summary{
		Title:         "Generation report",
		Output:        opts.Output,
		WorksheetPath: res.WorksheetPath,
		Report:        &res.Report,
		Calculations:  res.Calculations,
		Errors:        res.Errors,
		Warnings:      warningStrings(res),
	}
	if err := tui.WriteMarkdown(env.Stdout, summary.Markdown()); err != nil {
		return err
	}
	tui.Status(env.Stdout, res.Report.SkippedCount == 0, fmt.Sprintf("%d cells written, %d skipped", res.Report.ModifiedCount, res.Report.SkippedCount))
	return nil
}

func generateFromFiles(ctx context.Context, env *Env, engine *protocolfill.Engine, opts GenerateOptions, answers domain.Answers) (*protocolfill.Result, error) {
	data, err := os.ReadFile(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	configs, err := config.LoadQuestions(opts.Questions)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(configs); err != nil {
		// Configuration problems degrade per question; they never block generation.
		env.Logger.Warn("question configuration has problems", "error", err)
	}

	id := strings.TrimSuffix(filepath.Base(opts.Template), filepath.Ext(opts.Template))
	return engine.GenerateDocument(ctx, protocolfill.Request{
		Template: domain.Template{
			Metadata: domain.TemplateMetadata{ID: id, Language: opts.Language},
			Bytes:    data,
		},
		Configs:       configs,
		Answers:       answers,
		Language:      opts.Language,
		SignatureName: opts.Signature,
		SheetName:     opts.Sheet,
	})
}

func generateFromStore(ctx context.Context, env *Env, engine *protocolfill.Engine, opts GenerateOptions, answers domain.Answers) (*protocolfill.Result, error) {
	if opts.TemplateType == "" {
		return nil, fmt.Errorf("--type is required with --store")
	}
	stores, err := OpenStores(env, opts.StoreDir, opts.QuestionsRepo)
	if err != nil {
		return nil, err
	}
	defer func() { _ = stores.Close() }()

	svc := protocolfill.NewService(engine, stores.Templates, stores.Questions,
		protocolfill.WithErrorSink(stores.Errors),
		protocolfill.WithDocumentSink(file.NewOutputWriter(filepath.Dir(opts.Output))),
	)
	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = strings.TrimSuffix(filepath.Base(opts.Output), filepath.Ext(opts.Output))
	}
	return svc.Generate(ctx, protocolfill.GenerateRequest{
		SessionID:     sessionID,
		TemplateType:  opts.TemplateType,
		Language:      opts.Language,
		Answers:       answers,
		SignatureName: opts.Signature,
		OutputName:    filepath.Base(opts.Output),
	})
}

func warningStrings(res *protocolfill.Result) []string {
	out := make([]string, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		out = append(out, w.String())
	}
	return out
}
