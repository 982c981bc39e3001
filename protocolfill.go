package protocolfill

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/protocolfill/pkg/archive"
	"github.com/aretw0/protocolfill/pkg/calculator"
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/formula"
	"github.com/aretw0/protocolfill/pkg/mapper"
	"github.com/aretw0/protocolfill/pkg/observability"
	"github.com/aretw0/protocolfill/pkg/sheetxml"
	"github.com/prometheus/client_golang/prometheus"
)

// Engine is the entry point of the library. It is safe for concurrent use.
type Engine struct {
	logger           *slog.Logger
	metrics          *observability.Metrics
	rounding         formula.Rounding
	styleFor         func(domain.TemplateMetadata) sheetxml.StyleTable
	signatureCell    string
	compressionLevel int
	mergeRedirect    bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics registers the engine metrics on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = observability.NewMetrics(reg)
	}
}

// WithRounding sets the rounding applied to formula results (default: nearest).
func WithRounding(r formula.Rounding) Option {
	return func(e *Engine) {
		e.rounding = r
	}
}

// WithStyleTable overrides the row-band style table of every template.
func WithStyleTable(t sheetxml.StyleTable) Option {
	return func(e *Engine) {
		e.styleFor = func(domain.TemplateMetadata) sheetxml.StyleTable { return t }
	}
}

// WithStyleResolver derives the style table from the template metadata.
// The default uses the template's own bands and default style.
func WithStyleResolver(fn func(domain.TemplateMetadata) sheetxml.StyleTable) Option {
	return func(e *Engine) {
		if fn != nil {
			e.styleFor = fn
		}
	}
}

// WithSignatureCell overrides the signature cell of every template.
func WithSignatureCell(ref string) Option {
	return func(e *Engine) {
		e.signatureCell = ref
	}
}

// WithCompressionLevel sets the deflate level of the rewritten worksheet.
func WithCompressionLevel(level int) Option {
	return func(e *Engine) {
		e.compressionLevel = level
	}
}

// WithMergeRedirect toggles redirecting writes on merged cells to the range anchor.
func WithMergeRedirect(enabled bool) Option {
	return func(e *Engine) {
		e.mergeRedirect = enabled
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		styleFor:         sheetxml.StyleTableFor,
		compressionLevel: archive.DefaultCompressionLevel,
		mergeRedirect:    true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Metrics returns the engine metrics, or nil when WithMetrics was not used.
func (e *Engine) Metrics() *observability.Metrics {
	return e.metrics
}

// Request is one document generation.
type Request struct {
	Template domain.Template
	Configs  []domain.QuestionConfig
	Answers  domain.Answers
	Language string

	// SignatureName is written to the template's signature cell.
	SignatureName string

	// WorksheetPath or SheetName select the worksheet to fill. Both
	// default to the template metadata, then to the first sheet.
	WorksheetPath string
	SheetName     string
}

// Result is the output of GenerateDocument.
type Result struct {
	Document      []byte
	WorksheetPath string
	Calculations  map[string]domain.CalculationResult
	Errors        []domain.ProtocolError
	Report        domain.WriteReport
	Warnings      []mapper.Warning
}

// GenerateDocument fills the template with the answers.
//
// It fails only when the template package cannot be read or rewritten, or
// when no worksheet can be found. Everything else ends up in the Result.
func (e *Engine) GenerateDocument(ctx context.Context, req Request) (res *Result, err error) {
	start := time.Now()
	defer func() { e.metrics.ObserveGeneration(start, err) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta := req.Template.Metadata
	logger := e.logger.With("template_id", meta.ID)

	pkg, err := archive.Open(req.Template.Bytes)
	if err != nil {
		return nil, err
	}
	path, err := e.worksheetPath(pkg, req)
	if err != nil {
		return nil, err
	}
	markup, err := pkg.Read(path)
	if err != nil {
		return nil, err
	}

	values := calculator.MeasurementValues(req.Answers, req.Configs)
	results := e.calculate(logger, req.Configs, values)
	protocolErrors := calculator.ProtocolErrors(req.Configs, values, results, req.Language)

	signatureCell := meta.SignatureCell
	if e.signatureCell != "" {
		signatureCell = e.signatureCell
	}
	writes, warnings := mapper.New(
		mapper.WithLogger(logger),
		mapper.WithSignatureCell(signatureCell),
	).Map(mapper.Input{
		Answers:       req.Answers,
		Configs:       req.Configs,
		Calculated:    results,
		SignatureName: req.SignatureName,
	})

	styles := e.styleFor(meta)
	updated, report := sheetxml.New(
		sheetxml.WithLogger(logger.With("worksheet", path)),
		sheetxml.WithStyleTable(styles),
		sheetxml.WithMergeRedirect(e.mergeRedirect),
	).Apply(string(markup), writes)

	doc, err := pkg.Replace(map[string][]byte{path: []byte(updated)}, archive.WithCompressionLevel(e.compressionLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble document: %w", err)
	}

	e.metrics.ObserveReport(report)
	e.metrics.ObserveWarnings(len(warnings))
	e.metrics.ObserveProtocolErrors(len(protocolErrors))
	logger.Info("document generated",
		"worksheet", path,
		"modified", report.ModifiedCount,
		"skipped", report.SkippedCount,
		"warnings", len(warnings),
		"protocol_errors", len(protocolErrors),
	)

	return &Result{
		Document:      doc,
		WorksheetPath: path,
		Calculations:  results,
		Errors:        protocolErrors,
		Report:        report,
		Warnings:      warnings,
	}, nil
}

func (e *Engine) worksheetPath(pkg *archive.Package, req Request) (string, error) {
	path := req.WorksheetPath
	if path == "" && req.SheetName == "" {
		path = req.Template.Metadata.WorksheetPath
	}
	if path != "" {
		if !pkg.Has(path) {
			return "", fmt.Errorf("%w: %s", domain.ErrWorksheetNotFound, path)
		}
		return path, nil
	}
	name := req.SheetName
	if name == "" {
		name = req.Template.Metadata.SheetName
	}
	return pkg.ResolveWorksheetPath(name)
}

// CalculateDerivedValues evaluates the calculated questions against the given
// measurement values. It is meant for live previews before generation.
// A *calculator.CycleError is returned next to the results when questions
// depend on each other in a cycle.
func (e *Engine) CalculateDerivedValues(configs []domain.QuestionConfig, measurementValues map[string]float64) (map[string]domain.CalculationResult, error) {
	calc := calculator.New(
		calculator.WithLogger(e.logger),
		calculator.WithEvaluator(e.evaluator()),
	)
	results, err := calc.CalculateAll(configs, measurementValues)
	e.metrics.ObserveCalculations(mapValues(results))
	return results, err
}

func (e *Engine) calculate(logger *slog.Logger, configs []domain.QuestionConfig, values map[string]float64) map[string]domain.CalculationResult {
	calc := calculator.New(
		calculator.WithLogger(logger),
		calculator.WithEvaluator(e.evaluator()),
	)
	// A cycle is a configuration error; the affected results are already invalid.
	results, _ := calc.CalculateAll(configs, values)
	e.metrics.ObserveCalculations(mapValues(results))
	return results
}

func (e *Engine) evaluator() *formula.Evaluator {
	if e.rounding == nil {
		return formula.New()
	}
	return formula.New(formula.WithRounding(e.rounding))
}

func mapValues(m map[string]domain.CalculationResult) []domain.CalculationResult {
	out := make([]domain.CalculationResult, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}
