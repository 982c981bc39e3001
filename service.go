package protocolfill

import (
	"context"
	"fmt"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/ports"
)

// Service composes the Engine with the stores it reads from and the sinks
// it writes to.
type Service struct {
	engine    *Engine
	templates ports.TemplateStore
	questions ports.QuestionConfigStore
	errors    ports.ErrorSink
	documents ports.DocumentSink
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithErrorSink forwards protocol errors of every generation to sink.
func WithErrorSink(sink ports.ErrorSink) ServiceOption {
	return func(s *Service) {
		s.errors = sink
	}
}

// WithDocumentSink stores generated documents in sink.
func WithDocumentSink(sink ports.DocumentSink) ServiceOption {
	return func(s *Service) {
		s.documents = sink
	}
}

// NewService creates a Service. A nil engine gets the defaults.
func NewService(engine *Engine, templates ports.TemplateStore, questions ports.QuestionConfigStore, opts ...ServiceOption) *Service {
	if engine == nil {
		engine = New()
	}
	s := &Service{
		engine:    engine,
		templates: templates,
		questions: questions,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateRequest selects a template by type and language and carries the
// answers of one questionnaire session.
type GenerateRequest struct {
	SessionID     string
	TemplateType  string
	Language      string
	Answers       domain.Answers
	SignatureName string

	// OutputName is the document name handed to the DocumentSink.
	// Empty skips storing the document.
	OutputName string
}

// Generate loads the active template and its configs, fills the template,
// reports protocol errors and stores the document.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*Result, error) {
	tpl, err := s.templates.GetActiveTemplate(ctx, req.TemplateType, req.Language)
	if err != nil {
		return nil, fmt.Errorf("template %s/%s: %w", req.TemplateType, req.Language, err)
	}
	configs, err := s.questions.GetQuestionConfigsByTemplate(ctx, tpl.Metadata.ID)
	if err != nil {
		return nil, fmt.Errorf("questions of template %s: %w", tpl.Metadata.ID, err)
	}

	res, err := s.engine.GenerateDocument(ctx, Request{
		Template:      *tpl,
		Configs:       configs,
		Answers:       req.Answers,
		Language:      req.Language,
		SignatureName: req.SignatureName,
	})
	if err != nil {
		return nil, err
	}

	if s.errors != nil && len(res.Errors) > 0 {
		if err := s.errors.Report(ctx, req.SessionID, res.Errors); err != nil {
			return nil, fmt.Errorf("failed to report protocol errors: %w", err)
		}
	}
	if s.documents != nil && req.OutputName != "" {
		if err := s.documents.WriteDocument(ctx, req.OutputName, res.Document); err != nil {
			return nil, fmt.Errorf("failed to store document: %w", err)
		}
	}
	return res, nil
}

// Preview evaluates the calculated questions of the active template against
// measurement values, without touching the document.
func (s *Service) Preview(ctx context.Context, templateType, language string, measurementValues map[string]float64) (map[string]domain.CalculationResult, error) {
	tpl, err := s.templates.GetActiveTemplate(ctx, templateType, language)
	if err != nil {
		return nil, fmt.Errorf("template %s/%s: %w", templateType, language, err)
	}
	configs, err := s.questions.GetQuestionConfigsByTemplate(ctx, tpl.Metadata.ID)
	if err != nil {
		return nil, fmt.Errorf("questions of template %s: %w", tpl.Metadata.ID, err)
	}
	return s.engine.CalculateDerivedValues(configs, measurementValues)
}
