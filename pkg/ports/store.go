package ports

import (
	"context"

	"github.com/aretw0/protocolfill/pkg/domain"
)

// TemplateStore supplies document templates.
type TemplateStore interface {
	// GetActiveTemplate returns the active template for a template type and language.
	// Returns domain.ErrTemplateNotFound if there is none.
	// The returned template is owned by the caller.
	GetActiveTemplate(ctx context.Context, templateType, language string) (*domain.Template, error)
}

// QuestionConfigStore supplies question configurations.
type QuestionConfigStore interface {
	// GetQuestionConfigsByTemplate returns the configs of a template in declaration order.
	// Returns domain.ErrConfigsNotFound if the template has none.
	GetQuestionConfigsByTemplate(ctx context.Context, templateID string) ([]domain.QuestionConfig, error)
}

// ErrorSink receives protocol errors. The engine only constructs them; what
// the sink does with them (persist, notify) is up to the implementation.
type ErrorSink interface {
	Report(ctx context.Context, sessionID string, errs []domain.ProtocolError) error
}

// ErrorLog is an ErrorSink that can be read back.
type ErrorLog interface {
	ErrorSink
	// Errors returns the errors reported for a session in report order.
	// An unknown session yields an empty list.
	Errors(ctx context.Context, sessionID string) ([]domain.ProtocolError, error)
}

// DocumentSink persists generated documents.
type DocumentSink interface {
	WriteDocument(ctx context.Context, name string, data []byte) error
}
