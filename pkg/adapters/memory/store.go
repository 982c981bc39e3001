package memory

import (
	"context"
	"sync"

	"github.com/aretw0/protocolfill/pkg/domain"
)

// TemplateStore implements ports.TemplateStore in memory.
// Safe for concurrent use.
type TemplateStore struct {
	data map[string]*domain.Template
	mu   sync.RWMutex
}

// NewTemplateStore creates an empty in-memory template store.
func NewTemplateStore(templates ...*domain.Template) *TemplateStore {
	s := &TemplateStore{data: make(map[string]*domain.Template)}
	for _, tpl := range templates {
		s.put(tpl)
	}
	return s
}

func templateKey(templateType, language string) string {
	return templateType + "\x00" + language
}

func (s *TemplateStore) put(tpl *domain.Template) {
	// Deep copy to ensure isolation, similar to serialization
	c := tpl.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[templateKey(c.Metadata.Type, c.Metadata.Language)] = c
}

// SaveTemplate makes tpl the active template for its type and language.
func (s *TemplateStore) SaveTemplate(ctx context.Context, tpl *domain.Template) error {
	s.put(tpl)
	return nil
}

// GetActiveTemplate returns a copy of the active template.
func (s *TemplateStore) GetActiveTemplate(ctx context.Context, templateType, language string) (*domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tpl, ok := s.data[templateKey(templateType, language)]
	if !ok {
		return nil, domain.ErrTemplateNotFound
	}
	// Copy on read so callers can't mutate the store through the pointer
	return tpl.Clone(), nil
}

// QuestionConfigStore implements ports.QuestionConfigStore in memory.
// Safe for concurrent use.
type QuestionConfigStore struct {
	data map[string][]domain.QuestionConfig
	mu   sync.RWMutex
}

// NewQuestionConfigStore creates an empty in-memory question config store.
func NewQuestionConfigStore() *QuestionConfigStore {
	return &QuestionConfigStore{data: make(map[string][]domain.QuestionConfig)}
}

// SaveQuestionConfigs replaces the configs of a template.
func (s *QuestionConfigStore) SaveQuestionConfigs(ctx context.Context, templateID string, configs []domain.QuestionConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[templateID] = cloneConfigs(configs)
	return nil
}

// GetQuestionConfigsByTemplate returns a copy of the configs of a template.
func (s *QuestionConfigStore) GetQuestionConfigsByTemplate(ctx context.Context, templateID string) ([]domain.QuestionConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configs, ok := s.data[templateID]
	if !ok || len(configs) == 0 {
		return nil, domain.ErrConfigsNotFound
	}
	return cloneConfigs(configs), nil
}

func cloneConfigs(in []domain.QuestionConfig) []domain.QuestionConfig {
	out := make([]domain.QuestionConfig, len(in))
	for i, q := range in {
		if q.MinValue != nil {
			q.MinValue = domain.Float(*q.MinValue)
		}
		if q.MaxValue != nil {
			q.MaxValue = domain.Float(*q.MaxValue)
		}
		if q.CalculationInputs != nil {
			q.CalculationInputs = append([]string(nil), q.CalculationInputs...)
		}
		out[i] = q
	}
	return out
}
