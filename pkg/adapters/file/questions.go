package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/protocolfill/pkg/config"
	"github.com/aretw0/protocolfill/pkg/domain"
	"gopkg.in/yaml.v3"
)

func (s *Store) questionsDir() string {
	return filepath.Join(s.BasePath, "questions")
}

// GetQuestionConfigsByTemplate reads questions/<templateID>.yaml.
func (s *Store) GetQuestionConfigsByTemplate(ctx context.Context, templateID string) ([]domain.QuestionConfig, error) {
	if templateID == "" || templateID != filepath.Base(templateID) {
		return nil, fmt.Errorf("%w: invalid template id %q", domain.ErrConfigsNotFound, templateID)
	}
	path := filepath.Join(s.questionsDir(), templateID+".yaml")
	configs, err := config.LoadQuestions(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrConfigsNotFound
		}
		return nil, err
	}
	if len(configs) == 0 {
		return nil, domain.ErrConfigsNotFound
	}
	return configs, nil
}

// SaveQuestionConfigs writes the configs of a template as YAML.
func (s *Store) SaveQuestionConfigs(ctx context.Context, templateID string, configs []domain.QuestionConfig) error {
	data, err := yaml.Marshal(map[string]any{"questions": configs})
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	return writeAtomic(s.questionsDir(), templateID+".yaml", data)
}
