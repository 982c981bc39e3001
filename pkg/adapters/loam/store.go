// Package loam stores question configurations as Markdown documents in a
// Loam repository. Each question is one document whose frontmatter carries
// the config plus the owning template id and its position in the list:
//
//	---
//	template_id: inspection-v3
//	order: 2
//	question_id: pressure
//	type: measurement
//	cell_reference: D12
//	min_value: 2
//	max_value: 6.5
//	---
//	Pressure at the inlet
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/protocolfill/pkg/config"
	"github.com/aretw0/protocolfill/pkg/domain"
)

// Store adapts a Loam repository to the QuestionConfigStore port.
type Store struct {
	repo  core.Repository
	typed *loam.TypedRepository[QuestionMetadata]
}

// New wraps an initialized repository.
func New(repo core.Repository) *Store {
	return &Store{
		repo:  repo,
		typed: loam.NewTypedRepository[QuestionMetadata](repo),
	}
}

// Open initializes a read-only strict repository at path.
// Strict mode keeps numbers as json.Number across the JSON and YAML adapters.
func Open(path string, opts ...loam.Option) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	opts = append([]loam.Option{loam.WithStrict(true), loam.WithReadOnly(true)}, opts...)
	repo, err := loam.Init(absPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(repo), nil
}

type entry struct {
	order  int
	id     string
	config domain.QuestionConfig
}

// GetQuestionConfigsByTemplate lists the repository and keeps the documents
// of templateID, sorted by their order field.
func (s *Store) GetQuestionConfigsByTemplate(ctx context.Context, templateID string) ([]domain.QuestionConfig, error) {
	docs, err := s.typed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var entries []entry
	for _, doc := range docs {
		if doc.Data.TemplateID != templateID {
			continue
		}
		q, err := config.DecodeQuestion(doc.Data.raw())
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		if q.Label == "" {
			q.Label = strings.TrimSpace(doc.Content)
		}
		entries = append(entries, entry{order: doc.Data.position(), id: doc.ID, config: q})
	}
	if len(entries) == 0 {
		return nil, domain.ErrConfigsNotFound
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].id < entries[j].id
	})

	out := make([]domain.QuestionConfig, len(entries))
	for i, e := range entries {
		out[i] = e.config
	}
	return out, nil
}

// SaveQuestionConfigs writes one document per question. The label, when
// present, becomes the document body.
func (s *Store) SaveQuestionConfigs(ctx context.Context, templateID string, configs []domain.QuestionConfig) error {
	for i, q := range configs {
		doc := core.Document{
			ID:       DocumentID(templateID, q.QuestionID),
			Content:  q.Label,
			Metadata: core.Metadata(frontmatter(templateID, i, q)),
		}
		if err := s.repo.Save(ctx, doc); err != nil {
			return fmt.Errorf("failed to save question %s: %w", q.QuestionID, err)
		}
	}
	return nil
}

// DocumentID is the file name used for a question of a template.
func DocumentID(templateID, questionID string) string {
	return templateID + "__" + questionID + ".md"
}
