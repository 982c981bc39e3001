// Package file implements the ports on the local filesystem.
//
// Layout of a template directory:
//
//	templates.yaml            manifest of templates (metadata + file name)
//	<file>.xlsx               template packages
//	questions/<template>.yaml question configs per template id
//	errors/<session>.jsonl    reported protocol errors
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/protocolfill/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ManifestName is the template manifest file inside the base directory.
const ManifestName = "templates.yaml"

// ManifestEntry is one template in the manifest.
type ManifestEntry struct {
	domain.TemplateMetadata `yaml:",inline"`
	File                    string `yaml:"file"`
	// Active defaults to true. When several active entries share a type and
	// language, the last one wins.
	Active *bool `yaml:"active,omitempty"`
}

func (e ManifestEntry) active() bool {
	return e.Active == nil || *e.Active
}

// Manifest is the content of templates.yaml.
type Manifest struct {
	Templates []ManifestEntry `yaml:"templates"`
}

// Store implements ports.TemplateStore, ports.QuestionConfigStore and
// ports.ErrorLog on a directory.
type Store struct {
	BasePath string
	mu       sync.Mutex // serializes manifest updates and error appends
}

// New creates a Store rooted at basePath.
// If basePath is empty, it defaults to "templates".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "templates"
	}
	return &Store{BasePath: basePath}
}

// LoadManifest reads templates.yaml. A missing manifest is empty.
func (s *Store) LoadManifest() (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(s.BasePath, ManifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

// GetActiveTemplate reads the active template for a type and language.
func (s *Store) GetActiveTemplate(ctx context.Context, templateType, language string) (*domain.Template, error) {
	m, err := s.LoadManifest()
	if err != nil {
		return nil, err
	}
	var found *ManifestEntry
	for i := range m.Templates {
		e := &m.Templates[i]
		if e.Type == templateType && e.Language == language && e.active() {
			found = e
		}
	}
	if found == nil {
		return nil, domain.ErrTemplateNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.BasePath, found.File))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: manifest names missing file %s", domain.ErrTemplateNotFound, found.File)
		}
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return &domain.Template{Metadata: found.TemplateMetadata, Bytes: data}, nil
}

// SaveTemplate writes the template package and makes it the active entry for
// its type and language. Other entries of the same type and language are
// deactivated.
func (s *Store) SaveTemplate(ctx context.Context, tpl *domain.Template) error {
	if tpl.Metadata.ID == "" {
		return fmt.Errorf("template id cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	name := tpl.Metadata.ID + ".xlsx"
	if err := writeAtomic(s.BasePath, name, tpl.Bytes); err != nil {
		return err
	}

	m, err := s.LoadManifest()
	if err != nil {
		return err
	}
	inactive := false
	entries := m.Templates[:0]
	for _, e := range m.Templates {
		if e.ID == tpl.Metadata.ID {
			continue
		}
		if e.Type == tpl.Metadata.Type && e.Language == tpl.Metadata.Language {
			e.Active = &inactive
		}
		entries = append(entries, e)
	}
	m.Templates = append(entries, ManifestEntry{TemplateMetadata: tpl.Metadata, File: name})

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return writeAtomic(s.BasePath, ManifestName, data)
}
