package testutils

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// QuestionDoc is one question document of a loam question repository:
// frontmatter holds the question config, the body is its label.
type QuestionDoc struct {
	ID    string
	Meta  map[string]any
	Label string
}

// Content renders the document as frontmatter plus body.
func (d QuestionDoc) Content(t testing.TB) string {
	t.Helper()
	meta, err := yaml.Marshal(d.Meta)
	require.NoError(t, err, "failed to render frontmatter of %s", d.ID)
	return "---\n" + string(meta) + "---\n" + d.Label
}

// SetupQuestionRepo initializes an unversioned loam repository in a temp dir
// and seeds it with docs. Options are applied after the defaults.
func SetupQuestionRepo(t *testing.T, docs []QuestionDoc, opts ...loam.Option) core.Repository {
	t.Helper()

	dir, err := filepath.Abs(t.TempDir())
	require.NoError(t, err)

	repo, err := loam.Init(dir, append([]loam.Option{loam.WithVersioning(false)}, opts...)...)
	require.NoError(t, err, "failed to init question repository")

	SeedQuestions(t, repo, docs...)
	return repo
}

// SeedQuestions saves docs into repo.
func SeedQuestions(t *testing.T, repo core.Repository, docs ...QuestionDoc) {
	t.Helper()
	ctx := context.Background()
	for _, d := range docs {
		require.NoError(t, repo.Save(ctx, core.Document{ID: d.ID, Content: d.Content(t)}), "failed to seed %s", d.ID)
	}
}
