package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TemplateSeeder stores a template in the backend under test.
type TemplateSeeder func(t *testing.T, tpl *domain.Template)

// QuestionSeeder stores the configs of one template in the backend under test.
type QuestionSeeder func(t *testing.T, templateID string, configs []domain.QuestionConfig)

// RunTemplateStoreContract verifies that a TemplateStore adheres to the port contract.
func RunTemplateStoreContract(t *testing.T, store TemplateStore, seed TemplateSeeder) {
	ctx := context.Background()
	suffix := time.Now().Format("20060102150405.000")
	kind := "inspection-" + suffix

	en := &domain.Template{
		Metadata: domain.TemplateMetadata{
			ID: "tpl-en-" + suffix, Type: kind, Language: "en", Name: "Inspection",
			WorksheetPath: "xl/worksheets/sheet1.xml", SignatureCell: "H40",
			StyleBands:   []domain.StyleBand{{FromRow: 25, ToRow: 34, Style: "61"}},
			DefaultStyle: "5",
		},
		Bytes: []byte("PK-en"),
	}
	de := &domain.Template{
		Metadata: domain.TemplateMetadata{ID: "tpl-de-" + suffix, Type: kind, Language: "de", Name: "Prüfprotokoll"},
		Bytes:    []byte("PK-de"),
	}
	seed(t, en)
	seed(t, de)

	t.Run("Get by type and language", func(t *testing.T) {
		got, err := store.GetActiveTemplate(ctx, kind, "en")
		require.NoError(t, err)
		assert.Equal(t, en.Metadata, got.Metadata)
		assert.Equal(t, en.Bytes, got.Bytes)

		got, err = store.GetActiveTemplate(ctx, kind, "de")
		require.NoError(t, err)
		assert.Equal(t, de.Metadata.ID, got.Metadata.ID)
		assert.Equal(t, de.Bytes, got.Bytes)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := store.GetActiveTemplate(ctx, kind, "fr")
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

		_, err = store.GetActiveTemplate(ctx, "unknown-"+suffix, "en")
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})

	t.Run("Caller owns the bytes", func(t *testing.T) {
		got, err := store.GetActiveTemplate(ctx, kind, "en")
		require.NoError(t, err)
		got.Bytes[0] = 'X'

		again, err := store.GetActiveTemplate(ctx, kind, "en")
		require.NoError(t, err)
		assert.Equal(t, en.Bytes, again.Bytes)
	})
}

// RunQuestionConfigStoreContract verifies that a QuestionConfigStore adheres to the port contract.
func RunQuestionConfigStoreContract(t *testing.T, store QuestionConfigStore, seed QuestionSeeder) {
	ctx := context.Background()
	templateID := "tpl-" + time.Now().Format("20060102150405.000")

	configs := []domain.QuestionConfig{
		{QuestionID: "valve", Type: domain.QuestionYesNoNA, CellReference: "A20;A21,B20;B21,C20;C21", MultiCell: true, Label: "Valve ok"},
		{QuestionID: "pressure", Type: domain.QuestionMeasurement, CellReference: "D12", Unit: "bar", MinValue: domain.Float(2), MaxValue: domain.Float(6.5)},
		{QuestionID: "drop", Type: domain.QuestionCalculated, CellReference: "D13", CalculationFormula: "pressure - 1", CalculationInputs: []string{"pressure"}},
		{QuestionID: "notes", Type: domain.QuestionText, CellReference: "B50"},
	}
	seed(t, templateID, configs)
	seed(t, templateID+"-other", []domain.QuestionConfig{{QuestionID: "other", Type: domain.QuestionText, CellReference: "A1"}})

	t.Run("Get in declaration order", func(t *testing.T) {
		got, err := store.GetQuestionConfigsByTemplate(ctx, templateID)
		require.NoError(t, err)
		assert.Equal(t, configs, got)
	})

	t.Run("Templates are isolated", func(t *testing.T) {
		got, err := store.GetQuestionConfigsByTemplate(ctx, templateID+"-other")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "other", got[0].QuestionID)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := store.GetQuestionConfigsByTemplate(ctx, "missing-"+templateID)
		assert.ErrorIs(t, err, domain.ErrConfigsNotFound)
	})
}

// RunErrorLogContract verifies that an ErrorLog adheres to the port contract.
func RunErrorLogContract(t *testing.T, log ErrorLog) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405.000")

	first := domain.ProtocolError{ID: "e1", QuestionID: "pressure", Title: "Pressure out of range", Description: "Value 8 exceeds the maximum of 6.", Severity: domain.SeverityCritical, Images: []string{}}
	second := domain.ProtocolError{ID: "e2", QuestionID: "drop", Title: "Drop out of range", Severity: domain.SeverityCritical, Images: []string{"img/1.png"}}

	t.Run("Report and read back", func(t *testing.T) {
		require.NoError(t, log.Report(ctx, sessionID, []domain.ProtocolError{first}))
		require.NoError(t, log.Report(ctx, sessionID, []domain.ProtocolError{second}))
		require.NoError(t, log.Report(ctx, sessionID+"-other", []domain.ProtocolError{second}))

		got, err := log.Errors(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, []domain.ProtocolError{first, second}, got)
	})

	t.Run("Empty report is a no-op", func(t *testing.T) {
		require.NoError(t, log.Report(ctx, sessionID+"-empty", nil))
		got, err := log.Errors(ctx, sessionID+"-empty")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Unknown session", func(t *testing.T) {
		got, err := log.Errors(ctx, "unknown-"+sessionID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
