package protocolfill_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/protocolfill"
	"github.com/aretw0/protocolfill/pkg/adapters/file"
	"github.com/aretw0/protocolfill/pkg/adapters/memory"
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Generate(t *testing.T) {
	ctx := context.Background()
	tpl := inspectionTemplate(t)

	templates := memory.NewTemplateStore(&tpl)
	questions := memory.NewQuestionConfigStore()
	require.NoError(t, questions.SaveQuestionConfigs(ctx, tpl.Metadata.ID, inspectionConfigs()))
	errorLog := memory.NewErrorLog()
	outDir := t.TempDir()

	svc := protocolfill.NewService(nil, templates, questions,
		protocolfill.WithErrorSink(errorLog),
		protocolfill.WithDocumentSink(file.NewOutputWriter(outDir)),
	)

	res, err := svc.Generate(ctx, protocolfill.GenerateRequest{
		SessionID:    "session-1",
		TemplateType: "inspection",
		Language:     "en",
		Answers:      inspectionAnswers(),
		OutputName:   "protocol.xlsx",
	})
	require.NoError(t, err)

	logged, err := errorLog.Errors(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, res.Errors, logged)

	stored, err := os.ReadFile(filepath.Join(outDir, "protocol.xlsx"))
	require.NoError(t, err)
	assert.Equal(t, res.Document, stored)
}

func TestService_Generate_Missing(t *testing.T) {
	ctx := context.Background()
	tpl := inspectionTemplate(t)
	svc := protocolfill.NewService(nil, memory.NewTemplateStore(&tpl), memory.NewQuestionConfigStore())

	_, err := svc.Generate(ctx, protocolfill.GenerateRequest{TemplateType: "inspection", Language: "fr"})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = svc.Generate(ctx, protocolfill.GenerateRequest{TemplateType: "inspection", Language: "en"})
	assert.ErrorIs(t, err, domain.ErrConfigsNotFound)
}

func TestService_Preview(t *testing.T) {
	ctx := context.Background()
	tpl := inspectionTemplate(t)
	questions := memory.NewQuestionConfigStore()
	require.NoError(t, questions.SaveQuestionConfigs(ctx, tpl.Metadata.ID, inspectionConfigs()))
	svc := protocolfill.NewService(nil, memory.NewTemplateStore(&tpl), questions)

	results, err := svc.Preview(ctx, "inspection", "en", map[string]float64{"pressure": 4})
	require.NoError(t, err)
	require.NotNil(t, results["drop"].Value)
	assert.Equal(t, 3.0, *results["drop"].Value)
	assert.True(t, results["drop"].IsWithinLimits)
}
