package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/protocolfill/pkg/config"
	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionsYAML = `
# inspection protocol
questions:
  - question_id: pressure
    type: measurement
    cell_reference: D12
    unit: bar
    min_value: "2"
    max_value: 6.5
  - question_id: drop
    type: Calculated
    cell_reference: $D$13
    calculation_formula: "pressure - 1"
    calculation_inputs: "pressure"
    min_value: ""
  - question_id: valve_ok
    type: yes_no_na
    cell_reference: "A20;A21,B20;B21,C20;C21"
    multi_cell: "true"
`

func TestParseQuestions(t *testing.T) {
	qs, err := config.ParseQuestions([]byte(questionsYAML))
	require.NoError(t, err)
	require.Len(t, qs, 3)

	assert.Equal(t, domain.QuestionMeasurement, qs[0].Type)
	require.NotNil(t, qs[0].MinValue)
	assert.Equal(t, 2.0, *qs[0].MinValue)
	assert.Equal(t, 6.5, *qs[0].MaxValue)
	assert.Equal(t, "bar", qs[0].Unit)

	assert.Equal(t, domain.QuestionCalculated, qs[1].Type)
	assert.Equal(t, []string{"pressure"}, qs[1].CalculationInputs)
	assert.Nil(t, qs[1].MinValue)

	assert.True(t, qs[2].MultiCell)
	assert.NoError(t, config.Validate(qs))
}

func TestParseQuestions_List(t *testing.T) {
	qs, err := config.ParseQuestions([]byte(`[{"question_id": "a", "type": "text", "cell_reference": "A1"}]`))
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "A1", qs[0].CellReference)

	_, err = config.ParseQuestions([]byte(`questions: 3`))
	assert.Error(t, err)
}

func TestLoadQuestions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(questionsYAML), 0o644))
	qs, err := config.LoadQuestions(path)
	require.NoError(t, err)
	assert.Len(t, qs, 3)

	_, err = config.LoadQuestions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	configs := []domain.QuestionConfig{
		{QuestionID: "", Type: domain.QuestionText, CellReference: "A1"},
		{QuestionID: "dup", Type: domain.QuestionText, CellReference: "A1"},
		{QuestionID: "dup", Type: domain.QuestionText, CellReference: "A2"},
		{QuestionID: "kind", Type: "slider", CellReference: "A3"},
		{QuestionID: "ynn", Type: domain.QuestionYesNoNA, CellReference: "A4,B4"},
		{QuestionID: "badref", Type: domain.QuestionText, CellReference: "4A"},
		{QuestionID: "bounds", Type: domain.QuestionMeasurement, CellReference: "A5", MinValue: domain.Float(5), MaxValue: domain.Float(1)},
		{QuestionID: "nof", Type: domain.QuestionCalculated, CellReference: "A6"},
		{QuestionID: "undeclared", Type: domain.QuestionCalculated, CellReference: "A7", CalculationFormula: "bounds + x", CalculationInputs: []string{"bounds"}},
		{QuestionID: "unknown_input", Type: domain.QuestionCalculated, CellReference: "A8", CalculationFormula: "ghost", CalculationInputs: []string{"ghost"}},
		{QuestionID: "text_input", Type: domain.QuestionCalculated, CellReference: "A9", CalculationFormula: "badref", CalculationInputs: []string{"badref"}},
		{QuestionID: "syntax", Type: domain.QuestionCalculated, CellReference: "A10", CalculationFormula: "bounds +", CalculationInputs: []string{"bounds"}},
		{QuestionID: "c1", Type: domain.QuestionCalculated, CellReference: "A11", CalculationFormula: "c2", CalculationInputs: []string{"c2"}},
		{QuestionID: "c2", Type: domain.QuestionCalculated, CellReference: "A12", CalculationFormula: "c1", CalculationInputs: []string{"c1"}},
	}
	err := config.Validate(configs)
	require.Error(t, err)

	byQuestion := make(map[string][]string)
	for _, e := range config.ValidationErrors(err) {
		var ve *config.ValidationError
		require.ErrorAs(t, e, &ve)
		byQuestion[ve.QuestionID] = append(byQuestion[ve.QuestionID], ve.Field)
	}
	assert.Contains(t, byQuestion[""], "question_id")
	assert.Contains(t, byQuestion["dup"], "question_id")
	assert.Contains(t, byQuestion["kind"], "type")
	assert.Contains(t, byQuestion["ynn"], "cell_reference")
	assert.Contains(t, byQuestion["badref"], "cell_reference")
	assert.Contains(t, byQuestion["bounds"], "min_value")
	assert.Contains(t, byQuestion["nof"], "calculation_formula")
	assert.Contains(t, byQuestion["undeclared"], "calculation_formula")
	assert.Contains(t, byQuestion["unknown_input"], "calculation_inputs")
	assert.Contains(t, byQuestion["text_input"], "calculation_inputs")
	assert.Contains(t, byQuestion["syntax"], "calculation_formula")
	assert.Contains(t, byQuestion["c1"], "calculation_inputs")
	assert.Contains(t, byQuestion["c2"], "calculation_inputs")
}

func TestValidate_CycleMembersAllReported(t *testing.T) {
	configs := []domain.QuestionConfig{
		{QuestionID: "x", Type: domain.QuestionCalculated, CellReference: "A1", CalculationFormula: "y + z", CalculationInputs: []string{"y", "z"}},
		{QuestionID: "y", Type: domain.QuestionCalculated, CellReference: "A2", CalculationFormula: "x", CalculationInputs: []string{"x"}},
		{QuestionID: "z", Type: domain.QuestionCalculated, CellReference: "A3", CalculationFormula: "y", CalculationInputs: []string{"y"}},
	}
	err := config.Validate(configs)
	require.Error(t, err)

	flagged := make(map[string]bool)
	for _, e := range config.ValidationErrors(err) {
		var ve *config.ValidationError
		require.ErrorAs(t, e, &ve)
		flagged[ve.QuestionID] = true
	}
	assert.Equal(t, map[string]bool{"x": true, "y": true, "z": true}, flagged)
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
signature_cell: H40
default_style: "5"
style_bands:
  - {from_row: 25, to_row: 34, style: "61"}
rounding: half_even
compression_level: 9
redis:
  addr: localhost:6379
  ttl: 30s
`), 0o644))

	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "text", s.LogFormat)
	assert.Equal(t, 30*time.Second, s.Redis.TTL)
	assert.Equal(t, "protocolfill:", s.Redis.Prefix)
	require.NotNil(t, s.CompressionLevel)
	assert.Equal(t, 9, *s.CompressionLevel)

	table := s.StyleTable(domain.TemplateMetadata{StyleBands: []domain.StyleBand{{FromRow: 30, ToRow: 31, Style: "7"}}})
	style, ok := table.StyleFor(30)
	assert.True(t, ok)
	assert.Equal(t, "7", style)
	style, _ = table.StyleFor(26)
	assert.Equal(t, "61", style)
	style, _ = table.StyleFor(1)
	assert.Equal(t, "5", style)

	missing, err := config.LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), missing)
}

func TestSettingsValidate(t *testing.T) {
	level := 42
	s := config.DefaultSettings()
	s.LogLevel = "loud"
	s.Rounding = "ceil"
	s.CompressionLevel = &level
	s.SignatureCell = "nowhere"
	s.StyleBands = []domain.StyleBand{{FromRow: 10, ToRow: 2}}

	err := s.Validate()
	require.Error(t, err)
	assert.Len(t, config.ValidationErrors(err), 6)
}
