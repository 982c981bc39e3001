package mapper_test

import (
	"testing"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func w(ref, value string) domain.CellWrite {
	return domain.CellWrite{CellReference: ref, Value: value}
}

func TestMap_YesNoNA(t *testing.T) {
	tests := []struct {
		name   string
		config domain.QuestionConfig
		answer domain.Value
		want   []domain.CellWrite
	}{
		{
			name:   "single cell no",
			config: domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionYesNoNA, CellReference: "A1,B1,C1"},
			answer: domain.StringValue("no"),
			want:   []domain.CellWrite{w("B1", "x")},
		},
		{
			name:   "multi cell yes",
			config: domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionYesNoNA, CellReference: "A1;A2,B1;B2,C1;C2", MultiCell: true},
			answer: domain.StringValue("yes"),
			want:   []domain.CellWrite{w("A1", "x"), w("A2", "x")},
		},
		{
			name:   "single mode uses first cell of group",
			config: domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionYesNoNA, CellReference: "A1;A2,B1;B2,C1;C2"},
			answer: domain.StringValue("NA"),
			want:   []domain.CellWrite{w("C1", "x")},
		},
		{
			name:   "normalizes references",
			config: domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionYesNoNA, CellReference: " a1 , $b$1 , c1 "},
			answer: domain.StringValue("n/a"),
			want:   []domain.CellWrite{w("C1", "x")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := mapper.New().Map(mapper.Input{
				Answers: domain.Answers{"q": tt.answer},
				Configs: []domain.QuestionConfig{tt.config},
			})
			assert.Empty(t, warnings)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMap_MultiCellFanOut(t *testing.T) {
	cfg := domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionYesNoNA, MultiCell: true,
		CellReference: "A1;A2;A3;A4,B1;B2,C1"}
	for answer, n := range map[string]int{"yes": 4, "no": 2, "na": 1} {
		got := mapper.MapAnswers(domain.Answers{"q": domain.StringValue(answer)}, []domain.QuestionConfig{cfg}, nil)
		assert.Len(t, got, n, answer)
		for _, cw := range got {
			assert.Equal(t, "x", cw.Value)
		}
	}
}

func TestMap_YesNoNA_Malformed(t *testing.T) {
	cfg := domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionYesNoNA, CellReference: "A1,B1"}
	got, warnings := mapper.New().Map(mapper.Input{
		Answers: domain.Answers{"q": domain.StringValue("yes")},
		Configs: []domain.QuestionConfig{cfg},
	})
	assert.Equal(t, []domain.CellWrite{w("A1,B1", "yes")}, got)
	require.Len(t, warnings, 1)
	assert.Equal(t, "q", warnings[0].QuestionID)
}

func TestMap_YesNoNA_Unrecognized(t *testing.T) {
	cfg := domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionYesNoNA, CellReference: "A1,B1,C1"}
	got, warnings := mapper.New().Map(mapper.Input{
		Answers: domain.Answers{"q": domain.StringValue("maybe")},
		Configs: []domain.QuestionConfig{cfg},
	})
	assert.Empty(t, got)
	assert.Len(t, warnings, 1)
}

func TestMap_TrueFalse(t *testing.T) {
	cfg := domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionTrueFalse, CellReference: "E7"}
	tests := []struct {
		answer  domain.Value
		want    string
		warning bool
	}{
		{domain.BoolValue(true), "X", false},
		{domain.BoolValue(false), "-", false},
		{domain.StringValue("true"), "X", false},
		{domain.StringValue("No"), "-", false},
		{domain.NumberValue(1), "X", false},
		{domain.StringValue("garbage"), "-", true},
		{domain.NumberValue(7), "-", true},
	}
	for _, tt := range tests {
		got, warnings := mapper.New().Map(mapper.Input{
			Answers: domain.Answers{"q": tt.answer},
			Configs: []domain.QuestionConfig{cfg},
		})
		assert.Equal(t, []domain.CellWrite{w("E7", tt.want)}, got, tt.answer.String())
		assert.Equal(t, tt.warning, len(warnings) == 1, tt.answer.String())
	}
}

func TestMap_TextAndNumbers(t *testing.T) {
	configs := []domain.QuestionConfig{
		{QuestionID: "name", Type: domain.QuestionText, CellReference: "B2"},
		{QuestionID: "count", Type: domain.QuestionNumber, CellReference: "B3", Unit: "pcs"},
		{QuestionID: "length", Type: domain.QuestionMeasurement, CellReference: "B4", Unit: "mm"},
		{QuestionID: "note", Type: domain.QuestionText, CellReference: "B5;C5", MultiCell: true},
		{QuestionID: "empty", Type: domain.QuestionText, CellReference: "B6"},
	}
	answers := domain.Answers{
		"name":   domain.StringValue(`Smith & "Sons" <Ltd>`),
		"count":  domain.NumberValue(1500000),
		"length": domain.StringValue("12,5"),
		"note":   domain.StringValue("ok"),
		"empty":  domain.StringValue(""),
	}
	got, warnings := mapper.New().Map(mapper.Input{Answers: answers, Configs: configs})
	assert.Empty(t, warnings)
	assert.Equal(t, []domain.CellWrite{
		w("B2", `Smith & "Sons" <Ltd>`),
		w("B3", "1500000"),
		w("B4", "12.5"),
		w("B5", "ok"),
		w("C5", "ok"),
	}, got)
}

func TestMap_TypeMismatch(t *testing.T) {
	configs := []domain.QuestionConfig{
		{QuestionID: "n", Type: domain.QuestionNumber, CellReference: "A1"},
		{QuestionID: "t", Type: domain.QuestionText, CellReference: "A2"},
	}
	got, warnings := mapper.New().Map(mapper.Input{
		Answers: domain.Answers{"n": domain.StringValue("twelve"), "t": domain.BoolValue(true)},
		Configs: configs,
	})
	assert.Empty(t, got)
	assert.Len(t, warnings, 2)
}

func TestMap_Calculated(t *testing.T) {
	configs := []domain.QuestionConfig{
		{QuestionID: "sum", Type: domain.QuestionCalculated, CellReference: "F10"},
		{QuestionID: "broken", Type: domain.QuestionCalculated, CellReference: "F11"},
		{QuestionID: "manual", Type: domain.QuestionCalculated, CellReference: "F12"},
	}
	calculated := map[string]domain.CalculationResult{
		"sum":    {QuestionID: "sum", Value: domain.Float(15), IsValid: true, IsWithinLimits: true},
		"broken": {QuestionID: "broken", ErrorReason: "missing input"},
		"manual": {QuestionID: "manual", ErrorReason: "missing input"},
	}
	answers := domain.Answers{"manual": domain.NumberValue(3), "sum": domain.NumberValue(99)}

	got := mapper.MapAnswers(answers, configs, calculated)
	assert.Equal(t, []domain.CellWrite{w("F10", "15"), w("F12", "3")}, got)
}

func TestMap_Signature(t *testing.T) {
	configs := []domain.QuestionConfig{
		{QuestionID: "name", Type: domain.QuestionText, CellReference: "B2"},
	}
	m := mapper.New(mapper.WithSignatureCell("$h$40"))

	got, _ := m.Map(mapper.Input{Configs: configs, SignatureName: "J. Doe"})
	assert.Equal(t, []domain.CellWrite{w("H40", "J. Doe")}, got)

	got, _ = m.Map(mapper.Input{Configs: configs})
	assert.Empty(t, got)

	configs = append(configs, domain.QuestionConfig{QuestionID: "inspector", Type: domain.QuestionText, CellReference: "H40"})
	got, _ = m.Map(mapper.Input{Configs: configs, SignatureName: "J. Doe"})
	assert.Empty(t, got)

	_, warnings := mapper.New().Map(mapper.Input{SignatureName: "J. Doe"})
	assert.Len(t, warnings, 1)
}

func TestMap_InvalidReferenceIsSkipped(t *testing.T) {
	cfg := domain.QuestionConfig{QuestionID: "q", Type: domain.QuestionText, CellReference: "Sheet1!A1"}
	got, warnings := mapper.New().Map(mapper.Input{
		Answers: domain.Answers{"q": domain.StringValue("v")},
		Configs: []domain.QuestionConfig{cfg},
	})
	assert.Empty(t, got)
	assert.Len(t, warnings, 1)
}

func TestMap_UnknownType(t *testing.T) {
	cfg := domain.QuestionConfig{QuestionID: "q", Type: "slider", CellReference: "A1"}
	tests := []struct {
		name     string
		answers  domain.Answers
		warnings int
	}{
		{name: "Answered", answers: domain.Answers{"q": domain.NumberValue(1)}, warnings: 1},
		{name: "Unanswered", answers: domain.Answers{}, warnings: 0},
		{name: "Empty Answer", answers: domain.Answers{"q": domain.StringValue("")}, warnings: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, warnings := mapper.New().Map(mapper.Input{
				Answers: tt.answers,
				Configs: []domain.QuestionConfig{cfg},
			})
			assert.Empty(t, got)
			assert.Len(t, warnings, tt.warnings)
		})
	}
}
