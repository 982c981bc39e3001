package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DecodeQuestion decodes one generic map (from YAML, JSON or a document store)
// into a QuestionConfig. Decoding is weakly typed: "10" becomes 10 and
// "true" becomes true; calculation_inputs may be a comma separated string.
func DecodeQuestion(raw map[string]any) (domain.QuestionConfig, error) {
	var q domain.QuestionConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &q,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToSliceHookFunc(","),
			blankStringHook,
		),
	})
	if err != nil {
		return q, err
	}
	if err := dec.Decode(raw); err != nil {
		return q, fmt.Errorf("decode question %v: %w", raw["question_id"], err)
	}
	for i, in := range q.CalculationInputs {
		q.CalculationInputs[i] = strings.TrimSpace(in)
	}
	q.Type = domain.QuestionType(strings.ToLower(string(q.Type)))
	return q, nil
}

// blankStringHook trims strings and turns blank strings aimed at optional
// (pointer) fields into nil, so `min_value: ""` means "no bound".
// It must run last in the hook chain.
func blankStringHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	s := strings.TrimSpace(data.(string))
	if s == "" && to.Kind() == reflect.Ptr {
		return nil, nil
	}
	return s, nil
}

// DecodeQuestions decodes a list of generic maps.
func DecodeQuestions(raw []map[string]any) ([]domain.QuestionConfig, error) {
	out := make([]domain.QuestionConfig, 0, len(raw))
	var errs []error
	for _, r := range raw {
		q, err := DecodeQuestion(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, q)
	}
	return out, aggregate(errs)
}

// ParseQuestions parses YAML or JSON question definitions. The document is
// either a list of questions or a mapping with a "questions" list.
func ParseQuestions(data []byte) ([]domain.QuestionConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse questions: %w", err)
	}
	var items []any
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	case map[string]any:
		list, ok := v["questions"].([]any)
		if !ok {
			return nil, fmt.Errorf("parse questions: expected a \"questions\" list")
		}
		items = list
	default:
		return nil, fmt.Errorf("parse questions: unexpected document of type %T", doc)
	}

	raw := make([]map[string]any, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parse questions: item %d is %T, not a mapping", i, item)
		}
		raw = append(raw, m)
	}
	return DecodeQuestions(raw)
}

// LoadQuestions reads question definitions from a YAML or JSON file.
func LoadQuestions(path string) ([]domain.QuestionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	qs, err := ParseQuestions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return qs, nil
}
