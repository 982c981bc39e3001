package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/measurement"
	"gopkg.in/yaml.v3"
)

// LoadAnswers reads a YAML or JSON object of question id to answer.
// An `answers:` wrapper key is accepted too.
func LoadAnswers(path string) (domain.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers: %w", err)
	}
	return ParseAnswers(data)
}

// ParseAnswers decodes an answers document.
func ParseAnswers(data []byte) (domain.Answers, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse answers: %w", err)
	}
	if inner, ok := raw["answers"].(map[string]any); ok && len(raw) == 1 {
		raw = inner
	}
	return domain.AnswersFrom(raw)
}

// ParseAssignments turns id=value pairs into measurement values.
// Values may use a decimal comma.
func ParseAssignments(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		id, value, ok := strings.Cut(p, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid assignment %q: want id=value", p)
		}
		v, ok := measurement.Parse(value)
		if !ok {
			return nil, fmt.Errorf("invalid value for %s: %q is not a number", id, value)
		}
		out[id] = v
	}
	return out, nil
}
