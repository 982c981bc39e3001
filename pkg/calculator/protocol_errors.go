package calculator

import (
	"fmt"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
	"github.com/aretw0/protocolfill/pkg/measurement"
	"github.com/google/uuid"
)

type messages struct {
	title string
	below string
	above string
}

var catalog = map[string]messages{
	"en": {
		title: "%s out of range",
		below: "Value %s%s is below the minimum of %s%s.",
		above: "Value %s%s exceeds the maximum of %s%s.",
	},
	"de": {
		title: "%s außerhalb des Grenzbereichs",
		below: "Der Wert %s%s unterschreitet den Mindestwert von %s%s.",
		above: "Der Wert %s%s überschreitet den Höchstwert von %s%s.",
	},
}

func messagesFor(language string) messages {
	lang := strings.ToLower(strings.TrimSpace(language))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog["en"]
}

// ErrorID derives a stable protocol error id from the question id,
// so a regenerated document reports the same error under the same id.
func ErrorID(questionID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("protocolfill/"+questionID)).String()
}

// ProtocolErrors builds critical protocol errors for every bound violation:
// calculated results that are valid but outside their limits, and measurement
// answers outside the bounds of their question. Output follows configs order.
func ProtocolErrors(configs []domain.QuestionConfig, measurementValues map[string]float64, results map[string]domain.CalculationResult, language string) []domain.ProtocolError {
	msgs := messagesFor(language)
	var out []domain.ProtocolError
	for _, q := range configs {
		var value float64
		switch q.Type {
		case domain.QuestionCalculated:
			r, ok := results[q.QuestionID]
			if !ok || !r.IsValid || r.IsWithinLimits {
				continue
			}
			value = *r.Value
		case domain.QuestionMeasurement:
			v, ok := measurementValues[q.QuestionID]
			if !ok {
				continue
			}
			value = v
		default:
			continue
		}
		if !q.HasBounds() {
			continue
		}
		verdict := measurement.ValidateConfig(value, q)
		if verdict.OK {
			continue
		}
		out = append(out, newProtocolError(q, value, verdict, msgs))
	}
	return out
}

func newProtocolError(q domain.QuestionConfig, value float64, verdict measurement.Verdict, msgs messages) domain.ProtocolError {
	unit := ""
	if q.Unit != "" {
		unit = " " + q.Unit
	}
	var desc string
	switch verdict.Violation {
	case measurement.ViolationBelow:
		desc = fmt.Sprintf(msgs.below, domain.FormatNumber(value), unit, domain.FormatNumber(*q.MinValue), unit)
	case measurement.ViolationAbove:
		desc = fmt.Sprintf(msgs.above, domain.FormatNumber(value), unit, domain.FormatNumber(*q.MaxValue), unit)
	default:
		desc = verdict.Reason
	}
	return domain.ProtocolError{
		ID:          ErrorID(q.QuestionID),
		QuestionID:  q.QuestionID,
		Title:       fmt.Sprintf(msgs.title, q.DisplayName()),
		Description: desc,
		Severity:    domain.SeverityCritical,
		Images:      []string{},
	}
}
