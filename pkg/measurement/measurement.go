// Package measurement validates numeric answers against optional bounds.
package measurement

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
)

// ReasonNotANumber is the verdict reason for NaN and infinite values.
const ReasonNotANumber = "not a number"

// Violation tells which bound a value broke.
type Violation string

const (
	ViolationNone  Violation = ""
	ViolationNaN   Violation = "nan"
	ViolationBelow Violation = "below_min"
	ViolationAbove Violation = "above_max"
)

// Verdict is the result of Validate.
type Verdict struct {
	OK        bool
	Reason    string
	Violation Violation
}

// Validate checks value against the optional min and max bounds.
// Bounds are inclusive. A nil bound is not checked.
func Validate(value float64, min, max *float64) Verdict {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Verdict{Reason: ReasonNotANumber, Violation: ViolationNaN}
	}
	if min != nil && value < *min {
		return Verdict{
			Reason:    fmt.Sprintf("value %s is below minimum %s", domain.FormatNumber(value), domain.FormatNumber(*min)),
			Violation: ViolationBelow,
		}
	}
	if max != nil && value > *max {
		return Verdict{
			Reason:    fmt.Sprintf("value %s is above maximum %s", domain.FormatNumber(value), domain.FormatNumber(*max)),
			Violation: ViolationAbove,
		}
	}
	return Verdict{OK: true}
}

// ValidateConfig validates value against the bounds of q.
func ValidateConfig(value float64, q domain.QuestionConfig) Verdict {
	return Validate(value, q.MinValue, q.MaxValue)
}

// Parse reads a user-entered number. A single decimal comma is accepted
// ("12,5"), surrounding spaces are ignored, and NaN/Inf spellings are rejected.
func Parse(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			continue
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// FromValue extracts a number from an answer value: numbers as is, strings via Parse.
func FromValue(v domain.Value) (float64, bool) {
	if n, ok := v.Number(); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	if s, ok := v.Str(); ok {
		return Parse(s)
	}
	return 0, false
}
