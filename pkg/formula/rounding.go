package formula

import (
	"fmt"
	"math"
	"strings"
)

// Rounding is applied to every successful evaluation result.
type Rounding func(float64) float64

var (
	// RoundNearest rounds halves toward positive infinity (2.5 -> 3, -2.5 -> -2).
	RoundNearest Rounding = roundHalfUp
	// RoundHalfEven rounds halves to the nearest even integer.
	RoundHalfEven Rounding = math.RoundToEven
	// NoRounding returns the value unchanged.
	NoRounding Rounding = func(v float64) float64 { return v }
)

// RoundTo rounds to the given number of decimal places using RoundNearest.
func RoundTo(places int) Rounding {
	if places <= 0 {
		return RoundNearest
	}
	scale := math.Pow(10, float64(places))
	return func(v float64) float64 {
		scaled := v * scale
		if math.IsInf(scaled, 0) {
			return v
		}
		return roundHalfUp(scaled) / scale
	}
}

// roundHalfUp rounds halves toward positive infinity. v-floor(v) is exact,
// unlike v+0.5, so whole numbers and values just below a half are kept.
func roundHalfUp(v float64) float64 {
	f := math.Floor(v)
	if v-f >= 0.5 {
		f++
	}
	return f
}

// ParseRounding maps a settings name to a Rounding policy.
// Accepted: "", "nearest", "half_even", "none", "places:N".
func ParseRounding(name string) (Rounding, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "nearest":
		return RoundNearest, nil
	case "half_even":
		return RoundHalfEven, nil
	case "none":
		return NoRounding, nil
	}
	var places int
	if _, err := fmt.Sscanf(name, "places:%d", &places); err == nil && places >= 0 {
		return RoundTo(places), nil
	}
	return nil, fmt.Errorf("unknown rounding policy %q", name)
}
