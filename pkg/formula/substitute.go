package formula

import (
	"math"
	"sort"
	"strings"

	"github.com/aretw0/protocolfill/pkg/domain"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Substitute replaces every bound name in formula with its value.
//
// Names match whole tokens only: "a" does not match inside "ab" or "a1".
// Longer names are tried first so "ab" wins over "a" at the same position.
// Negative values are parenthesized so "x-y" with y=-2 stays well formed.
func Substitute(formula string, bindings map[string]float64) (string, error) {
	names := make([]string, 0, len(bindings))
	for name, v := range bindings {
		if name == "" {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", newError(ErrMissingBinding, formula, "%s is not a finite number", name)
		}
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	var b strings.Builder
	b.Grow(len(formula))
	for i := 0; i < len(formula); {
		if i > 0 && isIdentChar(formula[i-1]) && isIdentChar(formula[i]) {
			b.WriteByte(formula[i])
			i++
			continue
		}
		matched := ""
		for _, name := range names {
			if !strings.HasPrefix(formula[i:], name) {
				continue
			}
			end := i + len(name)
			if end < len(formula) && isIdentChar(formula[end]) && isIdentChar(name[len(name)-1]) {
				continue
			}
			matched = name
			break
		}
		if matched == "" {
			b.WriteByte(formula[i])
			i++
			continue
		}
		b.WriteString(literal(bindings[matched]))
		i += len(matched)
	}
	return b.String(), nil
}

func literal(v float64) string {
	s := domain.FormatNumber(v)
	if v < 0 {
		return "(" + s + ")"
	}
	return s
}

// References returns the identifiers used in formula, in order of first appearance.
func References(formula string) []string {
	var refs []string
	seen := make(map[string]bool)
	for i := 0; i < len(formula); {
		c := formula[i]
		if !isIdentStart(c) || (i > 0 && isIdentChar(formula[i-1])) {
			i++
			continue
		}
		j := i + 1
		for j < len(formula) && isIdentChar(formula[j]) {
			j++
		}
		name := formula[i:j]
		if !seen[name] {
			seen[name] = true
			refs = append(refs, name)
		}
		i = j
	}
	return refs
}

// checkSafe enforces the character gate on a substituted expression.
// Characters that are not part of any identifier are reported first as unsafe;
// leftover identifiers are then reported as missing bindings.
func checkSafe(expr, formula string) error {
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if isAllowed(c) || isIdentChar(c) {
			continue
		}
		return newError(ErrUnsafeExpression, formula, "character %q at offset %d", c, i)
	}
	for i := 0; i < len(expr); i++ {
		if !isIdentStart(expr[i]) {
			continue
		}
		if refs := References(expr); len(refs) > 0 {
			return newError(ErrMissingBinding, formula, "unbound identifier %s", strings.Join(refs, ", "))
		}
		return newError(ErrMissingBinding, formula, "unbound identifier at offset %d", i)
	}
	return nil
}

func isAllowed(c byte) bool {
	switch c {
	case '+', '-', '*', '/', '(', ')', '.', ' ':
		return true
	}
	return c >= '0' && c <= '9'
}
