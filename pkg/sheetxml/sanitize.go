package sheetxml

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	// DefaultMaxCellLength is the spreadsheet limit for characters in one cell.
	DefaultMaxCellLength = 32767
	// EnvMaxCellLength overrides DefaultMaxCellLength.
	EnvMaxCellLength = "PROTOCOLFILL_MAX_CELL_LENGTH"
)

var (
	ErrValueTooLarge = errors.New("cell value exceeds maximum length")
	ErrInvalidUTF8   = errors.New("cell value contains invalid UTF-8 sequences")
)

// SanitizeValue prepares a cell value for insertion into worksheet markup.
// It rejects oversized or invalid UTF-8 input and strips characters that
// XML 1.0 cannot carry (C0 control characters other than \n, \t, \r and
// the noncharacters U+FFFE and U+FFFF). C1 controls are legal and kept.
func SanitizeValue(value string) (string, error) {
	if n, limit := utf8.RuneCountInString(value), maxCellLength(); n > limit {
		return "", fmt.Errorf("%w: length=%d limit=%d", ErrValueTooLarge, n, limit)
	}
	if !utf8.ValidString(value) {
		return "", ErrInvalidUTF8
	}

	// Fast path: nothing to strip.
	clean := true
	for _, r := range value {
		if !keep(r) {
			clean = false
			break
		}
	}
	if clean {
		return value, nil
	}

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

func keep(r rune) bool {
	switch {
	case r == '\n' || r == '\t' || r == '\r':
		return true
	case r < 0x20:
		return false
	case r == 0xFFFE || r == 0xFFFF:
		return false
	}
	return true
}

func maxCellLength() int {
	if val := os.Getenv(EnvMaxCellLength); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxCellLength
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
	"\r", "&#13;",
)

// Escape replaces the five XML metacharacters with their entities. A
// carriage return becomes a character reference, since parsers normalize a
// literal one to \n.
func Escape(s string) string {
	return escaper.Replace(s)
}
