package extract

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// NumberMode selects how market cap cells are turned into decimals.
type NumberMode string

const (
	// Strict parses the trimmed cell text as-is; "1,234.5" is an error.
	Strict NumberMode = "strict"
	// Lenient drops thousands separators and inner whitespace first.
	Lenient NumberMode = "lenient"
)

// ParseNumberMode validates a mode name. An empty name selects Strict.
func ParseNumberMode(s string) (NumberMode, error) {
	switch NumberMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Strict:
		return Strict, nil
	case Lenient:
		return Lenient, nil
	default:
		return "", fmt.Errorf("unknown number mode %q (want %q or %q)", s, Strict, Lenient)
	}
}

// ParseNumber parses a cell's text according to mode.
func ParseNumber(text string, mode NumberMode) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)
	if mode == Lenient {
		s = strings.Map(func(r rune) rune {
			if r == ',' || unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	}
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty number")
	}
	return decimal.NewFromString(s)
}
