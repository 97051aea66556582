package column

import (
	"fmt"
	"strings"
)

// Fixed column names of the largest-banks table.
const (
	Index = ""
	Name  = "Name"
	USD   = "MC_USD_Billion"
)

const (
	prefix = "MC_"
	suffix = "_Billion"
)

// ForCurrency returns the market cap column for a currency, e.g. "GBP" -> "MC_GBP_Billion".
func ForCurrency(code string) string {
	return prefix + code + suffix
}

// ParseCurrency extracts the currency code from a market cap column name.
// "MC_EUR_Billion" -> "EUR"
func ParseCurrency(col string) (string, error) {
	if len(col) < len(prefix)+len(suffix) || !strings.HasPrefix(col, prefix) || !strings.HasSuffix(col, suffix) {
		return "", fmt.Errorf("invalid market cap column: %q", col)
	}
	code := col[len(prefix) : len(col)-len(suffix)]
	if code == "" {
		return "", fmt.Errorf("missing currency in column %q", col)
	}
	return code, nil
}

// Quote returns col as a double-quoted SQL identifier.
func Quote(col string) string {
	return `"` + strings.ReplaceAll(col, `"`, `""`) + `"`
}
