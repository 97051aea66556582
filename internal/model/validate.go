package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Checks reported by Validate.
const (
	CheckName      = "name"
	CheckCap       = "market_cap"
	CheckColumns   = "columns"
	CheckPrecision = "precision"
	CheckCurrency  = "currency"
)

// ValidationError describes a single rule a table row breaks.
type ValidationError struct {
	Check       string
	Row         int // 0-based; -1 for table-level problems
	Description string
}

func (e ValidationError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s", e.Check, e.Description)
	}
	return fmt.Sprintf("%s [row %d]: %s", e.Check, e.Row, e.Description)
}

// Validate checks that a table is fit to persist.
func Validate(t *Table) []ValidationError {
	var errs []ValidationError

	// Derived columns are unique.
	seen := make(map[string]bool, len(t.Currencies))
	for _, c := range t.Currencies {
		if seen[c] {
			errs = append(errs, ValidationError{
				Check:       CheckCurrency,
				Row:         -1,
				Description: fmt.Sprintf("duplicate currency column %s", c),
			})
		}
		seen[c] = true
	}

	hundred := decimal.NewFromInt(100)
	for i, b := range t.Banks {
		if b.Name == "" {
			errs = append(errs, ValidationError{Check: CheckName, Row: i, Description: "empty bank name"})
		}

		if b.MarketCapUSD.IsNegative() {
			errs = append(errs, ValidationError{
				Check:       CheckCap,
				Row:         i,
				Description: fmt.Sprintf("negative market cap %s", b.MarketCapUSD),
			})
		}

		// Converted amounts line up with the currency columns.
		if len(b.Converted) != len(t.Currencies) {
			errs = append(errs, ValidationError{
				Check:       CheckColumns,
				Row:         i,
				Description: fmt.Sprintf("%d converted amounts for %d currency columns", len(b.Converted), len(t.Currencies)),
			})
			continue
		}
		for j, a := range b.Converted {
			if a.Currency != t.Currencies[j] {
				errs = append(errs, ValidationError{
					Check:       CheckColumns,
					Row:         i,
					Description: fmt.Sprintf("amount %d is %s, column is %s", j, a.Currency, t.Currencies[j]),
				})
			}
			if !a.Value.Mul(hundred).Equal(a.Value.Mul(hundred).Floor()) {
				errs = append(errs, ValidationError{
					Check:       CheckPrecision,
					Row:         i,
					Description: fmt.Sprintf("%s amount %s has more than 2 decimal places", a.Currency, a.Value),
				})
			}
		}
	}

	return errs
}
