package model

import (
	"github.com/shopspring/decimal"
)

// Supported currencies that the pipeline converts market caps into.
const (
	CurrencyGBP = "GBP"
	CurrencyEUR = "EUR"
	CurrencyINR = "INR"
)

var supported = map[string]bool{
	CurrencyGBP: true,
	CurrencyEUR: true,
	CurrencyINR: true,
}

// IsSupported reports whether a currency code is converted by the pipeline.
func IsSupported(code string) bool {
	return supported[code]
}

// RateTable maps currency codes to "units per one USD" rates.
// Iteration order is the order codes were first added.
type RateTable struct {
	codes []string
	rates map[string]decimal.Decimal
}

// NewRateTable returns an empty RateTable.
func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[string]decimal.Decimal)}
}

// Set adds or replaces a rate. A repeated code keeps its first position.
func (t *RateTable) Set(code string, rate decimal.Decimal) {
	if _, ok := t.rates[code]; !ok {
		t.codes = append(t.codes, code)
	}
	t.rates[code] = rate
}

// Get returns the rate for a code.
func (t *RateTable) Get(code string) (decimal.Decimal, bool) {
	r, ok := t.rates[code]
	return r, ok
}

// Codes returns the currency codes in insertion order.
func (t *RateTable) Codes() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}

// Len returns the number of currencies.
func (t *RateTable) Len() int {
	return len(t.codes)
}
