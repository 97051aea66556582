// Package transform derives per-currency market cap columns.
//
// Amounts are computed with exact decimal arithmetic and rounded with
// decimal.Decimal.Round(2), which rounds half away from zero
// (1.005 -> 1.01, -1.005 -> -1.01).
package transform

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankcap/internal/model"
)

// Places is the number of fractional digits kept in converted amounts.
const Places = 2

// Convert returns a copy of table with an MC_<CUR>_Billion column for every
// supported currency in rates, in rate table order. Unsupported codes are
// ignored. Neither argument is modified.
func Convert(table *model.Table, rates *model.RateTable) *model.Table {
	out := table.Clone()

	for _, code := range rates.Codes() {
		if !model.IsSupported(code) {
			continue
		}
		rate, _ := rates.Get(code)
		addColumn(out, code, rate)
	}
	return out
}

// Amount converts a USD figure at rate and rounds it.
func Amount(usd, rate decimal.Decimal) decimal.Decimal {
	return usd.Mul(rate).Round(Places)
}

func addColumn(t *model.Table, code string, rate decimal.Decimal) {
	pos := -1
	for i, c := range t.Currencies {
		if c == code {
			pos = i
			break
		}
	}
	if pos < 0 {
		t.Currencies = append(t.Currencies, code)
	}

	for i := range t.Banks {
		b := &t.Banks[i]
		a := model.Amount{Currency: code, Value: Amount(b.MarketCapUSD, rate)}
		if pos < 0 {
			b.Converted = append(b.Converted, a)
			continue
		}
		b.Converted[pos] = a
	}
}
