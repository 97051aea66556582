package model

import (
	"github.com/shopspring/decimal"
)

// Amount is a market cap converted into one currency.
type Amount struct {
	Currency string
	Value    decimal.Decimal // billions, rounded to 2 places
}

// Bank is one row of the largest-banks table.
type Bank struct {
	Name         string
	MarketCapUSD decimal.Decimal // billions of USD, as published
	Converted    []Amount        // ordered like Table.Currencies
}

// In returns the converted market cap for a currency code.
func (b Bank) In(currency string) (decimal.Decimal, bool) {
	for _, a := range b.Converted {
		if a.Currency == currency {
			return a.Value, true
		}
	}
	return decimal.Decimal{}, false
}

func (b Bank) clone() Bank {
	out := b
	if b.Converted != nil {
		out.Converted = make([]Amount, len(b.Converted))
		copy(out.Converted, b.Converted)
	}
	return out
}
