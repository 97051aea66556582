package rates

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankcap/internal/model"
)

// Sample returns the starter rate table written by `bankcap init`.
func Sample() *model.RateTable {
	t := model.NewRateTable()
	t.Set("EUR", decimal.RequireFromString("0.93"))
	t.Set("GBP", decimal.RequireFromString("0.8"))
	t.Set("INR", decimal.RequireFromString("82.95"))
	return t
}
