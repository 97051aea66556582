package rates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/model"
)

// Required header names in an exchange rate CSV.
const (
	HeaderCurrency = "Currency"
	HeaderRate     = "Rate"
)

const opRead = "read rates"

// ReadRates reads an exchange rate CSV. The header must contain Currency and
// Rate columns; other columns are ignored. Rates are not range-checked.
func ReadRates(r io.Reader) (*model.RateTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, etlerr.NewMalformedSchema(opRead, "empty input, expected header")
	}
	if err != nil {
		return nil, etlerr.NewMalformedSchema(opRead, fmt.Sprintf("reading header: %v", err))
	}

	colCurrency, colRate := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case HeaderCurrency:
			colCurrency = i
		case HeaderRate:
			colRate = i
		}
	}
	if colCurrency < 0 {
		return nil, etlerr.NewMalformedSchema(opRead, fmt.Sprintf("missing column %q", HeaderCurrency))
	}
	if colRate < 0 {
		return nil, etlerr.NewMalformedSchema(opRead, fmt.Sprintf("missing column %q", HeaderRate))
	}

	table := model.NewRateTable()
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, etlerr.NewMalformedSchema(opRead, fmt.Sprintf("row %d: %v", row, err))
		}
		if colCurrency >= len(rec) || colRate >= len(rec) {
			return nil, etlerr.NewMalformedSchema(opRead, fmt.Sprintf("row %d: expected at least %d fields, got %d", row, max(colCurrency, colRate)+1, len(rec)))
		}

		code, rate, err := UnmarshalRate(rec[colCurrency], rec[colRate])
		if err != nil {
			return nil, etlerr.NewMalformedSchema(opRead, fmt.Sprintf("row %d: %v", row, err))
		}
		table.Set(code, rate)
	}
	return table, nil
}

// WriteRates writes a Currency,Rate CSV in the table's order.
func WriteRates(w io.Writer, table *model.RateTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{HeaderCurrency, HeaderRate}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, code := range table.Codes() {
		rate, _ := table.Get(code)
		if err := cw.Write(MarshalRate(code, rate)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalRate converts a rate to a CSV row.
func MarshalRate(code string, rate decimal.Decimal) []string {
	return []string{code, rate.String()}
}

// UnmarshalRate parses the currency and rate cells of one row.
func UnmarshalRate(code, rate string) (string, decimal.Decimal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", decimal.Decimal{}, errors.New("empty currency code")
	}
	d, err := decimal.NewFromString(strings.TrimSpace(rate))
	if err != nil {
		return "", decimal.Decimal{}, fmt.Errorf("parsing rate %q for %s: %w", rate, code, err)
	}
	return code, d, nil
}
