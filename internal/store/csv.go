package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankcap/internal/column"
	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/model"
)

const (
	colIndex     = 0
	colName      = 1
	colCapUSD    = 2
	colConverted = 3 // first derived currency column
)

// Header returns the CSV header for a table: an unlabeled index column
// followed by the table's columns.
func Header(t *model.Table) []string {
	return append([]string{column.Index}, t.Columns()...)
}

// WriteTable writes the table as CSV with a leading 0-based row index.
func WriteTable(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header(t)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, b := range t.Banks {
		if err := cw.Write(MarshalBank(i, b)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalBank converts a bank at row index i to a CSV row.
func MarshalBank(i int, b model.Bank) []string {
	row := make([]string, colConverted+len(b.Converted))
	row[colIndex] = strconv.Itoa(i)
	row[colName] = b.Name
	row[colCapUSD] = b.MarketCapUSD.String()
	for j, a := range b.Converted {
		row[colConverted+j] = a.Value.StringFixed(2)
	}
	return row
}

// ReadTable reads a CSV written by WriteTable.
func ReadTable(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading banks CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading banks CSV: missing header")
	}

	header := records[0]
	if len(header) < colConverted || header[colName] != column.Name || header[colCapUSD] != column.USD {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	t := &model.Table{}
	for _, col := range header[colConverted:] {
		code, err := column.ParseCurrency(col)
		if err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		t.Currencies = append(t.Currencies, code)
	}

	for i, rec := range records[1:] {
		b, err := UnmarshalBank(rec, t.Currencies)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		t.Banks = append(t.Banks, b)
	}
	return t, nil
}

// UnmarshalBank converts a CSV row to a Bank.
func UnmarshalBank(record []string, currencies []string) (model.Bank, error) {
	if want := colConverted + len(currencies); len(record) != want {
		return model.Bank{}, fmt.Errorf("expected %d fields, got %d", want, len(record))
	}

	capUSD, err := decimal.NewFromString(record[colCapUSD])
	if err != nil {
		return model.Bank{}, fmt.Errorf("parsing %s %q: %w", column.USD, record[colCapUSD], err)
	}

	b := model.Bank{Name: record[colName], MarketCapUSD: capUSD}
	for j, code := range currencies {
		v, err := decimal.NewFromString(record[colConverted+j])
		if err != nil {
			return model.Bank{}, fmt.Errorf("parsing %s %q: %w", column.ForCurrency(code), record[colConverted+j], err)
		}
		b.Converted = append(b.Converted, model.Amount{Currency: code, Value: v})
	}
	return b, nil
}

// SaveCSV writes the table to path, replacing any existing file.
func SaveCSV(path string, t *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return etlerr.NewWriteError("create "+path, err)
	}

	if err := WriteTable(f, t); err != nil {
		f.Close()
		return etlerr.NewWriteError("write "+path, err)
	}
	if err := f.Close(); err != nil {
		return etlerr.NewWriteError("close "+path, err)
	}
	return nil
}

// LoadCSV reads a table previously written by SaveCSV.
func LoadCSV(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, etlerr.NewResourceUnavailable("open "+path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}
