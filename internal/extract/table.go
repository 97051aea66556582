package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cleared-dev/bankcap/internal/column"
	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/model"
)

// TableSelector matches a table carrying both the wikitable and sortable classes.
const TableSelector = "table.wikitable.sortable"

const (
	minCells    = 3
	cellName    = 1
	cellCapUSD  = 2
	opParseHTML = "parse table"
)

// Options controls how the bank table is read.
type Options struct {
	Mode NumberMode
}

// DefaultOptions returns strict parsing.
func DefaultOptions() Options {
	return Options{Mode: Strict}
}

// ParseTable reads an HTML document and returns the rows of the first
// wikitable/sortable table. The first row is skipped as the header and rows
// with fewer than three <td> cells are dropped.
func ParseTable(r io.Reader, opts Options) (*model.Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, etlerr.NewParseError(opParseHTML, "reading document", err)
	}

	table := doc.Find(TableSelector).First()
	if table.Length() == 0 {
		return nil, etlerr.NewTableNotFound(opParseHTML, TableSelector)
	}

	out := &model.Table{}
	var parseErr error
	table.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i == 0 {
			return true
		}
		cells := row.Find("td")
		if cells.Length() < minCells {
			return true
		}

		bank, err := parseRow(cells, opts)
		if err != nil {
			parseErr = etlerr.NewParseError(opParseHTML, fmt.Sprintf("row %d", i+1), err)
			return false
		}
		out.Banks = append(out.Banks, bank)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func parseRow(cells *goquery.Selection, opts Options) (model.Bank, error) {
	name := strings.TrimSpace(cells.Eq(cellName).Text())
	if name == "" {
		return model.Bank{}, fmt.Errorf("empty %s", column.Name)
	}

	raw := strings.TrimSpace(cells.Eq(cellCapUSD).Text())
	capUSD, err := ParseNumber(raw, opts.Mode)
	if err != nil {
		return model.Bank{}, fmt.Errorf("parsing %s %q for %s: %w", column.USD, raw, name, err)
	}
	if capUSD.IsNegative() {
		return model.Bank{}, fmt.Errorf("negative %s %q for %s", column.USD, raw, name)
	}

	return model.Bank{
		Name:         name,
		MarketCapUSD: capUSD,
	}, nil
}
