package model

import (
	"github.com/cleared-dev/bankcap/internal/column"
)

// Table is the ordered bank list plus the derived currency columns it carries.
// Row order is the source document's order and is significant.
type Table struct {
	Banks      []Bank
	Currencies []string // derived columns, in column order
}

// Columns returns the field names in output order.
func (t *Table) Columns() []string {
	cols := make([]string, 0, 2+len(t.Currencies))
	cols = append(cols, column.Name, column.USD)
	for _, c := range t.Currencies {
		cols = append(cols, column.ForCurrency(c))
	}
	return cols
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Banks)
}

// Names returns the bank names in row order.
func (t *Table) Names() []string {
	names := make([]string, len(t.Banks))
	for i, b := range t.Banks {
		names[i] = b.Name
	}
	return names
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := &Table{
		Banks:      make([]Bank, len(t.Banks)),
		Currencies: append([]string(nil), t.Currencies...),
	}
	for i, b := range t.Banks {
		out.Banks[i] = b.clone()
	}
	return out
}
