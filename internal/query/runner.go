package query

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cleared-dev/bankcap/internal/etlerr"
)

// Defaults are the summary queries run after every load.
var Defaults = []string{
	"SELECT * FROM Largest_banks",
	"SELECT AVG(MC_GBP_Billion) FROM Largest_banks",
	"SELECT Name FROM Largest_banks LIMIT 5",
}

// Result is the outcome of one statement.
type Result struct {
	Statement string
	Columns   []string
	Rows      [][]string
	Err       error
}

// Column returns the values of one result column, or nil if it is absent.
func (r Result) Column(name string) []string {
	for i, c := range r.Columns {
		if c != name {
			continue
		}
		out := make([]string, len(r.Rows))
		for j, row := range r.Rows {
			out[j] = row[i]
		}
		return out
	}
	return nil
}

// Runner executes read statements verbatim against a database.
type Runner struct {
	db  *sql.DB
	out io.Writer
}

// NewRunner creates a Runner. If out is non-nil each result is printed to it
// as soon as the statement finishes.
func NewRunner(db *sql.DB, out io.Writer) *Runner {
	return &Runner{db: db, out: out}
}

// Run executes statements in order. A failing statement does not stop the
// rest; its error is recorded in its Result and joined into the returned error.
func (r *Runner) Run(ctx context.Context, statements []string) ([]Result, error) {
	results := make([]Result, 0, len(statements))
	var errs []error
	for _, stmt := range statements {
		res := r.exec(ctx, stmt)
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
		if r.out != nil {
			if err := Print(r.out, res); err != nil {
				return results, fmt.Errorf("printing result: %w", err)
			}
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (r *Runner) exec(ctx context.Context, stmt string) Result {
	res := Result{Statement: stmt}

	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		res.Err = etlerr.NewQueryError(stmt, err)
		return res
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		res.Err = etlerr.NewQueryError(stmt, err)
		return res
	}
	res.Columns = cols

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			res.Err = etlerr.NewQueryError(stmt, err)
			return res
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = FormatValue(v)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		res.Err = etlerr.NewQueryError(stmt, err)
	}
	return res
}

// FormatValue renders a scanned SQL value for display.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Print writes the statement followed by its result as an aligned table.
func Print(w io.Writer, r Result) error {
	if _, err := fmt.Fprintln(w, r.Statement); err != nil {
		return err
	}
	if r.Err != nil {
		_, err := fmt.Fprintf(w, "error: %v\n\n", r.Err)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\t"+strings.Join(r.Columns, "\t"))
	for i, row := range r.Rows {
		fmt.Fprintln(tw, strconv.Itoa(i)+"\t"+strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
