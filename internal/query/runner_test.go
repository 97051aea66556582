package query

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankcap/internal/etlerr"
	"github.com/cleared-dev/bankcap/internal/model"
	"github.com/cleared-dev/bankcap/internal/store"
)

func seededDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "Banks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	amt := func(cur, v string) model.Amount {
		return model.Amount{Currency: cur, Value: decimal.RequireFromString(v)}
	}
	tbl := &model.Table{
		Banks: []model.Bank{
			{Name: "Bank A", MarketCapUSD: decimal.NewFromInt(100), Converted: []model.Amount{amt("GBP", "80"), amt("EUR", "93")}},
			{Name: "Bank B", MarketCapUSD: decimal.NewFromInt(50), Converted: []model.Amount{amt("GBP", "40"), amt("EUR", "46.5")}},
		},
		Currencies: []string{"GBP", "EUR"},
	}
	require.NoError(t, db.ReplaceTable(context.Background(), store.DefaultTable, tbl))
	return db
}

func TestRun_Defaults(t *testing.T) {
	db := seededDB(t)

	results, err := NewRunner(db.DB(), nil).Run(context.Background(), Defaults)
	require.NoError(t, err)
	require.Len(t, results, 3)

	all := results[0]
	assert.Equal(t, []string{"Name", "MC_USD_Billion", "MC_GBP_Billion", "MC_EUR_Billion"}, all.Columns)
	assert.Equal(t, [][]string{
		{"Bank A", "100", "80", "93"},
		{"Bank B", "50", "40", "46.5"},
	}, all.Rows)

	avg := results[1]
	require.Len(t, avg.Rows, 1)
	assert.Equal(t, "60", avg.Rows[0][0])

	assert.Equal(t, []string{"Bank A", "Bank B"}, results[2].Column("Name"))
}

func TestRun_FailureDoesNotAbortRemaining(t *testing.T) {
	db := seededDB(t)
	stmts := []string{
		"SELECT Name FROM no_such_table",
		"SELECT COUNT(*) FROM Largest_banks",
		"SELEKT nonsense",
		"SELECT Name FROM Largest_banks LIMIT 1",
	}

	results, err := NewRunner(db.DB(), nil).Run(context.Background(), stmts)
	require.Error(t, err)
	assert.True(t, etlerr.Is(err, etlerr.KindQuery))
	require.Len(t, results, 4)

	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "2", results[1].Rows[0][0])
	assert.Error(t, results[2].Err)
	assert.Equal(t, []string{"Bank A"}, results[3].Column("Name"))

	assert.Contains(t, err.Error(), "no_such_table")
	assert.Contains(t, err.Error(), "SELEKT")
}

func TestRun_PrintsEachResultInOrder(t *testing.T) {
	db := seededDB(t)
	var out bytes.Buffer

	_, err := NewRunner(db.DB(), &out).Run(context.Background(), []string{
		"SELECT Name FROM Largest_banks LIMIT 5",
		"SELECT broken FROM Largest_banks",
	})
	require.Error(t, err)

	text := out.String()
	first := strings.Index(text, "SELECT Name FROM Largest_banks LIMIT 5")
	second := strings.Index(text, "SELECT broken FROM Largest_banks")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, text[first:second], "Bank B")
	assert.Contains(t, text[second:], "error:")
}

func TestRun_Empty(t *testing.T) {
	db := seededDB(t)
	results, err := NewRunner(db.DB(), nil).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, Result{
		Statement: "SELECT Name FROM Largest_banks LIMIT 5",
		Columns:   []string{"Name"},
		Rows:      [][]string{{"Bank A"}, {"Bank B"}},
	})
	require.NoError(t, err)

	want := "SELECT Name FROM Largest_banks LIMIT 5\n" +
		"   Name\n" +
		"0  Bank A\n" +
		"1  Bank B\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "NULL"},
		{[]byte("raw"), "raw"},
		{"text", "text"},
		{int64(42), "42"},
		{float64(46.5), "46.5"},
		{float64(80), "80"},
		{true, "true"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestResultColumn_Missing(t *testing.T) {
	r := Result{Columns: []string{"Name"}, Rows: [][]string{{"A"}}}
	assert.Nil(t, r.Column("Other"))
}
