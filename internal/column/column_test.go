package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForCurrency(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"GBP", "MC_GBP_Billion"},
		{"EUR", "MC_EUR_Billion"},
		{"INR", "MC_INR_Billion"},
		{"USD", USD},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ForCurrency(tt.code))
	}
}

func TestParseCurrency(t *testing.T) {
	code, err := ParseCurrency("MC_GBP_Billion")
	require.NoError(t, err)
	assert.Equal(t, "GBP", code)

	code, err = ParseCurrency(ForCurrency("INR"))
	require.NoError(t, err)
	assert.Equal(t, "INR", code)
}

func TestParseCurrency_Invalid(t *testing.T) {
	tests := []string{
		"",
		"Name",
		"MC_Billion",
		"MC__Billion",
		"GBP_Billion",
		"MC_GBP",
	}
	for _, col := range tests {
		_, err := ParseCurrency(col)
		assert.Error(t, err, "column %q should not parse", col)
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"Largest_banks"`, Quote("Largest_banks"))
	assert.Equal(t, `"a""b"`, Quote(`a"b`))
}
