package tabular

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},  // thousands-period, decimal-comma
		{"1,234.56", "1234.56"},  // thousands-comma, decimal-period
		{"1234,56", "1234.56"},   // lone comma is decimal
		{"1234.56", "1234.56"},   // plain
		{"R$ 2.500,00", "2500"},  // currency prefix
		{` "300" `, "300"},       // quoted cell
		{"", "0"},                // empty
		{"n/a", "0"},             // garbage coerces to zero
		{"-15,5", "-15.5"},       // negative
	}
	for _, c := range cases {
		want, _ := decimal.NewFromString(c.want)
		assert.True(t, want.Equal(ParseMoney(c.in)), "ParseMoney(%q) = %s, want %s", c.in, ParseMoney(c.in), want)
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2025-09-01")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), got)

	// Datetimes normalize to midnight.
	got, ok = ParseDate("2025-09-01 14:30:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDate("02/09/2025")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseDate("not a date")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}
