package tabular

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts covers the formats seen across CRM exports and platform
// dashboards, including the datetime forms excel round-trips produce.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
	"02/01/2006 15:04:05",
	"01/02/2006",
	"2/1/2006",
	"01-02-06",
	"2006/01/02",
}

// ParseDate coerces a cell into a UTC-midnight date. The boolean reports
// success; callers count failures instead of aborting (row-level errors are
// absorbed, never raised).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseMoney coerces a monetary cell leniently, tolerating the comma/period
// ambiguity of mixed-locale exports: when both separators are present the
// one appearing last is the decimal mark ("1.234,56" and "1,234.56" both
// yield 1234.56); a lone comma is a decimal mark ("1234,56" -> 1234.56).
// Any residual failure yields zero.
func ParseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "", `"`, "", "R$", "", "$", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ".") && strings.Contains(s, ",") {
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
