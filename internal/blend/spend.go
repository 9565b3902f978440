package blend

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/normalize"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

// SpendKey identifies one day of one normalized campaign/term.
type SpendKey struct {
	Date time.Time // UTC midnight
	Key  string    // normalized campaign or search-term text
}

// SpendTable is a platform's spend aggregated by (date, merge key).
// An empty table is a valid degraded state: every lookup yields zero.
type SpendTable map[SpendKey]decimal.Decimal

// Lookup returns the spend for (date, key), zero on a miss.
func (st SpendTable) Lookup(date time.Time, key string) decimal.Decimal {
	if v, ok := st[SpendKey{Date: date, Key: key}]; ok {
		return v
	}
	return decimal.Zero
}

// LoadSpend reads one platform dashboard and aggregates its spend by
// (date, normalized campaign/term). Platform spend is optional input:
// a missing file, unreadable sheet, or unresolved column degrades to an
// empty table with a diagnostic, never an error. Rows with invalid dates
// are skipped; non-numeric spend coerces to zero.
func LoadSpend(path, sheet string, cols config.SpendColumns, log *slog.Logger) SpendTable {
	out := SpendTable{}

	if _, err := os.Stat(path); err != nil {
		log.Warn("spend file missing, assuming zero spend", slog.String("path", path))
		return out
	}
	t, err := tabular.ReadAny(path, tabular.ReadOptions{Sheet: sheet})
	if err != nil {
		if errors.Is(err, tabular.ErrEmptyTable) {
			log.Warn("spend file empty, assuming zero spend", slog.String("path", path))
		} else {
			log.Warn("spend file unreadable, assuming zero spend",
				slog.String("path", path), slog.String("err", err.Error()))
		}
		return out
	}

	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = normalize.ColumnName(h)
	}
	dateCol, okDate := tabular.FindColumn(headers, cols.Date)
	spendCol, okSpend := tabular.FindColumn(headers, cols.Spend)
	campCol, okCamp := tabular.FindColumn(headers, cols.Campaign)
	if !okDate || !okSpend || !okCamp {
		log.Warn("spend columns unresolved, assuming zero spend",
			slog.String("path", path), slog.String("sheet", sheet),
			slog.Bool("date", okDate), slog.Bool("spend", okSpend), slog.Bool("campaign", okCamp))
		return out
	}
	idx := func(name string) int {
		for i, h := range headers {
			if h == name {
				return i
			}
		}
		return -1
	}
	di, si, ci := idx(dateCol), idx(spendCol), idx(campCol)

	skipped := 0
	for row := 0; row < t.Len(); row++ {
		date, ok := tabular.ParseDate(t.Cell(row, di))
		if !ok {
			skipped++
			continue
		}
		key := SpendKey{Date: date, Key: normalize.Text(t.Cell(row, ci))}
		out[key] = out[key].Add(tabular.ParseMoney(t.Cell(row, si)))
	}
	log.Info("spend aggregated",
		slog.String("path", path), slog.String("sheet", sheet),
		slog.Int("rows", t.Len()), slog.Int("skipped_dates", skipped), slog.Int("keys", len(out)))
	return out
}
