package dashboards

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/models"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

// GoogleWorkbook is the filename of the search-platform dashboard.
const GoogleWorkbook = "google_dashboard.xlsx"

// googleSkipRows drops the report title and period lines the search
// platform prepends to its csv downloads.
const googleSkipRows = 2

// googleRenames maps the export's localized headers onto the canonical
// names the blend stage's candidate lists know about.
var googleRenames = map[string]string{
	"Campanha":         "Nome_Campanha",
	"Dia":              "Data",
	"Custo":            "Investimento",
	"Conversões":       "Conversoes",
	"Converses":        "Conversoes",
	"Custo / conv.":    "CPL",
	"Tipo de campanha": "Tipo_Campanha",
}

// BuildGoogle processes the raw search-platform export into the dashboard
// workbook: Google_YoY (daily spend, conversions and guarded CPL),
// Google_Completo and per-year sheets.
func BuildGoogle(cfg config.Config, log *slog.Logger) (*Result, error) {
	t, err := tabular.ReadAny(cfg.GoogleRawFile, tabular.ReadOptions{SkipRows: googleSkipRows})
	if err != nil {
		return nil, fmt.Errorf("load google export %s: %w", cfg.GoogleRawFile, err)
	}
	for i, h := range t.Headers {
		if canonical, ok := googleRenames[h]; ok {
			t.Headers[i] = canonical
		}
	}

	dateIdx := resolveIndex(t.Headers, cfg.GoogleColumns.Date)
	spendIdx := resolveIndex(t.Headers, cfg.GoogleColumns.Spend)
	convIdx := resolveIndex(t.Headers, []string{"conversoes", "conversions", "conv"})
	if dateIdx < 0 || spendIdx < 0 || convIdx < 0 {
		return nil, fmt.Errorf("google export %s: date, cost or conversions column not found", cfg.GoogleRawFile)
	}

	res := &Result{Rows: t.Len()}
	var rows []row
	conversions := make(map[time.Time]decimal.Decimal)
	for i := 0; i < t.Len(); i++ {
		date, ok := tabular.ParseDate(t.Cell(i, dateIdx))
		if !ok {
			res.DroppedDates++
			continue
		}
		r := row{
			cells: t.Rows[i],
			date:  date,
			spend: tabular.ParseMoney(t.Cell(i, spendIdx)),
		}
		conversions[date] = conversions[date].Add(tabular.ParseMoney(t.Cell(i, convIdx)))
		rows = append(rows, r)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("google export %s: no rows with valid dates", cfg.GoogleRawFile)
	}
	log.Info("google export processed",
		slog.Int("rows", res.Rows),
		slog.Int("dropped_invalid_dates", res.DroppedDates))

	sheets := []tabular.Sheet{googleDailySheet(rows, conversions), fullSheet("Google_Completo", t.Headers, rows, models.ChannelPaidSearch.String())}
	sheets = append(sheets, yearSheets("Google", t.Headers, rows, models.ChannelPaidSearch.String())...)

	path, names, err := saveWorkbook(cfg.DashboardDir, GoogleWorkbook, sheets)
	if err != nil {
		return nil, err
	}
	res.OutputFile, res.Sheets = path, names
	return res, nil
}

// googleDailySheet aggregates spend and conversions by day, keeping days
// with either spend or conversions, with a division-guarded cost per lead.
func googleDailySheet(rows []row, conversions map[time.Time]decimal.Decimal) tabular.Sheet {
	daily := make(map[time.Time]decimal.Decimal)
	for _, r := range rows {
		daily[r.date] = daily[r.date].Add(r.spend)
	}
	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		if daily[d].IsPositive() || conversions[d].IsPositive() {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	s := tabular.Sheet{Name: "Google_YoY", Headers: []string{"Date", "Spend", "Conversions", "CPL"}}
	for _, d := range dates {
		cpl := decimal.Zero
		if conversions[d].IsPositive() {
			cpl = daily[d].Div(conversions[d])
		}
		s.Rows = append(s.Rows, []any{
			d.Format("2006-01-02"),
			daily[d].Round(2).InexactFloat64(),
			conversions[d].InexactFloat64(),
			cpl.Round(2).InexactFloat64(),
		})
	}
	return s
}
