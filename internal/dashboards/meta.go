package dashboards

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/models"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

// MetaWorkbook is the filename of the social-platform dashboard.
const MetaWorkbook = "meta_dataset_dashboard.xlsx"

// excludeKeyword drops campaign rows belonging to the bilingual program,
// which is reported separately and must not blend into paid-media spend.
const excludeKeyword = "bilingual"

// BuildMeta processes the raw social-platform export into the dashboard
// workbook: Meta_YoY (daily spend), Meta_Completo (full table) and one
// Meta_<year> sheet per observed year. Date and spend columns are required
// here — unlike the blend stage, the dashboard build has nothing useful to
// produce without them.
func BuildMeta(cfg config.Config, log *slog.Logger) (*Result, error) {
	t, err := tabular.ReadAny(cfg.MetaRawFile, tabular.ReadOptions{})
	if err != nil {
		return nil, fmt.Errorf("load meta export %s: %w", cfg.MetaRawFile, err)
	}

	dateIdx := resolveIndex(t.Headers, cfg.MetaColumns.Date)
	spendIdx := resolveIndex(t.Headers, cfg.MetaColumns.Spend)
	if dateIdx < 0 || spendIdx < 0 {
		return nil, fmt.Errorf("meta export %s: date or spend column not found", cfg.MetaRawFile)
	}

	res := &Result{Rows: t.Len()}
	var rows []row
	for i := 0; i < t.Len(); i++ {
		date, ok := tabular.ParseDate(t.Cell(i, dateIdx))
		if !ok {
			res.DroppedDates++
			continue
		}
		if rowContains(t, i, excludeKeyword) {
			res.Excluded++
			continue
		}
		rows = append(rows, row{
			cells: t.Rows[i],
			date:  date,
			spend: tabular.ParseMoney(t.Cell(i, spendIdx)),
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("meta export %s: no rows with valid dates", cfg.MetaRawFile)
	}
	log.Info("meta export processed",
		slog.Int("rows", res.Rows),
		slog.Int("dropped_invalid_dates", res.DroppedDates),
		slog.Int("excluded", res.Excluded))

	sheets := []tabular.Sheet{metaDailySheet(rows), fullSheet("Meta_Completo", t.Headers, rows, models.ChannelPaidSocial.String())}
	sheets = append(sheets, yearSheets("Meta", t.Headers, rows, models.ChannelPaidSocial.String())...)

	path, names, err := saveWorkbook(cfg.DashboardDir, MetaWorkbook, sheets)
	if err != nil {
		return nil, err
	}
	res.OutputFile, res.Sheets = path, names
	return res, nil
}

// metaDailySheet aggregates spend by day, keeping only days with spend.
func metaDailySheet(rows []row) tabular.Sheet {
	daily := make(map[time.Time]decimal.Decimal)
	for _, r := range rows {
		daily[r.date] = daily[r.date].Add(r.spend)
	}
	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		if daily[d].IsPositive() {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	s := tabular.Sheet{Name: "Meta_YoY", Headers: []string{"Date", "Spend"}}
	for _, d := range dates {
		s.Rows = append(s.Rows, []any{d.Format("2006-01-02"), daily[d].Round(2).InexactFloat64()})
	}
	return s
}

func rowContains(t *tabular.Table, rowIdx int, keyword string) bool {
	for col := range t.Headers {
		if strings.Contains(strings.ToLower(t.Cell(rowIdx, col)), keyword) {
			return true
		}
	}
	return false
}
