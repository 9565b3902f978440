package blend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

// RunSummary is the aggregate outcome of one blend run. Row-level problems
// surface here as counts, never as individual errors.
type RunSummary struct {
	RunID string `json:"run_id"`

	RowsLoaded      int `json:"rows_loaded"`
	DroppedDates    int `json:"dropped_invalid_dates"`
	FilteredChannel int `json:"filtered_non_paid"`
	PaidDeals       int `json:"paid_deals"`
	Enrollments     int `json:"enrollments"`

	MatchedSpend  float64 `json:"matched_spend"`
	ProratedSpend float64 `json:"prorated_spend"`
	DealValue     float64 `json:"deal_value"`

	OutputFile string        `json:"output_file"`
	Sheets     []string      `json:"sheets"`
	Duration   time.Duration `json:"duration_ns"`
}

// Run executes the whole blend: load the CRM export, derive and filter
// deals, aggregate platform spend, merge and prorate, assign IDs, build the
// three report views and write the timestamped workbook.
//
// Missing platform spend degrades to zero; a missing CRM file, unresolved
// required column, no valid dates, or a failed workbook write are fatal.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) (*RunSummary, error) {
	start := time.Now()
	sum := &RunSummary{RunID: uuid.NewString()}
	log = log.With(slog.String("run_id", sum.RunID))

	crm, err := tabular.ReadAny(cfg.CRMFile, tabular.ReadOptions{})
	if err != nil {
		return nil, fmt.Errorf("load crm export %s: %w", cfg.CRMFile, err)
	}
	log.Info("crm export loaded", slog.String("path", cfg.CRMFile), slog.Int("rows", crm.Len()))

	derived, err := DeriveDeals(crm, cfg)
	if err != nil {
		return nil, fmt.Errorf("derive crm fields: %w", err)
	}
	sum.RowsLoaded = derived.RowsLoaded
	sum.DroppedDates = derived.DroppedDates
	sum.FilteredChannel = derived.FilteredChannel
	sum.PaidDeals = len(derived.Deals)
	log.Info("deals derived",
		slog.Int("rows", derived.RowsLoaded),
		slog.Int("dropped_invalid_dates", derived.DroppedDates),
		slog.Int("filtered_non_paid", derived.FilteredChannel),
		slog.Int("paid_deals", len(derived.Deals)))

	social := LoadSpend(cfg.MetaFile, cfg.MetaSheet, cfg.MetaColumns, log)
	search := LoadSpend(cfg.GoogleFile, cfg.GoogleSheet, cfg.GoogleColumns, log)

	merged := MergeSpend(derived.Deals, social, search)
	identified := AssignIDs(merged)

	matched, prorated, value := decimal.Zero, decimal.Zero, decimal.Zero
	seenGroups := make(map[dayChannel]struct{})
	for _, d := range identified {
		g := dayChannel{date: d.CreatedAt, channel: d.Channel}
		if _, ok := seenGroups[g]; !ok {
			seenGroups[g] = struct{}{}
			matched = matched.Add(d.MatchedSpend)
		}
		prorated = prorated.Add(d.ProratedSpend)
		value = value.Add(d.DealValue)
		if d.IsEnrollment {
			sum.Enrollments++
		}
	}
	sum.MatchedSpend = money(matched)
	sum.ProratedSpend = money(prorated)
	sum.DealValue = money(value)
	log.Info("spend merged",
		slog.Float64("matched_spend", sum.MatchedSpend),
		slog.Float64("prorated_spend", sum.ProratedSpend),
		slog.Int("enrollments", sum.Enrollments))

	report := BuildReport(identified, cfg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	outFile := filepath.Join(cfg.OutputDir,
		fmt.Sprintf("%s_%s.xlsx", cfg.OutputBase, start.Format("20060102_150405")))

	var wb tabular.Workbook
	wb.AddSheet(report.Granular)
	wb.AddSheet(report.Aggregate)
	sum.Sheets = []string{report.Granular.Name, report.Aggregate.Name}
	if report.Enrollment != nil {
		wb.AddSheet(*report.Enrollment)
		sum.Sheets = append(sum.Sheets, report.Enrollment.Name)
	} else {
		log.Warn("no enrollments, omitting sheet", slog.String("sheet", SheetEnrollment))
	}
	if err := wb.Save(outFile); err != nil {
		return nil, err
	}

	sum.OutputFile = outFile
	sum.Duration = time.Since(start)
	log.Info("blend complete",
		slog.String("output", outFile),
		slog.Int("sheets", len(sum.Sheets)),
		slog.Duration("took", sum.Duration))
	return sum, nil
}
