package blend

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/models"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

// Sheet names of the output workbook.
const (
	SheetGranular   = "Granular_View"
	SheetAggregate  = "Blend_Aggregate"
	SheetEnrollment = "Enrollments_By_Close"
)

// Report holds the three output views. Enrollment is nil when no deal
// reached the enrollment stage; the sheet is then omitted entirely.
type Report struct {
	Granular   tabular.Sheet
	Aggregate  tabular.Sheet
	Enrollment *tabular.Sheet
}

// BuildReport projects the identified deals into the three views. Row
// order in every sheet is deterministic for a given input.
func BuildReport(deals []models.IdentifiedDeal, cfg config.Config) *Report {
	cycles := distinctCycles(deals, func(d models.IdentifiedDeal) string { return d.CaptureCycle })
	return &Report{
		Granular:   granularSheet(deals, cfg, cycles),
		Aggregate:  aggregateSheet(deals, cycles),
		Enrollment: enrollmentSheet(deals),
	}
}

// cycleColumn derives the dynamic column name of a capture cycle:
// "26.1-High" -> "Enrollments_26_1_High".
func cycleColumn(cycle string) string {
	return "Enrollments_" + strings.NewReplacer(".", "_", "-", "_", " ", "_").Replace(cycle)
}

func distinctCycles(deals []models.IdentifiedDeal, cycleOf func(models.IdentifiedDeal) string) []string {
	seen := make(map[string]struct{})
	for _, d := range deals {
		c := cycleOf(d)
		if c == models.NotMapped {
			continue
		}
		seen[c] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func formatDate(t time.Time) any {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func granularSheet(deals []models.IdentifiedDeal, cfg config.Config, cycles []string) tabular.Sheet {
	headers := []string{
		"Deal_ID", "Lead_Key", "Date", "Close_Date", "Capture_Cycle", "Close_Capture_Cycle",
		"Unit", "Pipeline", "Total_Deals", "Paid_Media_Spend", "Deal_Value", "Enrollments",
		"Stage", "Channel", "Campaign", "Term", "Traffic_Source", "Account", "Management_Area",
	}
	for _, c := range cycles {
		headers = append(headers, cycleColumn(c))
	}

	rows := make([][]any, 0, len(deals))
	for _, d := range deals {
		row := []any{
			d.LongID, d.ShortKey, formatDate(d.CreatedAt), formatDate(d.ClosedAt),
			d.CaptureCycle, d.CaptureCycleAtClose,
			d.Unit, d.PipelineType, 1, money(d.ProratedSpend), money(d.DealValue), boolCount(d.IsEnrollment),
			d.StageMapped, d.Channel.String(), d.SourceDetail1, d.SourceDetail2,
			d.TrafficSource, d.AccountLabel, cfg.ManagementArea,
		}
		for _, c := range cycles {
			row = append(row, boolCount(d.IsEnrollment && d.CaptureCycle == c))
		}
		rows = append(rows, row)
	}
	return tabular.Sheet{Name: SheetGranular, Headers: headers, Rows: rows}
}

type aggKey struct {
	date     time.Time
	channel  string
	campaign string
	term     string
	stage    string
	pipeline string
	unit     string
}

type aggRow struct {
	deals       int
	enrollments int
	spend       decimal.Decimal
	value       decimal.Decimal
	perCycle    []int
}

func aggregateSheet(deals []models.IdentifiedDeal, cycles []string) tabular.Sheet {
	acc := make(map[aggKey]*aggRow)
	for _, d := range deals {
		k := aggKey{
			date:     d.CreatedAt,
			channel:  d.Channel.String(),
			campaign: d.SourceDetail1,
			term:     d.SourceDetail2,
			stage:    d.StageMapped,
			pipeline: d.PipelineType,
			unit:     d.Unit,
		}
		r, ok := acc[k]
		if !ok {
			r = &aggRow{perCycle: make([]int, len(cycles))}
			acc[k] = r
		}
		r.deals++
		r.enrollments += boolCount(d.IsEnrollment)
		r.spend = r.spend.Add(d.ProratedSpend)
		r.value = r.value.Add(d.DealValue)
		for i, c := range cycles {
			if d.IsEnrollment && d.CaptureCycle == c {
				r.perCycle[i]++
			}
		}
	}

	headers := []string{
		"Date", "Channel", "Campaign", "Term", "Stage", "Pipeline", "Unit",
		"Total_Deals", "Enrollments", "Spend", "Deal_Value",
	}
	for _, c := range cycles {
		headers = append(headers, cycleColumn(c))
	}

	keys := sortedAggKeys(acc)
	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		r := acc[k]
		row := []any{
			formatDate(k.date), k.channel, k.campaign, k.term, k.stage, k.pipeline, k.unit,
			r.deals, r.enrollments, money(r.spend), money(r.value),
		}
		for _, n := range r.perCycle {
			row = append(row, n)
		}
		rows = append(rows, row)
	}
	return tabular.Sheet{Name: SheetAggregate, Headers: headers, Rows: rows}
}

// enrollmentSheet aggregates enrollment deals by close date and close-date
// cycle. Returns nil when no enrollments exist so the sheet is omitted.
func enrollmentSheet(deals []models.IdentifiedDeal) *tabular.Sheet {
	enrolled := deals[:0:0]
	for _, d := range deals {
		if d.IsEnrollment {
			enrolled = append(enrolled, d)
		}
	}
	if len(enrolled) == 0 {
		return nil
	}

	cycles := distinctCycles(enrolled, func(d models.IdentifiedDeal) string { return d.CaptureCycleAtClose })

	acc := make(map[aggKey]*aggRow)
	for _, d := range enrolled {
		k := aggKey{
			date:     d.ClosedAt,
			stage:    d.CaptureCycleAtClose, // close-date cycle takes the grouping slot
			channel:  d.Channel.String(),
			campaign: d.SourceDetail1,
			term:     d.SourceDetail2,
			pipeline: d.PipelineType,
			unit:     d.Unit,
		}
		r, ok := acc[k]
		if !ok {
			r = &aggRow{perCycle: make([]int, len(cycles))}
			acc[k] = r
		}
		r.deals++
		r.enrollments++
		r.spend = r.spend.Add(d.ProratedSpend)
		r.value = r.value.Add(d.DealValue)
		for i, c := range cycles {
			if d.CaptureCycleAtClose == c {
				r.perCycle[i]++
			}
		}
	}

	headers := []string{
		"Close_Date", "Capture_Cycle", "Channel", "Campaign", "Term", "Pipeline", "Unit",
		"Total_Enrollments", "Spend", "Deal_Value",
	}
	for _, c := range cycles {
		headers = append(headers, cycleColumn(c))
	}

	keys := sortedAggKeys(acc)
	rows := make([][]any, 0, len(keys))
	for _, k := range keys {
		r := acc[k]
		row := []any{
			formatDate(k.date), k.stage, k.channel, k.campaign, k.term, k.pipeline, k.unit,
			r.enrollments, money(r.spend), money(r.value),
		}
		for _, n := range r.perCycle {
			row = append(row, n)
		}
		rows = append(rows, row)
	}
	s := tabular.Sheet{Name: SheetEnrollment, Headers: headers, Rows: rows}
	return &s
}

func sortedAggKeys(acc map[aggKey]*aggRow) []aggKey {
	keys := make([]aggKey, 0, len(acc))
	for k := range acc {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		if a.channel != b.channel {
			return a.channel < b.channel
		}
		if a.campaign != b.campaign {
			return a.campaign < b.campaign
		}
		if a.term != b.term {
			return a.term < b.term
		}
		if a.stage != b.stage {
			return a.stage < b.stage
		}
		if a.pipeline != b.pipeline {
			return a.pipeline < b.pipeline
		}
		return a.unit < b.unit
	})
	return keys
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
