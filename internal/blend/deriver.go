package blend

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/config"
	"github.com/AngelCh415/BLEND_GO/internal/models"
	"github.com/AngelCh415/BLEND_GO/internal/normalize"
	"github.com/AngelCh415/BLEND_GO/internal/tabular"
)

var (
	// ErrColumnNotFound marks a required CRM column that could not be
	// resolved. Fatal for the whole run.
	ErrColumnNotFound = errors.New("required column not found")
	// ErrNoValidRows means no CRM row survived date parsing.
	ErrNoValidRows = errors.New("no rows with a valid creation date")
)

// Derivation is the outcome of CRM field derivation: the paid-media deal
// set plus the row-level counts reported in aggregate.
type Derivation struct {
	Deals []models.DealRecord

	RowsLoaded      int
	DroppedDates    int // rows with an unparseable creation date
	FilteredChannel int // rows whose traffic source maps to no paid channel
}

// crmField is an optional column: resolved index or -1.
type crmField struct {
	idx int
}

func (f crmField) value(t *tabular.Table, row int) string {
	if f.idx < 0 {
		return ""
	}
	return t.Cell(row, f.idx)
}

func (f crmField) text(t *tabular.Table, row int) string {
	if v := f.value(t, row); v != "" {
		return v
	}
	return models.NotMapped
}

// DeriveDeals resolves the CRM export's columns, derives the canonical
// fields of every row, and applies the paid-media filter. Creation date and
// stage are required; everything else degrades to a sentinel or zero.
func DeriveDeals(t *tabular.Table, cfg config.Config) (*Derivation, error) {
	// Resolution happens against normalized (snake) headers so accents,
	// casing and spacing differences between exports don't matter.
	headers := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = normalize.ColumnName(h)
	}
	resolve := func(candidates []string) crmField {
		name, ok := tabular.FindColumn(headers, candidates)
		if !ok {
			return crmField{idx: -1}
		}
		for i, h := range headers {
			if h == name {
				return crmField{idx: i}
			}
		}
		return crmField{idx: -1}
	}

	created := resolve(cfg.CRMColumns.CreatedDate)
	if created.idx < 0 {
		return nil, fmt.Errorf("%w: creation date (candidates %v)", ErrColumnNotFound, cfg.CRMColumns.CreatedDate)
	}
	stage := resolve(cfg.CRMColumns.Stage)
	if stage.idx < 0 {
		return nil, fmt.Errorf("%w: deal stage (candidates %v)", ErrColumnNotFound, cfg.CRMColumns.Stage)
	}

	closed := resolve(cfg.CRMColumns.CloseDate)
	unit := resolve(cfg.CRMColumns.Unit)
	pipeline := resolve(cfg.CRMColumns.Pipeline)
	value := resolve(cfg.CRMColumns.DealValue)
	source := resolve(cfg.CRMColumns.TrafficSource)
	detail1 := resolve(cfg.CRMColumns.SourceDetail1)
	detail2 := resolve(cfg.CRMColumns.SourceDetail2)

	d := &Derivation{RowsLoaded: t.Len()}
	for row := 0; row < t.Len(); row++ {
		createdAt, ok := tabular.ParseDate(created.value(t, row))
		if !ok {
			d.DroppedDates++
			continue
		}

		rec := models.DealRecord{
			CreatedAt:     createdAt,
			Unit:          unit.text(t, row),
			PipelineType:  pipeline.text(t, row),
			StageRaw:      stage.text(t, row),
			TrafficSource: source.text(t, row),
			SourceDetail1: detail1.text(t, row),
			SourceDetail2: detail2.text(t, row),
		}
		if closedAt, ok := tabular.ParseDate(closed.value(t, row)); ok {
			rec.ClosedAt = closedAt
		}
		rec.DealValue = decimal.Zero
		if value.idx >= 0 {
			rec.DealValue = tabular.ParseMoney(value.value(t, row))
		}

		rec.StageBase = ExtractStageBase(rec.StageRaw)
		rec.StageMapped = MapStage(cfg.FunnelMap, rec.StageBase)
		rec.IsEnrollment = rec.StageMapped == EnrollmentStage

		rec.TrafficSourceNorm = normalize.Text(rec.TrafficSource)
		rec.MergeKeySocial = normalize.Text(rec.SourceDetail1)
		rec.MergeKeySearch = normalize.Text(rec.SourceDetail2)

		rec.Channel = MapChannel(cfg.ChannelMap, rec.TrafficSourceNorm)
		if rec.Channel == models.ChannelUnmapped {
			d.FilteredChannel++
			continue
		}
		switch rec.Channel {
		case models.ChannelPaidSocial:
			rec.AccountLabel = cfg.SocialAccountLabel
		case models.ChannelPaidSearch:
			rec.AccountLabel = cfg.SearchAccountLabel
		}

		rec.CaptureCycle = CaptureCycle(rec.CreatedAt)
		rec.CaptureCycleAtClose = CaptureCycle(rec.ClosedAt)

		d.Deals = append(d.Deals, rec)
	}

	if d.RowsLoaded > 0 && d.DroppedDates == d.RowsLoaded {
		return nil, ErrNoValidRows
	}
	return d, nil
}
