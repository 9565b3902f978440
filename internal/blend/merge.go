package blend

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/BLEND_GO/internal/models"
)

type dayChannel struct {
	date    time.Time
	channel models.Channel
}

// MergeSpend attributes platform spend to deals and prorates it.
//
// Matching is at (date, channel) granularity: for each (creation date,
// channel) group, the matched total is the summed spend of the distinct
// merge keys its deals carry — PaidSocial deals join the social table on
// the campaign detail, PaidSearch deals join the search table on the term
// detail; misses contribute zero. The total is then shared evenly across
// every deal in the group, so the group's prorated spend always sums back
// to its matched total.
func MergeSpend(deals []models.DealRecord, social, search SpendTable) []models.MergedDeal {
	counts := make(map[dayChannel]int)
	matchedKeys := make(map[dayChannel]map[string]struct{})
	for _, d := range deals {
		g := dayChannel{date: d.CreatedAt, channel: d.Channel}
		counts[g]++
		if matchedKeys[g] == nil {
			matchedKeys[g] = make(map[string]struct{})
		}
		matchedKeys[g][mergeKey(d)] = struct{}{}
	}

	totals := make(map[dayChannel]decimal.Decimal, len(matchedKeys))
	for g, keys := range matchedKeys {
		table := social
		if g.channel == models.ChannelPaidSearch {
			table = search
		}
		total := decimal.Zero
		for k := range keys {
			total = total.Add(table.Lookup(g.date, k))
		}
		totals[g] = total
	}

	out := make([]models.MergedDeal, 0, len(deals))
	for _, d := range deals {
		g := dayChannel{date: d.CreatedAt, channel: d.Channel}
		m := models.MergedDeal{
			DealRecord:      d,
			MatchedSpend:    totals[g],
			LeadsSharingDay: counts[g],
		}
		// Every deal belongs to its own group, so the count is >= 1;
		// guarded anyway.
		if m.LeadsSharingDay > 0 {
			m.ProratedSpend = m.MatchedSpend.Div(decimal.NewFromInt(int64(m.LeadsSharingDay)))
		} else {
			m.ProratedSpend = decimal.Zero
		}
		out = append(out, m)
	}
	return out
}

func mergeKey(d models.DealRecord) string {
	if d.Channel == models.ChannelPaidSearch {
		return d.MergeKeySearch
	}
	return d.MergeKeySocial
}
