package blend

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/AngelCh415/BLEND_GO/internal/models"
	"github.com/AngelCh415/BLEND_GO/internal/normalize"
)

// AssignIDs synthesizes the long ID and short key of every deal.
//
// Deals are grouped by (creation date YYYYMMDD, unit, channel); within a
// group they are ordered by deal value descending, input order breaking
// ties, and numbered from 1. The long ID concatenates date, a 10-letter
// unit segment, a 5-letter channel segment, the 3-digit sequence and a
// 4-hex-digit hash suffix; the hash only guards against truncation
// collisions, uniqueness comes from the group key plus the sequence.
// Output order is (group key, sequence), which is deterministic.
func AssignIDs(deals []models.MergedDeal) []models.IdentifiedDeal {
	type indexed struct {
		deal models.MergedDeal
		key  string
		pos  int
	}
	rows := make([]indexed, len(deals))
	for i, d := range deals {
		rows[i] = indexed{deal: d, key: groupKey(d.DealRecord), pos: i}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].key != rows[j].key {
			return rows[i].key < rows[j].key
		}
		if !rows[i].deal.DealValue.Equal(rows[j].deal.DealValue) {
			return rows[i].deal.DealValue.GreaterThan(rows[j].deal.DealValue)
		}
		return rows[i].pos < rows[j].pos
	})

	out := make([]models.IdentifiedDeal, 0, len(rows))
	seq, prevKey := 0, ""
	for _, r := range rows {
		if r.key != prevKey {
			seq, prevKey = 0, r.key
		}
		seq++

		dateStr := r.deal.CreatedAt.Format("20060102")
		seqStr := fmt.Sprintf("%03d", seq)
		hash := idHash(r.key + "_" + seqStr)

		longID := strings.Join([]string{
			dateStr,
			padFold(r.deal.Unit, 10),
			padFold(channelSegment(r.deal.Channel), 5),
			seqStr,
			hash,
		}, "_")

		out = append(out, models.IdentifiedDeal{
			MergedDeal: r.deal,
			LongID:     longID,
			ShortKey:   dateStr[6:] + hash + seqStr,
			Seq:        seq,
		})
	}
	return out
}

func groupKey(d models.DealRecord) string {
	return d.CreatedAt.Format("20060102") + "_" + d.Unit + "_" + d.Channel.String()
}

// channelSegment keeps the discriminating word so the two paid channels
// fold to distinct 5-letter segments (SOCIA / SEARC).
func channelSegment(c models.Channel) string {
	return strings.TrimPrefix(c.String(), "Paid ")
}

// padFold reduces s to upper-case ASCII letters, truncated or X-padded to
// exactly n characters.
func padFold(s string, n int) string {
	folded := normalize.FoldLettersUpper(s)
	if len(folded) > n {
		return folded[:n]
	}
	return folded + strings.Repeat("X", n-len(folded))
}

func idHash(stableKey string) string {
	sum := sha1.Sum([]byte(stableKey))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:4])
}
