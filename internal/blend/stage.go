// Package blend implements the CRM-blend pipeline: field derivation from
// the deal export, per-platform spend aggregation, attribution merge with
// even proration, deterministic deal identity, and the report views.
package blend

import (
	"fmt"
	"strings"
	"time"

	"github.com/AngelCh415/BLEND_GO/internal/models"
)

// EnrollmentStage is the funnel stage that counts as a completed enrollment.
const EnrollmentStage = "Enrollment Completed"

// ExtractStageBase takes the text before the first '(' of a raw CRM stage,
// trimmed and upper-cased: "MATRÍCULA CONCLUÍDA (Unit X)" ->
// "MATRÍCULA CONCLUÍDA". Empty input yields the sentinel.
func ExtractStageBase(raw string) string {
	base := raw
	if i := strings.IndexByte(raw, '('); i >= 0 {
		base = raw[:i]
	}
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return models.NotMapped
	}
	return base
}

// MapStage maps a stage base onto the reporting funnel; misses get the
// sentinel. The mapped value, not the raw text, decides what counts as an
// enrollment.
func MapStage(funnel map[string]string, base string) string {
	if mapped, ok := funnel[base]; ok {
		return mapped
	}
	return models.NotMapped
}

// MapChannel maps a normalized traffic source onto a paid-media channel.
// Anything unmapped is filtered out before the merge stage.
func MapChannel(channels map[string]models.Channel, normalizedSource string) models.Channel {
	if c, ok := channels[normalizedSource]; ok {
		return c
	}
	return models.ChannelUnmapped
}

// CaptureCycle labels the semester-like enrollment-campaign period a date
// falls into. Q4 counts toward the next year's first (high-season) cycle:
//
//	Oct-Dec  -> "(yy+1).1-High"
//	Jan-Mar  -> "(yy).1-High"
//	Apr-Sep  -> "(yy).2-Low"
//
// The zero time yields the sentinel.
func CaptureCycle(t time.Time) string {
	if t.IsZero() {
		return models.NotMapped
	}
	year, month := t.Year(), int(t.Month())
	switch {
	case month >= 10:
		return fmt.Sprintf("%02d.1-High", (year+1)%100)
	case month <= 3:
		return fmt.Sprintf("%02d.1-High", year%100)
	default:
		return fmt.Sprintf("%02d.2-Low", year%100)
	}
}
