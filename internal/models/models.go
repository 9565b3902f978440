package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotMapped is the sentinel for every unmapped/unknown text field.
const NotMapped = "Not Mapped"

// Channel is the paid-media category a deal is attributed to.
type Channel int

const (
	ChannelUnmapped Channel = iota
	ChannelPaidSocial
	ChannelPaidSearch
)

func (c Channel) String() string {
	switch c {
	case ChannelPaidSocial:
		return "Paid Social"
	case ChannelPaidSearch:
		return "Paid Search"
	default:
		return NotMapped
	}
}

// DealRecord is one CRM row after field derivation. Records with
// ChannelUnmapped never survive the paid-media filter, so downstream
// stages may assume Channel is PaidSocial or PaidSearch.
type DealRecord struct {
	CreatedAt time.Time
	ClosedAt  time.Time // zero when the deal has no close date

	Unit         string
	PipelineType string

	StageRaw    string // verbatim, keeps the "(Pipeline)" suffix
	StageBase   string // prefix before the first '(', upper-cased
	StageMapped string // one of the 8 funnel stages or NotMapped

	DealValue decimal.Decimal

	TrafficSource     string
	TrafficSourceNorm string

	SourceDetail1 string // campaign-level detail (social side)
	SourceDetail2 string // term-level detail (search side)

	// Normalized merge keys, one per platform join.
	MergeKeySocial string
	MergeKeySearch string

	Channel      Channel
	AccountLabel string

	CaptureCycle        string
	CaptureCycleAtClose string

	IsEnrollment bool
}

// MergedDeal is a DealRecord with its day's attributed spend.
type MergedDeal struct {
	DealRecord

	// MatchedSpend is the total spend matched for this deal's
	// (creation date, channel) group; identical for every deal sharing it.
	MatchedSpend decimal.Decimal
	// LeadsSharingDay is the number of deals in that group, always >= 1.
	LeadsSharingDay int
	// ProratedSpend = MatchedSpend / LeadsSharingDay.
	ProratedSpend decimal.Decimal
}

// IdentifiedDeal is the final per-deal record with its synthesized IDs.
type IdentifiedDeal struct {
	MergedDeal

	LongID   string // e.g. 20250901_DOWNTOWNXX_SOCIA_001_A3F9
	ShortKey string // e.g. 01A3F9001
	Seq      int    // 1-based position inside the (date, unit, channel) group
}
