package models

import "time"

// Direction is the side of a trade.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// ExecutionStatus classifies how a recorded signal was handled.
type ExecutionStatus string

const (
	// StatusValid is a signal that was taken according to plan.
	StatusValid ExecutionStatus = "Valid"
	// StatusInvalid is a taken trade that broke the trading rules.
	StatusInvalid ExecutionStatus = "Invalid"
	// StatusMissed is a signal that was never executed. Missed trades are
	// excluded from win/loss classification but tracked separately.
	StatusMissed ExecutionStatus = "Missed"
)

// Trade represents a single realized trade record. The analytics core treats
// trades as immutable input; only the import and manual-entry paths create
// or modify them.
type Trade struct {
	// ID is unique within an account. Copy-trades replicated across accounts
	// reuse the same ID, so (AccountID, ID) is the real identity.
	ID        string
	AccountID string

	// GroupID is shared by all copies of one logical trade. Legacy records
	// may not carry one and fall back to fuzzy grouping.
	GroupID string

	Instrument string
	Direction  Direction
	Timestamp  time.Time // entry-adjacent instant
	Date       time.Time // calendar/display date

	// PnL is the signed realized profit or loss in USD.
	PnL float64
	// RiskAmount is the planned risk in USD; 0 means unknown.
	RiskAmount float64

	ExecutionStatus ExecutionStatus
	// IsValid is the legacy validity flag kept for old records. When
	// ExecutionStatus is empty, IsValid == false means Invalid.
	IsValid *bool

	// IsMaster marks the canonical record of a copy-trade group.
	IsMaster bool
}

// Status returns the normalized execution status, folding the legacy
// IsValid flag into the enum so callers only ever branch on one
// representation.
func (t *Trade) Status() ExecutionStatus {
	if t.ExecutionStatus != "" {
		return t.ExecutionStatus
	}
	if t.IsValid != nil && !*t.IsValid {
		return StatusInvalid
	}
	return StatusValid
}

// Countable reports whether the trade participates in win/loss and ratio
// metrics. Missed signals are tracked but never counted.
func (t *Trade) Countable() bool {
	return t.Status() != StatusMissed
}

// Day returns the instant used for calendar-day bucketing. Date wins when
// both are set since it is the user-facing trading day; chronological
// ordering always uses Timestamp.
func (t *Trade) Day() time.Time {
	if !t.Date.IsZero() {
		return t.Date
	}
	return t.Timestamp
}
