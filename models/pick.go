package models

import (
	"time"
)

// PickResult represents the settled outcome of a pick option
type PickResult string

const (
	PickResultPending PickResult = "pending"
	PickResultWin     PickResult = "win"
	PickResultLose    PickResult = "lose"
	PickResultVoid    PickResult = "void"
)

// PickMetadata carries the optional event details attached to a pick.
// StartTime is nil when the source feed did not provide one; the
// validation engine reports that as a distinct error code instead of
// guessing.
type PickMetadata struct {
	StartTime *time.Time `json:"start_time,omitempty"`
	League    string     `json:"league,omitempty"`
	Event     string     `json:"event,omitempty"`
	Country   string     `json:"country,omitempty"`
}

// Pick represents one market within a round
type Pick struct {
	ID           int64        `db:"id"`
	RoundID      int64        `db:"round_id"`
	SportSlug    string       `db:"sport_slug"`
	Title        string       `db:"title"`
	Required     bool         `db:"required"`
	DisplayOrder int16        `db:"display_order"`
	Metadata     PickMetadata `db:"metadata"`
	CreatedAt    time.Time    `db:"created_at"`
}

// HasStarted checks whether the underlying event has already kicked off.
// Picks with no start time never count as started; the missing timestamp
// is surfaced separately.
func (p *Pick) HasStarted(now time.Time) bool {
	if p.Metadata.StartTime == nil {
		return false
	}
	return !now.Before(*p.Metadata.StartTime)
}

// PickOption represents one possible outcome of a pick with fixed odds
type PickOption struct {
	ID        int64      `db:"id"`
	PickID    int64      `db:"pick_id"`
	Label     string     `db:"label"`
	Odds      float64    `db:"odds"`
	Result    PickResult `db:"result"`
	CreatedAt time.Time  `db:"created_at"`
}

// IsResolved checks if the option carries a final result
func (o *PickOption) IsResolved() bool {
	return o.Result == PickResultWin || o.Result == PickResultLose || o.Result == PickResultVoid
}

// PickDetail combines a pick with its options
type PickDetail struct {
	Pick    *Pick
	Options []*PickOption
}

// OptionByID returns the option with the given ID, or nil when the
// option does not belong to this pick.
func (pd *PickDetail) OptionByID(optionID int64) *PickOption {
	for _, opt := range pd.Options {
		if opt.ID == optionID {
			return opt
		}
	}
	return nil
}
