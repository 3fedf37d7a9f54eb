package models

import (
	"time"
)

// RoundStatus represents the lifecycle state of a round
type RoundStatus string

const (
	RoundStatusDraft   RoundStatus = "draft"
	RoundStatusOpen    RoundStatus = "open"
	RoundStatusLocked  RoundStatus = "locked"
	RoundStatusSettled RoundStatus = "settled"
)

// Round represents a scoring period with its own budget and stake rules
type Round struct {
	ID                int64       `db:"id"`
	Name              string      `db:"name"`
	Status            RoundStatus `db:"status"`
	BoardType         string      `db:"board_type"`
	OpensAt           time.Time   `db:"opens_at"`
	ClosesAt          time.Time   `db:"closes_at"`
	StartingCredits   int64       `db:"starting_credits"`
	StakeStep         int64       `db:"stake_step"`
	MinStake          int64       `db:"min_stake"`
	MaxStake          int64       `db:"max_stake"`
	EnforceFullBudget bool        `db:"enforce_full_budget"`
	CreatedAt         time.Time   `db:"created_at"`
	SettledAt         *time.Time  `db:"settled_at"`
}

// IsOpen checks if the round is open and inside its selection window
func (r *Round) IsOpen(now time.Time) bool {
	return r.Status == RoundStatusOpen && now.Before(r.ClosesAt)
}

// IsClosed checks if the selection window has passed regardless of status
func (r *Round) IsClosed(now time.Time) bool {
	return !now.Before(r.ClosesAt)
}

// IsSettled checks if the round has been settled
func (r *Round) IsSettled() bool {
	return r.Status == RoundStatusSettled
}

// CanTransitionTo checks whether the round status machine permits the move.
// The only legal path is draft -> open -> locked -> settled.
func (r *Round) CanTransitionTo(next RoundStatus) bool {
	switch r.Status {
	case RoundStatusDraft:
		return next == RoundStatusOpen
	case RoundStatusOpen:
		return next == RoundStatusLocked
	case RoundStatusLocked:
		return next == RoundStatusSettled
	default:
		return false
	}
}
