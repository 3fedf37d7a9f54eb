package models

import (
	"time"
)

// EntryStatus represents the lifecycle state of an entry
type EntryStatus string

const (
	EntryStatusBuilding EntryStatus = "building"
	EntryStatusLocked   EntryStatus = "locked"
	EntryStatusSettled  EntryStatus = "settled"
)

// Entry represents one user's participation in a round. CreditsStart is
// copied from the round at creation; CreditsEnd is written once at
// settlement and never touched again. Username is the display name
// captured when the entry is created.
type Entry struct {
	ID           int64       `db:"id"`
	RoundID      int64       `db:"round_id"`
	UserID       int64       `db:"user_id"`
	Username     string      `db:"username"`
	Ref          string      `db:"ref"`
	Status       EntryStatus `db:"status"`
	CreditsStart int64       `db:"credits_start"`
	CreditsEnd   *int64      `db:"credits_end"`
	LockedAt     *time.Time  `db:"locked_at"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

// IsBuilding checks if the entry still accepts selection changes
func (e *Entry) IsBuilding() bool {
	return e.Status == EntryStatusBuilding
}

// IsLocked checks if the entry has been locked in
func (e *Entry) IsLocked() bool {
	return e.Status == EntryStatusLocked
}

// IsSettled checks if the entry has been settled
func (e *Entry) IsSettled() bool {
	return e.Status == EntryStatusSettled
}

// CanLock checks if the entry may move to locked
func (e *Entry) CanLock() bool {
	return e.Status == EntryStatusBuilding
}

// CanUnlock checks if a locked entry may go back to building. Unlocking
// is only allowed while the round's selection window is still open;
// settled entries never move.
func (e *Entry) CanUnlock(round *Round, now time.Time) bool {
	return e.Status == EntryStatusLocked && round.IsOpen(now)
}

// EntrySelection represents one chosen option with a stake for one pick
// within an entry. Payout is written at settlement.
type EntrySelection struct {
	ID        int64     `db:"id"`
	EntryID   int64     `db:"entry_id"`
	PickID    int64     `db:"pick_id"`
	OptionID  int64     `db:"option_id"`
	Stake     int64     `db:"stake"`
	Payout    *int64    `db:"payout"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// EntryDetail combines an entry with its selections
type EntryDetail struct {
	Entry      *Entry
	Selections []*EntrySelection
}

// SelectionForPick returns the entry's selection for the given pick, or
// nil when the pick has not been answered yet.
func (ed *EntryDetail) SelectionForPick(pickID int64) *EntrySelection {
	for _, sel := range ed.Selections {
		if sel.PickID == pickID {
			return sel
		}
	}
	return nil
}

// TotalStake sums the stakes across all selections
func (ed *EntryDetail) TotalStake() int64 {
	var total int64
	for _, sel := range ed.Selections {
		total += sel.Stake
	}
	return total
}
