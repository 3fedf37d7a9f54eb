package models

import (
	"time"
)

// HistoryRow is one settled selection from a user's history, flattened
// for aggregation. BoardType distinguishes the pool variant the round
// ran under (e.g. "weekly", "special").
type HistoryRow struct {
	Stake     int64      `db:"stake"`
	Payout    int64      `db:"payout"`
	Result    PickResult `db:"result"`
	SportSlug string     `db:"sport_slug"`
	BoardType string     `db:"board_type"`
	PlacedAt  time.Time  `db:"placed_at"`
}

// GroupSummary aggregates the settled selections sharing one group key
type GroupSummary struct {
	Key          string
	Picks        int
	Wins         int
	Losses       int
	Voids        int
	TotalStake   int64
	TotalPayout  int64
	Net          int64
	ROIPercent   float64
	RecoveryRate float64
	HitRate      float64
}

// AnalyticsReport is the full historical breakdown for one user
type AnalyticsReport struct {
	Overall       GroupSummary
	BySport       []GroupSummary
	ByBoardType   []GroupSummary
	ByWeekday     []GroupSummary
	ByStakeBucket []GroupSummary
}
