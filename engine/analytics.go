package engine

import (
	"sort"

	"github.com/Danimr96/SportsRank-sub000/models"
)

// Stake bucket boundaries, in credits. Buckets label how heavily a user
// commits to individual picks.
var stakeBuckets = []struct {
	label string
	upTo  int64
}{
	{"1-99", 99},
	{"100-499", 499},
	{"500-999", 999},
}

const stakeBucketTop = "1000+"

func stakeBucket(stake int64) string {
	for _, b := range stakeBuckets {
		if stake <= b.upTo {
			return b.label
		}
	}
	return stakeBucketTop
}

type summaryAccumulator struct {
	picks       int
	wins        int
	losses      int
	voids       int
	totalStake  int64
	totalPayout int64
}

func (a *summaryAccumulator) observe(row models.HistoryRow) {
	a.picks++
	a.totalStake += row.Stake
	a.totalPayout += row.Payout
	switch row.Result {
	case models.PickResultWin:
		a.wins++
	case models.PickResultLose:
		a.losses++
	case models.PickResultVoid:
		a.voids++
	}
}

func (a *summaryAccumulator) summary(key string) models.GroupSummary {
	s := models.GroupSummary{
		Key:         key,
		Picks:       a.picks,
		Wins:        a.wins,
		Losses:      a.losses,
		Voids:       a.voids,
		TotalStake:  a.totalStake,
		TotalPayout: a.totalPayout,
		Net:         a.totalPayout - a.totalStake,
	}
	if a.totalStake > 0 {
		s.ROIPercent = float64(s.Net) / float64(a.totalStake) * 100
		s.RecoveryRate = float64(a.totalPayout) / float64(a.totalStake) * 100
	}
	// Voids are pushes, not decided picks.
	if decided := a.wins + a.losses; decided > 0 {
		s.HitRate = float64(a.wins) / float64(decided) * 100
	}
	return s
}

func groupBy(rows []models.HistoryRow, keyOf func(models.HistoryRow) string) []models.GroupSummary {
	groups := make(map[string]*summaryAccumulator)
	for _, row := range rows {
		key := keyOf(row)
		acc, ok := groups[key]
		if !ok {
			acc = &summaryAccumulator{}
			groups[key] = acc
		}
		acc.observe(row)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summaries := make([]models.GroupSummary, 0, len(keys))
	for _, key := range keys {
		summaries = append(summaries, groups[key].summary(key))
	}
	return summaries
}

// AggregateHistory rolls a user's settled selection history up into
// sport, board-type, weekday and stake-bucket summaries plus an overall
// row. Pure aggregation over the provided rows.
func AggregateHistory(rows []models.HistoryRow) *models.AnalyticsReport {
	overall := &summaryAccumulator{}
	for _, row := range rows {
		overall.observe(row)
	}

	return &models.AnalyticsReport{
		Overall: overall.summary("overall"),
		BySport: groupBy(rows, func(r models.HistoryRow) string {
			return r.SportSlug
		}),
		ByBoardType: groupBy(rows, func(r models.HistoryRow) string {
			return r.BoardType
		}),
		ByWeekday: groupBy(rows, func(r models.HistoryRow) string {
			return r.PlacedAt.UTC().Weekday().String()
		}),
		ByStakeBucket: groupBy(rows, func(r models.HistoryRow) string {
			return stakeBucket(r.Stake)
		}),
	}
}
