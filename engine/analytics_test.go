package engine

import (
	"testing"
	"time"

	"github.com/Danimr96/SportsRank-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyRow(stake, payout int64, result models.PickResult, sport, board string, placed time.Time) models.HistoryRow {
	return models.HistoryRow{
		Stake:     stake,
		Payout:    payout,
		Result:    result,
		SportSlug: sport,
		BoardType: board,
		PlacedAt:  placed,
	}
}

func TestAggregateHistory(t *testing.T) {
	monday := time.Date(2025, 2, 3, 18, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 2, 8, 12, 0, 0, 0, time.UTC)

	rows := []models.HistoryRow{
		historyRow(200, 400, models.PickResultWin, "soccer", "weekly", monday),
		historyRow(300, 0, models.PickResultLose, "soccer", "weekly", saturday),
		historyRow(90, 90, models.PickResultVoid, "nba", "weekly", saturday),
		historyRow(1200, 3000, models.PickResultWin, "nba", "special", monday),
	}

	report := AggregateHistory(rows)

	t.Run("overall summary", func(t *testing.T) {
		overall := report.Overall
		assert.Equal(t, 4, overall.Picks)
		assert.Equal(t, 2, overall.Wins)
		assert.Equal(t, 1, overall.Losses)
		assert.Equal(t, 1, overall.Voids)
		assert.Equal(t, int64(1790), overall.TotalStake)
		assert.Equal(t, int64(3490), overall.TotalPayout)
		assert.Equal(t, int64(1700), overall.Net)
		assert.InDelta(t, 94.97, overall.ROIPercent, 0.01)
		assert.InDelta(t, 194.97, overall.RecoveryRate, 0.01)
		// Voids do not count against the hit rate.
		assert.InDelta(t, 66.66, overall.HitRate, 0.01)
	})

	t.Run("grouped by sport with sorted keys", func(t *testing.T) {
		require.Len(t, report.BySport, 2)
		assert.Equal(t, "nba", report.BySport[0].Key)
		assert.Equal(t, "soccer", report.BySport[1].Key)

		soccer := report.BySport[1]
		assert.Equal(t, 2, soccer.Picks)
		assert.Equal(t, int64(500), soccer.TotalStake)
		assert.Equal(t, int64(-100), soccer.Net)
		assert.InDelta(t, -20.0, soccer.ROIPercent, 0.001)
	})

	t.Run("grouped by board type", func(t *testing.T) {
		require.Len(t, report.ByBoardType, 2)
		assert.Equal(t, "special", report.ByBoardType[0].Key)
		assert.Equal(t, "weekly", report.ByBoardType[1].Key)
		assert.Equal(t, 3, report.ByBoardType[1].Picks)
	})

	t.Run("grouped by weekday", func(t *testing.T) {
		require.Len(t, report.ByWeekday, 2)
		assert.Equal(t, "Monday", report.ByWeekday[0].Key)
		assert.Equal(t, "Saturday", report.ByWeekday[1].Key)
		assert.Equal(t, 2, report.ByWeekday[0].Picks)
	})

	t.Run("grouped by stake bucket", func(t *testing.T) {
		buckets := make(map[string]models.GroupSummary, len(report.ByStakeBucket))
		for _, s := range report.ByStakeBucket {
			buckets[s.Key] = s
		}
		assert.Equal(t, 1, buckets["1000+"].Picks)
		assert.Equal(t, 2, buckets["100-499"].Picks)
		assert.Equal(t, 1, buckets["1-99"].Picks)
	})

	t.Run("empty history", func(t *testing.T) {
		report := AggregateHistory(nil)

		assert.Zero(t, report.Overall.Picks)
		assert.Zero(t, report.Overall.ROIPercent)
		assert.Empty(t, report.BySport)
		assert.Empty(t, report.ByWeekday)
	})
}
