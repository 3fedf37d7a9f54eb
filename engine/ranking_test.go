package engine

import (
	"testing"
	"time"

	"github.com/Danimr96/SportsRank-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lockTime(offsetMin int) *time.Time {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(offsetMin) * time.Minute)
	return &ts
}

func createTestStanding(entryID, userID int64, selections ...models.StandingSelection) *models.EntryStanding {
	return &models.EntryStanding{
		EntryID:      entryID,
		UserID:       userID,
		Username:     "user",
		CreditsStart: 1000,
		LockedAt:     lockTime(int(entryID)),
		Selections:   selections,
	}
}

func createTestStandings() []*models.EntryStanding {
	// Entry 1: 200@2.0 won, 300@1.5 open -> current 1200, min 900, max 1350.
	// Entry 2: 500@2.0 lost              -> flat 500.
	// Entry 3: nothing staked            -> flat 1000.
	return []*models.EntryStanding{
		createTestStanding(1, 11,
			models.StandingSelection{Stake: 200, Odds: 2.0, Result: models.PickResultWin, SportSlug: "soccer"},
			models.StandingSelection{Stake: 300, Odds: 1.5, Result: models.PickResultPending, SportSlug: "nba"},
		),
		createTestStanding(2, 22,
			models.StandingSelection{Stake: 500, Odds: 2.0, Result: models.PickResultLose, SportSlug: "soccer"},
		),
		createTestStanding(3, 33),
	}
}

func TestComputeLiveLeaderboard(t *testing.T) {
	t.Run("credits scoring and ordering", func(t *testing.T) {
		board := ComputeLiveLeaderboard(createTestStandings(), LeaderboardOptions{UserID: 11, Mode: models.CreditsMode()})

		require.Len(t, board.Rows, 3)
		assert.Equal(t, int64(1), board.Rows[0].EntryID)
		assert.Equal(t, int64(3), board.Rows[1].EntryID)
		assert.Equal(t, int64(2), board.Rows[2].EntryID)

		top := board.Rows[0]
		assert.Equal(t, 1, top.Rank)
		assert.Equal(t, int64(1200), top.CurrentScore)
		assert.Equal(t, int64(900), top.MinScore)
		assert.Equal(t, int64(1350), top.MaxScore)
		assert.Equal(t, 1, top.Unresolved)
	})

	t.Run("rank range spans remaining uncertainty", func(t *testing.T) {
		board := ComputeLiveLeaderboard(createTestStandings(), LeaderboardOptions{UserID: 11, Mode: models.CreditsMode()})

		require.NotNil(t, board.MyRange)
		assert.Equal(t, 1, board.MyRange.CurrentRank)
		assert.Equal(t, 1, board.MyRange.BestRank)
		// Losing the open pick drops entry 1 to 900, under entry 3's 1000.
		assert.Equal(t, 2, board.MyRange.WorstRank)
	})

	t.Run("best current worst are ordered for every entry", func(t *testing.T) {
		standings := createTestStandings()
		for _, userID := range []int64{11, 22, 33} {
			board := ComputeLiveLeaderboard(standings, LeaderboardOptions{UserID: userID, Mode: models.CreditsMode()})
			require.NotNil(t, board.MyRange)
			assert.LessOrEqual(t, board.MyRange.BestRank, board.MyRange.CurrentRank)
			assert.LessOrEqual(t, board.MyRange.CurrentRank, board.MyRange.WorstRank)
		}
	})

	t.Run("ties break on lock time then entry id", func(t *testing.T) {
		early := createTestStanding(5, 55)
		late := createTestStanding(6, 66)
		late.LockedAt = lockTime(60)
		early.LockedAt = lockTime(0)
		never := createTestStanding(4, 44)
		never.LockedAt = nil

		board := ComputeLiveLeaderboard([]*models.EntryStanding{never, late, early}, LeaderboardOptions{Mode: models.CreditsMode()})

		require.Len(t, board.Rows, 3)
		assert.Equal(t, int64(5), board.Rows[0].EntryID)
		assert.Equal(t, int64(6), board.Rows[1].EntryID)
		assert.Equal(t, int64(4), board.Rows[2].EntryID)
		assert.Nil(t, board.MyRange)
	})

	t.Run("net by sport ignores other sports", func(t *testing.T) {
		board := ComputeLiveLeaderboard(createTestStandings(), LeaderboardOptions{UserID: 11, Mode: models.NetBySportMode("soccer")})

		// Entry 1: soccer win nets +200; nba stays out of the score.
		require.Len(t, board.Rows, 3)
		assert.Equal(t, int64(1), board.Rows[0].EntryID)
		assert.Equal(t, int64(200), board.Rows[0].CurrentScore)
		assert.Equal(t, int64(200), board.Rows[0].MinScore)
		assert.Equal(t, int64(200), board.Rows[0].MaxScore)
		assert.Zero(t, board.Rows[0].Unresolved)

		// Entry 2: soccer loss nets -500.
		assert.Equal(t, int64(2), board.Rows[2].EntryID)
		assert.Equal(t, int64(-500), board.Rows[2].CurrentScore)
	})

	t.Run("identical inputs produce identical boards", func(t *testing.T) {
		standings := createTestStandings()
		opts := LeaderboardOptions{UserID: 11, Mode: models.CreditsMode()}

		first := ComputeLiveLeaderboard(standings, opts)
		second := ComputeLiveLeaderboard(standings, opts)

		assert.Equal(t, first, second)
	})
}

func TestProjectEntryRange(t *testing.T) {
	standing := createTestStandings()[0]

	t.Run("base scenario is credit neutral on open picks", func(t *testing.T) {
		proj, err := ProjectEntryRange(standing, models.ScenarioBase)

		require.NoError(t, err)
		assert.Equal(t, proj.CurrentScore, proj.ScenarioScore)
		assert.Equal(t, int64(1200), proj.ScenarioScore)
	})

	t.Run("scenarios order conservative below aggressive", func(t *testing.T) {
		conservative, err := ProjectEntryRange(standing, models.ScenarioConservative)
		require.NoError(t, err)
		base, err := ProjectEntryRange(standing, models.ScenarioBase)
		require.NoError(t, err)
		aggressive, err := ProjectEntryRange(standing, models.ScenarioAggressive)
		require.NoError(t, err)

		// The open selection: 300 staked, conservative keeps 225, aggressive 375.
		assert.Equal(t, int64(1125), conservative.ScenarioScore)
		assert.Equal(t, int64(1275), aggressive.ScenarioScore)
		assert.Less(t, conservative.ScenarioScore, base.ScenarioScore)
		assert.Less(t, base.ScenarioScore, aggressive.ScenarioScore)

		// Scenario score always stays inside the hard bounds.
		for _, p := range []*models.EntryProjection{conservative, base, aggressive} {
			assert.GreaterOrEqual(t, p.ScenarioScore, p.MinScore)
			assert.LessOrEqual(t, p.ScenarioScore, p.MaxScore)
		}
	})

	t.Run("unknown scenario rejected", func(t *testing.T) {
		proj, err := ProjectEntryRange(standing, models.Scenario("wild"))
		require.Error(t, err)
		assert.Nil(t, proj)
	})
}

func TestComputeProjectedRankRange(t *testing.T) {
	t.Run("projected rank with neighborhood", func(t *testing.T) {
		projected, err := ComputeProjectedRankRange(createTestStandings(), 22, models.ScenarioBase)

		require.NoError(t, err)
		assert.Equal(t, int64(2), projected.EntryID)
		assert.Equal(t, 3, projected.ScenarioRank)
		assert.Equal(t, int64(500), projected.ScenarioScore)
		// Entry 2 has nothing unresolved: its rank is already final.
		assert.Equal(t, 3, projected.BestRank)
		assert.Equal(t, 3, projected.WorstRank)
		require.NotEmpty(t, projected.Neighborhood)
		assert.LessOrEqual(t, len(projected.Neighborhood), 2*neighborhoodRadius+1)
	})

	t.Run("user without entry", func(t *testing.T) {
		projected, err := ComputeProjectedRankRange(createTestStandings(), 404, models.ScenarioBase)
		require.Error(t, err)
		assert.Nil(t, projected)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		standings := createTestStandings()
		first, err := ComputeProjectedRankRange(standings, 11, models.ScenarioAggressive)
		require.NoError(t, err)
		second, err := ComputeProjectedRankRange(standings, 11, models.ScenarioAggressive)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}
