package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Danimr96/SportsRank-sub000/models"
	"github.com/Danimr96/SportsRank-sub000/repository/testutil"
)

// seedRound inserts a round with one pick and two options
func seedRound(t *testing.T, testDB *testutil.TestDatabase) (*models.Round, *models.Pick, []*models.PickOption) {
	ctx := context.Background()

	roundRepo := NewRoundRepository(testDB.DB)
	pickRepo := NewPickRepository(testDB.DB)

	round := testutil.CreateTestRound("Matchday 27")
	require.NoError(t, roundRepo.Create(ctx, round))

	pick := testutil.CreateTestPick(round.ID, "football", 0)
	require.NoError(t, pickRepo.CreatePick(ctx, pick))

	home := testutil.CreateTestOption(pick.ID, "Home", 1.9)
	away := testutil.CreateTestOption(pick.ID, "Away", 2.1)
	require.NoError(t, pickRepo.CreateOption(ctx, home))
	require.NoError(t, pickRepo.CreateOption(ctx, away))

	return round, pick, []*models.PickOption{home, away}
}

func TestEntryRepository_SelectionRoundTrip(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	entryRepo := NewEntryRepository(testDB.DB)
	round, pick, options := seedRound(t, testDB)

	entry := testutil.CreateTestEntry(round.ID, 42, "alice")
	require.NoError(t, entryRepo.Create(ctx, entry))
	require.NotZero(t, entry.ID)

	t.Run("upsert inserts then replaces", func(t *testing.T) {
		selection := &models.EntrySelection{
			EntryID:  entry.ID,
			PickID:   pick.ID,
			OptionID: options[0].ID,
			Stake:    300,
		}
		require.NoError(t, entryRepo.UpsertSelection(ctx, selection))
		firstID := selection.ID
		require.NotZero(t, firstID)

		// Same pick again swaps the option and stake, not the row count
		replacement := &models.EntrySelection{
			EntryID:  entry.ID,
			PickID:   pick.ID,
			OptionID: options[1].ID,
			Stake:    500,
		}
		require.NoError(t, entryRepo.UpsertSelection(ctx, replacement))
		assert.Equal(t, firstID, replacement.ID)

		selections, err := entryRepo.GetSelections(ctx, entry.ID)
		require.NoError(t, err)
		require.Len(t, selections, 1)
		assert.Equal(t, options[1].ID, selections[0].OptionID)
		assert.Equal(t, int64(500), selections[0].Stake)
		assert.Nil(t, selections[0].Payout)
	})

	t.Run("one entry per user and round", func(t *testing.T) {
		duplicate := testutil.CreateTestEntry(round.ID, 42, "alice")
		err := entryRepo.Create(ctx, duplicate)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unique")
	})

	t.Run("get by round and user", func(t *testing.T) {
		found, err := entryRepo.GetByRoundAndUser(ctx, round.ID, 42)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entry.ID, found.ID)

		missing, err := entryRepo.GetByRoundAndUser(ctx, round.ID, 999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestEntryRepository_SettlementWrites(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	entryRepo := NewEntryRepository(testDB.DB)
	pickRepo := NewPickRepository(testDB.DB)
	round, pick, options := seedRound(t, testDB)

	entry := testutil.CreateTestEntry(round.ID, 42, "alice")
	require.NoError(t, entryRepo.Create(ctx, entry))

	selection := &models.EntrySelection{
		EntryID:  entry.ID,
		PickID:   pick.ID,
		OptionID: options[0].ID,
		Stake:    200,
	}
	require.NoError(t, entryRepo.UpsertSelection(ctx, selection))

	entry.Status = models.EntryStatusLocked
	require.NoError(t, entryRepo.Update(ctx, entry))

	require.NoError(t, pickRepo.SetOptionResult(ctx, options[0].ID, models.PickResultWin))
	require.NoError(t, pickRepo.SetOptionResult(ctx, options[1].ID, models.PickResultLose))

	unresolved, err := pickRepo.CountUnresolvedOptions(ctx, round.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unresolved)

	// win 200 @ 1.9 pays 380: 1000 - 200 + 380 = 1180
	require.NoError(t, entryRepo.SetSelectionPayout(ctx, selection.ID, 380))
	require.NoError(t, entryRepo.SetSettlement(ctx, entry.ID, 1180))

	settled, err := entryRepo.GetByID(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EntryStatusSettled, settled.Status)
	require.NotNil(t, settled.CreditsEnd)
	assert.Equal(t, int64(1180), *settled.CreditsEnd)

	t.Run("settlement is write-once", func(t *testing.T) {
		err := entryRepo.SetSettlement(ctx, entry.ID, 999)
		assert.Error(t, err)
	})

	t.Run("standings carry odds and results", func(t *testing.T) {
		standings, err := entryRepo.GetStandingsByRound(ctx, round.ID)
		require.NoError(t, err)
		require.Len(t, standings, 1)
		require.Len(t, standings[0].Selections, 1)
		assert.Equal(t, "alice", standings[0].Username)
		assert.Equal(t, 1.9, standings[0].Selections[0].Odds)
		assert.Equal(t, models.PickResultWin, standings[0].Selections[0].Result)
		assert.Equal(t, "football", standings[0].Selections[0].SportSlug)
	})
}

func TestPickRepository_DetailsByRound(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	pickRepo := NewPickRepository(testDB.DB)
	round, pick, options := seedRound(t, testDB)

	second := testutil.CreateTestPick(round.ID, "tennis", 1)
	require.NoError(t, pickRepo.CreatePick(ctx, second))
	require.NoError(t, pickRepo.CreateOption(ctx, testutil.CreateTestOption(second.ID, "Player A", 1.5)))
	require.NoError(t, pickRepo.CreateOption(ctx, testutil.CreateTestOption(second.ID, "Player B", 2.6)))

	details, err := pickRepo.GetDetailsByRound(ctx, round.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)

	assert.Equal(t, pick.ID, details[0].Pick.ID)
	assert.Len(t, details[0].Options, 2)
	assert.Equal(t, "tennis", details[1].Pick.SportSlug)

	// metadata survives the jsonb round trip
	require.NotNil(t, details[0].Pick.Metadata.StartTime)
	assert.Equal(t, "Test League", details[0].Pick.Metadata.League)

	byID, err := pickRepo.GetOptionsByRound(ctx, round.ID)
	require.NoError(t, err)
	assert.Len(t, byID, 4)
	assert.Equal(t, options[0].Odds, byID[options[0].ID].Odds)
}
