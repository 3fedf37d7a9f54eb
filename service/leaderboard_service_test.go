package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Danimr96/SportsRank-sub000/models"
)

func createTestStandings() []*models.EntryStanding {
	lockedEarly := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	lockedLate := time.Date(2025, 3, 1, 11, 0, 0, 0, time.UTC)
	return []*models.EntryStanding{
		{
			EntryID:      7,
			UserID:       42,
			Username:     "alice",
			CreditsStart: 1000,
			LockedAt:     &lockedEarly,
			Selections: []models.StandingSelection{
				// resolved win: 1000 - 200 + 400 = 1200 across all scores
				{Stake: 200, Odds: 2.0, Result: models.PickResultWin, SportSlug: "football"},
			},
		},
		{
			EntryID:      8,
			UserID:       43,
			Username:     "bob",
			CreditsStart: 1000,
			LockedAt:     &lockedLate,
			Selections: []models.StandingSelection{
				// unresolved: current 1000, min 700, max 1300
				{Stake: 300, Odds: 2.0, Result: models.PickResultPending, SportSlug: "football"},
			},
		},
	}
}

func setupStandingsMocks(mockRoundRepo *MockRoundRepository, mockEntryRepo *MockEntryRepository, standings []*models.EntryStanding) {
	round := createOpenRound(1)
	round.Status = models.RoundStatusLocked
	mockRoundRepo.On("GetByID", mock.Anything, int64(1)).Return(round, nil)
	mockEntryRepo.On("GetStandingsByRound", mock.Anything, int64(1)).Return(standings, nil)
}

func TestLeaderboardService_GetLeaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("ranks entries and attaches the caller's range", func(t *testing.T) {
		mockFactory, mockUoW, mockRoundRepo, _, mockEntryRepo := newMockUnitOfWork()
		setupCommitTransactionMocks(mockUoW)
		service := NewLeaderboardService(mockFactory, nil)

		setupStandingsMocks(mockRoundRepo, mockEntryRepo, createTestStandings())

		board, err := service.GetLeaderboard(ctx, 1, models.CreditsMode(), 43)

		require.NoError(t, err)
		require.Len(t, board.Rows, 2)
		assert.Equal(t, int64(7), board.Rows[0].EntryID)
		assert.Equal(t, int64(1200), board.Rows[0].CurrentScore)
		assert.Equal(t, int64(8), board.Rows[1].EntryID)
		assert.Equal(t, int64(1000), board.Rows[1].CurrentScore)

		require.NotNil(t, board.MyRange)
		assert.Equal(t, 2, board.MyRange.CurrentRank)
		// bob at max (1300) beats alice's fixed 1200; at min (700) he trails it
		assert.Equal(t, 1, board.MyRange.BestRank)
		assert.Equal(t, 2, board.MyRange.WorstRank)
		assertAllMockExpectations(t, mockUoW, mockEntryRepo)
	})

	t.Run("net by sport ignores other sports", func(t *testing.T) {
		mockFactory, mockUoW, mockRoundRepo, _, mockEntryRepo := newMockUnitOfWork()
		setupCommitTransactionMocks(mockUoW)
		service := NewLeaderboardService(mockFactory, nil)

		standings := createTestStandings()
		standings[0].Selections[0].SportSlug = "tennis"
		setupStandingsMocks(mockRoundRepo, mockEntryRepo, standings)

		board, err := service.GetLeaderboard(ctx, 1, models.NetBySportMode("football"), 0)

		require.NoError(t, err)
		require.Len(t, board.Rows, 2)
		// alice's only selection is tennis, so her football net is zero
		for _, row := range board.Rows {
			if row.EntryID == 7 {
				assert.Equal(t, int64(0), row.CurrentScore)
			}
		}
	})

	t.Run("unknown round fails", func(t *testing.T) {
		mockFactory, mockUoW, mockRoundRepo, _, _ := newMockUnitOfWork()
		setupRollbackTransactionMocks(mockUoW)
		service := NewLeaderboardService(mockFactory, nil)

		mockRoundRepo.On("GetByID", mock.Anything, int64(9)).Return(nil, nil)

		_, err := service.GetLeaderboard(ctx, 9, models.CreditsMode(), 0)

		assert.ErrorContains(t, err, "not found")
	})
}

func TestLeaderboardService_ProjectEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("projects scenario score for one entry", func(t *testing.T) {
		mockFactory, mockUoW, _, _, mockEntryRepo := newMockUnitOfWork()
		setupCommitTransactionMocks(mockUoW)
		service := NewLeaderboardService(mockFactory, nil)

		entry := createBuildingEntry(8, 1, 43)
		entry.Status = models.EntryStatusLocked
		mockEntryRepo.On("GetByID", mock.Anything, int64(8)).Return(entry, nil)
		mockEntryRepo.On("GetStandingsByRound", mock.Anything, int64(1)).Return(createTestStandings(), nil)

		projection, err := service.ProjectEntry(ctx, 8, models.ScenarioAggressive)

		require.NoError(t, err)
		assert.Equal(t, int64(1000), projection.CurrentScore)
		assert.Equal(t, int64(700), projection.MinScore)
		assert.Equal(t, int64(1300), projection.MaxScore)
		// aggressive: 1000 - 300 + floor(300 * 1.25) = 1075
		assert.Equal(t, int64(1075), projection.ScenarioScore)
	})

	t.Run("unknown scenario fails", func(t *testing.T) {
		mockFactory, mockUoW, _, _, mockEntryRepo := newMockUnitOfWork()
		setupCommitTransactionMocks(mockUoW)
		service := NewLeaderboardService(mockFactory, nil)

		entry := createBuildingEntry(8, 1, 43)
		mockEntryRepo.On("GetByID", mock.Anything, int64(8)).Return(entry, nil)
		mockEntryRepo.On("GetStandingsByRound", mock.Anything, int64(1)).Return(createTestStandings(), nil)

		_, err := service.ProjectEntry(ctx, 8, models.Scenario("wild"))

		assert.Error(t, err)
	})
}

func TestLeaderboardService_ProjectRank(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario rank with neighborhood", func(t *testing.T) {
		mockFactory, mockUoW, mockRoundRepo, _, mockEntryRepo := newMockUnitOfWork()
		setupCommitTransactionMocks(mockUoW)
		service := NewLeaderboardService(mockFactory, nil)

		setupStandingsMocks(mockRoundRepo, mockEntryRepo, createTestStandings())

		projected, err := service.ProjectRank(ctx, 1, 43, models.ScenarioBase)

		require.NoError(t, err)
		// base: 1000 - 300 + floor(300 * 1.0) = 1000, behind alice's 1200
		assert.Equal(t, 2, projected.ScenarioRank)
		assert.Equal(t, int64(1000), projected.ScenarioScore)
		assert.Equal(t, 1, projected.BestRank)
		assert.Equal(t, 2, projected.WorstRank)
		assert.Len(t, projected.Neighborhood, 2)
	})

	t.Run("user without entry fails", func(t *testing.T) {
		mockFactory, mockUoW, mockRoundRepo, _, mockEntryRepo := newMockUnitOfWork()
		setupCommitTransactionMocks(mockUoW)
		service := NewLeaderboardService(mockFactory, nil)

		setupStandingsMocks(mockRoundRepo, mockEntryRepo, createTestStandings())

		_, err := service.ProjectRank(ctx, 1, 99, models.ScenarioBase)

		assert.Error(t, err)
	})
}
