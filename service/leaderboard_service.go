package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Danimr96/SportsRank-sub000/cache"
	"github.com/Danimr96/SportsRank-sub000/engine"
	"github.com/Danimr96/SportsRank-sub000/metrics"
	"github.com/Danimr96/SportsRank-sub000/models"
)

type leaderboardService struct {
	uowFactory UnitOfWorkFactory
	boardCache *cache.LeaderboardCache
}

// NewLeaderboardService creates a new leaderboard service. boardCache
// may be nil, in which case every read recomputes the standings.
func NewLeaderboardService(uowFactory UnitOfWorkFactory, boardCache *cache.LeaderboardCache) LeaderboardService {
	return &leaderboardService{
		uowFactory: uowFactory,
		boardCache: boardCache,
	}
}

// GetLeaderboard returns the ranked standings of a round under the given
// mode. The user-agnostic view is cached per round+mode; requests that
// want a personal rank range attached always recompute, because the
// best/worst re-rankings need the full standings, not just the rows.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, roundID int64, mode models.Mode, userID int64) (*models.Leaderboard, error) {
	if s.boardCache != nil && userID == 0 {
		board, err := s.boardCache.Get(ctx, roundID, mode)
		if err != nil {
			log.WithError(err).Warn("Leaderboard cache read failed, recomputing")
		} else if board != nil {
			metrics.LeaderboardCacheHits.WithLabelValues("hit").Inc()
			return board, nil
		} else {
			metrics.LeaderboardCacheHits.WithLabelValues("miss").Inc()
		}
	}

	standings, err := s.getStandings(ctx, roundID)
	if err != nil {
		return nil, err
	}

	board := engine.ComputeLiveLeaderboard(standings, engine.LeaderboardOptions{
		UserID: userID,
		Mode:   mode,
	})
	metrics.LeaderboardComputations.WithLabelValues(string(mode.Kind())).Inc()

	if s.boardCache != nil && userID == 0 {
		if err := s.boardCache.Set(ctx, roundID, mode, board); err != nil {
			log.WithError(err).Warn("Leaderboard cache write failed")
		}
	}

	return board, nil
}

// ProjectEntry returns one entry's score outlook under a scenario
func (s *leaderboardService) ProjectEntry(ctx context.Context, entryID int64, scenario models.Scenario) (*models.EntryProjection, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entry, err := uow.EntryRepository().GetByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, fmt.Errorf("entry %d not found", entryID)
	}

	standings, err := uow.EntryRepository().GetStandingsByRound(ctx, entry.RoundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, standing := range standings {
		if standing.EntryID == entryID {
			return engine.ProjectEntryRange(standing, scenario)
		}
	}
	return nil, fmt.Errorf("entry %d has no standing in round %d", entryID, entry.RoundID)
}

// ProjectRank returns a user's scenario-weighted rank projection
func (s *leaderboardService) ProjectRank(ctx context.Context, roundID, userID int64, scenario models.Scenario) (*models.ProjectedRank, error) {
	standings, err := s.getStandings(ctx, roundID)
	if err != nil {
		return nil, err
	}
	return engine.ComputeProjectedRankRange(standings, userID, scenario)
}

func (s *leaderboardService) getStandings(ctx context.Context, roundID int64) ([]*models.EntryStanding, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	round, err := uow.RoundRepository().GetByID(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return nil, fmt.Errorf("round %d not found", roundID)
	}

	standings, err := uow.EntryRepository().GetStandingsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return standings, nil
}
