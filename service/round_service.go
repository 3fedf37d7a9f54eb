package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Danimr96/SportsRank-sub000/config"
	"github.com/Danimr96/SportsRank-sub000/engine"
	"github.com/Danimr96/SportsRank-sub000/models"
)

type roundService struct {
	uowFactory UnitOfWorkFactory
}

// NewRoundService creates a new round service
func NewRoundService(uowFactory UnitOfWorkFactory) RoundService {
	return &roundService{
		uowFactory: uowFactory,
	}
}

// CreateRound creates a draft round, normalizing its stake rules
func (s *roundService) CreateRound(ctx context.Context, name, boardType string, opensAt, closesAt time.Time, startingCredits, stakeStep int64, enforceFullBudget bool) (*models.Round, error) {
	if name == "" {
		return nil, fmt.Errorf("round name cannot be empty")
	}
	if !closesAt.After(opensAt) {
		return nil, fmt.Errorf("round must close after it opens")
	}

	cfg := config.Get()
	if startingCredits <= 0 {
		startingCredits = cfg.DefaultStartingCredits
	}
	if boardType == "" {
		boardType = "weekly"
	}

	step := engine.SanitizeStakeStep(stakeStep, cfg.DefaultStakeStep)
	minStake, maxStake := engine.DeriveStakeRange(startingCredits, step)
	if minStake == 0 {
		return nil, fmt.Errorf("starting credits %d cannot fit a single stake of step %d", startingCredits, step)
	}

	round := &models.Round{
		Name:              name,
		Status:            models.RoundStatusDraft,
		BoardType:         boardType,
		OpensAt:           opensAt,
		ClosesAt:          closesAt,
		StartingCredits:   startingCredits,
		StakeStep:         step,
		MinStake:          minStake,
		MaxStake:          maxStake,
		EnforceFullBudget: enforceFullBudget,
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.RoundRepository().Create(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID":   round.ID,
		"name":      round.Name,
		"stakeStep": round.StakeStep,
		"minStake":  round.MinStake,
		"maxStake":  round.MaxStake,
	}).Info("Created round")

	return round, nil
}

// AddPick adds a pick with its options to a draft round
func (s *roundService) AddPick(ctx context.Context, roundID int64, sportSlug, title string, required bool, metadata models.PickMetadata, options []PickOptionInput) (*models.PickDetail, error) {
	if title == "" {
		return nil, fmt.Errorf("pick title cannot be empty")
	}
	if sportSlug == "" {
		return nil, fmt.Errorf("pick sport cannot be empty")
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("pick needs at least two options, got %d", len(options))
	}
	for _, opt := range options {
		if opt.Odds <= 1.0 {
			return nil, fmt.Errorf("option %q has odds %.2f, must exceed 1.0", opt.Label, opt.Odds)
		}
	}

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
	if round.Status != models.RoundStatusDraft {
		return nil, fmt.Errorf("picks can only be added to draft rounds, round %d is %s", roundID, round.Status)
	}

	existing, err := uow.PickRepository().GetDetailsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks: %w", err)
	}

	pick := &models.Pick{
		RoundID:      roundID,
		SportSlug:    sportSlug,
		Title:        title,
		Required:     required,
		DisplayOrder: int16(len(existing)),
		Metadata:     metadata,
	}
	if err := uow.PickRepository().CreatePick(ctx, pick); err != nil {
		return nil, fmt.Errorf("failed to create pick: %w", err)
	}

	detail := &models.PickDetail{Pick: pick}
	for _, in := range options {
		option := &models.PickOption{
			PickID: pick.ID,
			Label:  in.Label,
			Odds:   in.Odds,
			Result: models.PickResultPending,
		}
		if err := uow.PickRepository().CreateOption(ctx, option); err != nil {
			return nil, fmt.Errorf("failed to create option: %w", err)
		}
		detail.Options = append(detail.Options, option)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return detail, nil
}

// OpenRound moves a draft round to open
func (s *roundService) OpenRound(ctx context.Context, roundID int64) (*models.Round, error) {
	return s.transition(ctx, roundID, models.RoundStatusOpen)
}

// LockRound moves an open round to locked, freezing all entries
func (s *roundService) LockRound(ctx context.Context, roundID int64) (*models.Round, error) {
	return s.transition(ctx, roundID, models.RoundStatusLocked)
}

func (s *roundService) transition(ctx context.Context, roundID int64, next models.RoundStatus) (*models.Round, error) {
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
	if !round.CanTransitionTo(next) {
		return nil, fmt.Errorf("round %d cannot move from %s to %s", roundID, round.Status, next)
	}

	round.Status = next
	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to update round: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"roundID": round.ID,
		"status":  round.Status,
	}).Info("Round transitioned")

	return round, nil
}

// GetRound retrieves a round by ID
func (s *roundService) GetRound(ctx context.Context, roundID int64) (*models.Round, error) {
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

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return round, nil
}

// ListRounds returns all rounds in the given status, newest first
func (s *roundService) ListRounds(ctx context.Context, status models.RoundStatus) ([]*models.Round, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rounds, err := uow.RoundRepository().GetByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return rounds, nil
}

// ListPicks returns the round's picks with options
func (s *roundService) ListPicks(ctx context.Context, roundID int64) ([]*models.PickDetail, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	picks, err := uow.PickRepository().GetDetailsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return picks, nil
}
