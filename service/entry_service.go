package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Danimr96/SportsRank-sub000/engine"
	"github.com/Danimr96/SportsRank-sub000/events"
	"github.com/Danimr96/SportsRank-sub000/metrics"
	"github.com/Danimr96/SportsRank-sub000/models"
)

type entryService struct {
	uowFactory UnitOfWorkFactory
}

// NewEntryService creates a new entry service
func NewEntryService(uowFactory UnitOfWorkFactory) EntryService {
	return &entryService{
		uowFactory: uowFactory,
	}
}

// CreateEntry creates a building entry for a user in an open round
func (s *entryService) CreateEntry(ctx context.Context, roundID, userID int64, username string) (*models.Entry, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
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
	if !round.IsOpen(time.Now()) {
		return nil, fmt.Errorf("round %d is not open for entries", roundID)
	}

	existing, err := uow.EntryRepository().GetByRoundAndUser(ctx, roundID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing entry: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	entry := &models.Entry{
		RoundID:      roundID,
		UserID:       userID,
		Username:     username,
		Ref:          uuid.New().String(),
		Status:       models.EntryStatusBuilding,
		CreditsStart: round.StartingCredits,
	}
	if err := uow.EntryRepository().Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create entry: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"entryID": entry.ID,
		"roundID": roundID,
		"userID":  userID,
	}).Info("Created entry")

	return entry, nil
}

// UpsertSelection validates and persists one selection. Validation runs
// inside the same transaction as the write so a concurrent change to the
// entry's other selections cannot slip past the budget check.
func (s *entryService) UpsertSelection(ctx context.Context, entryID, pickID, optionID, stake int64) (*engine.ValidationResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entry, round, err := s.getEntryAndRound(ctx, uow, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsBuilding() {
		return nil, fmt.Errorf("entry %d is %s, selections are frozen", entryID, entry.Status)
	}

	picks, err := uow.PickRepository().GetDetailsByRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks: %w", err)
	}
	existing, err := uow.EntryRepository().GetSelections(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get selections: %w", err)
	}

	proposed := &models.EntrySelection{
		EntryID:  entryID,
		PickID:   pickID,
		OptionID: optionID,
		Stake:    stake,
	}
	result := engine.ValidateSelection(round, picks, existing, proposed, entry.CreditsStart, time.Now())
	if !result.OK {
		metrics.SelectionsValidated.WithLabelValues("rejected").Inc()
		return result, nil
	}

	if err := uow.EntryRepository().UpsertSelection(ctx, proposed); err != nil {
		return nil, fmt.Errorf("failed to upsert selection: %w", err)
	}

	uow.EventBus().Publish(events.SelectionUpsertedEvent{
		EntryID:    entryID,
		PickID:     pickID,
		OptionID:   optionID,
		Stake:      stake,
		TotalStake: result.TotalStake,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.SelectionsValidated.WithLabelValues("ok").Inc()
	return result, nil
}

// RemoveSelection deletes the entry's selection for a pick
func (s *entryService) RemoveSelection(ctx context.Context, entryID, pickID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entry, round, err := s.getEntryAndRound(ctx, uow, entryID)
	if err != nil {
		return err
	}
	if !entry.IsBuilding() {
		return fmt.Errorf("entry %d is %s, selections are frozen", entryID, entry.Status)
	}
	if !round.IsOpen(time.Now()) {
		return fmt.Errorf("round %d is no longer open", round.ID)
	}

	if err := uow.EntryRepository().DeleteSelection(ctx, entryID, pickID); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LockEntry validates the full selection set and locks the entry
func (s *entryService) LockEntry(ctx context.Context, entryID int64) (*engine.ValidationResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entry, round, err := s.getEntryAndRound(ctx, uow, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.CanLock() {
		return nil, fmt.Errorf("entry %d is %s, cannot lock", entryID, entry.Status)
	}

	picks, err := uow.PickRepository().GetDetailsByRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks: %w", err)
	}
	selections, err := uow.EntryRepository().GetSelections(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get selections: %w", err)
	}

	now := time.Now()
	result := engine.ValidateEntry(round, picks, selections, entry.CreditsStart, now)
	if !result.OK {
		return result, nil
	}

	entry.Status = models.EntryStatusLocked
	entry.LockedAt = &now
	if err := uow.EntryRepository().Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	uow.EventBus().Publish(events.EntryLockedEvent{
		EntryID:    entryID,
		RoundID:    round.ID,
		UserID:     entry.UserID,
		TotalStake: result.TotalStake,
		LockedAt:   now,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.EntriesLocked.Inc()
	log.WithFields(log.Fields{
		"entryID":    entryID,
		"roundID":    round.ID,
		"totalStake": result.TotalStake,
	}).Info("Entry locked")

	return result, nil
}

// UnlockEntry moves a locked entry back to building
func (s *entryService) UnlockEntry(ctx context.Context, entryID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entry, round, err := s.getEntryAndRound(ctx, uow, entryID)
	if err != nil {
		return err
	}
	if !entry.CanUnlock(round, time.Now()) {
		return fmt.Errorf("entry %d cannot unlock: status %s, round %s", entryID, entry.Status, round.Status)
	}

	entry.Status = models.EntryStatusBuilding
	entry.LockedAt = nil
	if err := uow.EntryRepository().Update(ctx, entry); err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	uow.EventBus().Publish(events.EntryUnlockedEvent{
		EntryID: entryID,
		RoundID: round.ID,
		UserID:  entry.UserID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetEntryDetail returns an entry with its selections
func (s *entryService) GetEntryDetail(ctx context.Context, entryID int64) (*models.EntryDetail, error) {
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

	selections, err := uow.EntryRepository().GetSelections(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get selections: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.EntryDetail{Entry: entry, Selections: selections}, nil
}

func (s *entryService) getEntryAndRound(ctx context.Context, uow UnitOfWork, entryID int64) (*models.Entry, *models.Round, error) {
	entry, err := uow.EntryRepository().GetByID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get entry: %w", err)
	}
	if entry == nil {
		return nil, nil, fmt.Errorf("entry %d not found", entryID)
	}

	round, err := uow.RoundRepository().GetByID(ctx, entry.RoundID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get round: %w", err)
	}
	if round == nil {
		return nil, nil, fmt.Errorf("round %d not found", entry.RoundID)
	}

	return entry, round, nil
}
