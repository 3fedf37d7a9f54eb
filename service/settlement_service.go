package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Danimr96/SportsRank-sub000/engine"
	"github.com/Danimr96/SportsRank-sub000/events"
	"github.com/Danimr96/SportsRank-sub000/metrics"
	"github.com/Danimr96/SportsRank-sub000/models"
)

type settlementService struct {
	uowFactory UnitOfWorkFactory
}

// NewSettlementService creates a new settlement service
func NewSettlementService(uowFactory UnitOfWorkFactory) SettlementService {
	return &settlementService{
		uowFactory: uowFactory,
	}
}

// ResolveOption records the final result of one option
func (s *settlementService) ResolveOption(ctx context.Context, optionID int64, result models.PickResult) error {
	switch result {
	case models.PickResultWin, models.PickResultLose, models.PickResultVoid:
	default:
		return fmt.Errorf("result %q is not a final result", result)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PickRepository().SetOptionResult(ctx, optionID, result); err != nil {
		return fmt.Errorf("failed to set option result: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SettleRound settles every entry in a locked round atomically. Every
// entry's payouts and final credits land in one transaction together
// with the round's status flip; a single unresolved option or integrity
// failure aborts the whole settlement.
func (s *settlementService) SettleRound(ctx context.Context, roundID int64) (*RoundSettlementSummary, error) {
	timer := time.Now()

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
	if !round.CanTransitionTo(models.RoundStatusSettled) {
		return nil, fmt.Errorf("round %d is %s, only locked rounds settle", roundID, round.Status)
	}

	unresolved, err := uow.PickRepository().CountUnresolvedOptions(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unresolved options: %w", err)
	}
	if unresolved > 0 {
		return nil, fmt.Errorf("round %d has %d unresolved options", roundID, unresolved)
	}

	options, err := uow.PickRepository().GetOptionsByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}

	entries, err := uow.EntryRepository().GetByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}

	now := time.Now()
	settled := 0
	for _, entry := range entries {
		if entry.IsSettled() {
			continue
		}

		// Entries still building when the round locked never joined
		// the board; they settle at their starting credits untouched.
		if entry.IsBuilding() {
			if err := uow.EntryRepository().SetSettlement(ctx, entry.ID, entry.CreditsStart); err != nil {
				return nil, fmt.Errorf("failed to settle entry %d: %w", entry.ID, err)
			}
			settled++
			continue
		}

		selections, err := uow.EntryRepository().GetSelections(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get selections for entry %d: %w", entry.ID, err)
		}

		result, err := engine.SettleEntry(entry.CreditsStart, selections, options)
		if err != nil {
			return nil, fmt.Errorf("failed to settle entry %d: %w", entry.ID, err)
		}

		for _, sp := range result.Selections {
			if err := uow.EntryRepository().SetSelectionPayout(ctx, sp.SelectionID, sp.Payout); err != nil {
				return nil, fmt.Errorf("failed to set payout for selection %d: %w", sp.SelectionID, err)
			}
		}
		if err := uow.EntryRepository().SetSettlement(ctx, entry.ID, result.CreditsEnd); err != nil {
			return nil, fmt.Errorf("failed to settle entry %d: %w", entry.ID, err)
		}

		uow.EventBus().Publish(events.EntrySettledEvent{
			EntryID:      entry.ID,
			RoundID:      roundID,
			UserID:       entry.UserID,
			CreditsStart: entry.CreditsStart,
			CreditsEnd:   result.CreditsEnd,
		})
		settled++
	}

	round.Status = models.RoundStatusSettled
	round.SettledAt = &now
	if err := uow.RoundRepository().Update(ctx, round); err != nil {
		return nil, fmt.Errorf("failed to update round: %w", err)
	}

	uow.EventBus().Publish(events.RoundSettledEvent{
		RoundID:        roundID,
		EntriesSettled: settled,
		SettledAt:      now,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.EntriesSettled.Add(float64(settled))
	metrics.RoundsSettled.Inc()
	metrics.SettlementDuration.Observe(time.Since(timer).Seconds())

	log.WithFields(log.Fields{
		"roundID":        roundID,
		"entriesSettled": settled,
	}).Info("Round settled")

	return &RoundSettlementSummary{
		RoundID:        roundID,
		EntriesSettled: settled,
		SettledAt:      now,
	}, nil
}
