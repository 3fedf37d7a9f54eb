package service

import (
	"context"
	"fmt"

	"github.com/Danimr96/SportsRank-sub000/engine"
	"github.com/Danimr96/SportsRank-sub000/models"
)

type analyticsService struct {
	uowFactory UnitOfWorkFactory
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(uowFactory UnitOfWorkFactory) AnalyticsService {
	return &analyticsService{
		uowFactory: uowFactory,
	}
}

// UserBreakdown aggregates a user's settled selections into overall and
// grouped performance summaries
func (s *analyticsService) UserBreakdown(ctx context.Context, userID int64) (*models.AnalyticsReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	rows, err := uow.AnalyticsRepository().GetHistoryByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return engine.AggregateHistory(rows), nil
}
