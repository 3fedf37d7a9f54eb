package repository

import (
	"context"
	"fmt"

	"github.com/Danimr96/SportsRank-sub000/database"
	"github.com/Danimr96/SportsRank-sub000/models"
)

// AnalyticsRepository implements the AnalyticsRepository interface
type AnalyticsRepository struct {
	q queryable
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *database.DB) *AnalyticsRepository {
	return &AnalyticsRepository{q: db.Pool}
}

// newAnalyticsRepositoryWithTx creates a new analytics repository with a transaction
func newAnalyticsRepositoryWithTx(tx queryable) *AnalyticsRepository {
	return &AnalyticsRepository{q: tx}
}

// GetHistoryByUser returns one row per settled selection of the user
func (r *AnalyticsRepository) GetHistoryByUser(ctx context.Context, userID int64) ([]models.HistoryRow, error) {
	query := `
		SELECT s.stake, COALESCE(s.payout, 0), o.result, p.sport_slug, r.board_type, s.created_at
		FROM entry_selections s
		JOIN entries e ON e.id = s.entry_id
		JOIN picks p ON p.id = s.pick_id
		JOIN pick_options o ON o.id = s.option_id
		JOIN rounds r ON r.id = e.round_id
		WHERE e.user_id = $1 AND e.status = 'settled'
		ORDER BY s.created_at
	`

	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for user %d: %w", userID, err)
	}
	defer rows.Close()

	var history []models.HistoryRow
	for rows.Next() {
		var row models.HistoryRow
		err := rows.Scan(
			&row.Stake,
			&row.Payout,
			&row.Result,
			&row.SportSlug,
			&row.BoardType,
			&row.PlacedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history = append(history, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return history, nil
}
