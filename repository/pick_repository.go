package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Danimr96/SportsRank-sub000/database"
	"github.com/Danimr96/SportsRank-sub000/models"
)

// PickRepository implements the PickRepository interface
type PickRepository struct {
	q queryable
}

// NewPickRepository creates a new pick repository
func NewPickRepository(db *database.DB) *PickRepository {
	return &PickRepository{q: db.Pool}
}

// newPickRepositoryWithTx creates a new pick repository with a transaction
func newPickRepositoryWithTx(tx queryable) *PickRepository {
	return &PickRepository{q: tx}
}

// CreatePick creates a new pick and fills in its generated ID
func (r *PickRepository) CreatePick(ctx context.Context, pick *models.Pick) error {
	query := `
		INSERT INTO picks (round_id, sport_slug, title, required, display_order, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		pick.RoundID,
		pick.SportSlug,
		pick.Title,
		pick.Required,
		pick.DisplayOrder,
		pick.Metadata,
	).Scan(&pick.ID, &pick.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pick %q: %w", pick.Title, err)
	}
	return nil
}

// CreateOption creates a new option and fills in its generated ID
func (r *PickRepository) CreateOption(ctx context.Context, option *models.PickOption) error {
	query := `
		INSERT INTO pick_options (pick_id, label, odds, result)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		option.PickID,
		option.Label,
		option.Odds,
		option.Result,
	).Scan(&option.ID, &option.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create option %q: %w", option.Label, err)
	}
	return nil
}

// GetDetailsByRound returns all picks in a round with their options
func (r *PickRepository) GetDetailsByRound(ctx context.Context, roundID int64) ([]*models.PickDetail, error) {
	pickQuery := `
		SELECT id, round_id, sport_slug, title, required, display_order, metadata, created_at
		FROM picks
		WHERE round_id = $1
		ORDER BY display_order, id
	`

	rows, err := r.q.Query(ctx, pickQuery, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get picks for round %d: %w", roundID, err)
	}
	defer rows.Close()

	var details []*models.PickDetail
	byPick := make(map[int64]*models.PickDetail)
	for rows.Next() {
		var pick models.Pick
		err := rows.Scan(
			&pick.ID,
			&pick.RoundID,
			&pick.SportSlug,
			&pick.Title,
			&pick.Required,
			&pick.DisplayOrder,
			&pick.Metadata,
			&pick.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		detail := &models.PickDetail{Pick: &pick}
		details = append(details, detail)
		byPick[pick.ID] = detail
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate picks: %w", err)
	}
	rows.Close()

	optionQuery := `
		SELECT o.id, o.pick_id, o.label, o.odds, o.result, o.created_at
		FROM pick_options o
		JOIN picks p ON p.id = o.pick_id
		WHERE p.round_id = $1
		ORDER BY o.pick_id, o.id
	`

	optRows, err := r.q.Query(ctx, optionQuery, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options for round %d: %w", roundID, err)
	}
	defer optRows.Close()

	for optRows.Next() {
		option, err := scanOption(optRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		if detail, ok := byPick[option.PickID]; ok {
			detail.Options = append(detail.Options, option)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}
	return details, nil
}

// GetOptionsByRound returns every option in a round keyed by option ID
func (r *PickRepository) GetOptionsByRound(ctx context.Context, roundID int64) (map[int64]*models.PickOption, error) {
	query := `
		SELECT o.id, o.pick_id, o.label, o.odds, o.result, o.created_at
		FROM pick_options o
		JOIN picks p ON p.id = o.pick_id
		WHERE p.round_id = $1
	`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options for round %d: %w", roundID, err)
	}
	defer rows.Close()

	options := make(map[int64]*models.PickOption)
	for rows.Next() {
		option, err := scanOption(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options[option.ID] = option
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate options: %w", err)
	}
	return options, nil
}

// SetOptionResult records the final result of one option
func (r *PickRepository) SetOptionResult(ctx context.Context, optionID int64, result models.PickResult) error {
	query := `UPDATE pick_options SET result = $1 WHERE id = $2`

	tag, err := r.q.Exec(ctx, query, result, optionID)
	if err != nil {
		return fmt.Errorf("failed to set result for option %d: %w", optionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("option %d not found", optionID)
	}
	return nil
}

// CountUnresolvedOptions returns how many options in a round are still pending
func (r *PickRepository) CountUnresolvedOptions(ctx context.Context, roundID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM pick_options o
		JOIN picks p ON p.id = o.pick_id
		WHERE p.round_id = $1 AND o.result = 'pending'
	`

	var count int
	if err := r.q.QueryRow(ctx, query, roundID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unresolved options for round %d: %w", roundID, err)
	}
	return count, nil
}

func scanOption(row pgx.Row) (*models.PickOption, error) {
	var option models.PickOption
	err := row.Scan(
		&option.ID,
		&option.PickID,
		&option.Label,
		&option.Odds,
		&option.Result,
		&option.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &option, nil
}
