package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Danimr96/SportsRank-sub000/database"
	"github.com/Danimr96/SportsRank-sub000/models"
)

// queryable abstracts over a pool and a transaction so repositories work
// inside and outside a unit of work.
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RoundRepository implements the RoundRepository interface
type RoundRepository struct {
	q queryable
}

// NewRoundRepository creates a new round repository
func NewRoundRepository(db *database.DB) *RoundRepository {
	return &RoundRepository{q: db.Pool}
}

// newRoundRepositoryWithTx creates a new round repository with a transaction
func newRoundRepositoryWithTx(tx queryable) *RoundRepository {
	return &RoundRepository{q: tx}
}

const roundColumns = `
	id, name, status, board_type, opens_at, closes_at,
	starting_credits, stake_step, min_stake, max_stake,
	enforce_full_budget, created_at, settled_at
`

func scanRound(row pgx.Row) (*models.Round, error) {
	var round models.Round
	err := row.Scan(
		&round.ID,
		&round.Name,
		&round.Status,
		&round.BoardType,
		&round.OpensAt,
		&round.ClosesAt,
		&round.StartingCredits,
		&round.StakeStep,
		&round.MinStake,
		&round.MaxStake,
		&round.EnforceFullBudget,
		&round.CreatedAt,
		&round.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &round, nil
}

// Create creates a new round and fills in its generated ID
func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	query := `
		INSERT INTO rounds (
			name, status, board_type, opens_at, closes_at,
			starting_credits, stake_step, min_stake, max_stake, enforce_full_budget
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		round.Name,
		round.Status,
		round.BoardType,
		round.OpensAt,
		round.ClosesAt,
		round.StartingCredits,
		round.StakeStep,
		round.MinStake,
		round.MaxStake,
		round.EnforceFullBudget,
	).Scan(&round.ID, &round.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create round %q: %w", round.Name, err)
	}
	return nil
}

// GetByID retrieves a round by its ID
func (r *RoundRepository) GetByID(ctx context.Context, id int64) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	round, err := scanRound(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round %d: %w", id, err)
	}
	return round, nil
}

// Update persists the round's mutable fields
func (r *RoundRepository) Update(ctx context.Context, round *models.Round) error {
	query := `
		UPDATE rounds
		SET name = $1, status = $2, opens_at = $3, closes_at = $4, settled_at = $5
		WHERE id = $6
	`

	result, err := r.q.Exec(ctx, query,
		round.Name,
		round.Status,
		round.OpensAt,
		round.ClosesAt,
		round.SettledAt,
		round.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update round %d: %w", round.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("round %d not found", round.ID)
	}
	return nil
}

// GetByStatus returns all rounds in the given status, newest first
func (r *RoundRepository) GetByStatus(ctx context.Context, status models.RoundStatus) ([]*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE status = $1 ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get rounds by status %s: %w", status, err)
	}
	defer rows.Close()

	var rounds []*models.Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rounds: %w", err)
	}
	return rounds, nil
}
