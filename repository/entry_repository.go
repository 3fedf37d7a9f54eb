package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Danimr96/SportsRank-sub000/database"
	"github.com/Danimr96/SportsRank-sub000/models"
)

// EntryRepository implements the EntryRepository interface
type EntryRepository struct {
	q queryable
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *database.DB) *EntryRepository {
	return &EntryRepository{q: db.Pool}
}

// newEntryRepositoryWithTx creates a new entry repository with a transaction
func newEntryRepositoryWithTx(tx queryable) *EntryRepository {
	return &EntryRepository{q: tx}
}

const entryColumns = `
	id, round_id, user_id, username, ref, status,
	credits_start, credits_end, locked_at, created_at, updated_at
`

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var entry models.Entry
	err := row.Scan(
		&entry.ID,
		&entry.RoundID,
		&entry.UserID,
		&entry.Username,
		&entry.Ref,
		&entry.Status,
		&entry.CreditsStart,
		&entry.CreditsEnd,
		&entry.LockedAt,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create creates a new entry and fills in its generated ID
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO entries (round_id, user_id, username, ref, status, credits_start)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.RoundID,
		entry.UserID,
		entry.Username,
		entry.Ref,
		entry.Status,
		entry.CreditsStart,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create entry for user %d in round %d: %w", entry.UserID, entry.RoundID, err)
	}
	return nil
}

// GetByID retrieves an entry by its ID
func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry, err := scanEntry(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %d: %w", id, err)
	}
	return entry, nil
}

// GetByRoundAndUser retrieves a user's entry in a round
func (r *EntryRepository) GetByRoundAndUser(ctx context.Context, roundID, userID int64) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE round_id = $1 AND user_id = $2`

	entry, err := scanEntry(r.q.QueryRow(ctx, query, roundID, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry for user %d in round %d: %w", userID, roundID, err)
	}
	return entry, nil
}

// GetByRound returns all entries in a round
func (r *EntryRepository) GetByRound(ctx context.Context, roundID int64) ([]*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE round_id = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries for round %d: %w", roundID, err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// Update persists the entry's mutable fields
func (r *EntryRepository) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE entries
		SET status = $1, locked_at = $2, updated_at = NOW()
		WHERE id = $3
	`

	tag, err := r.q.Exec(ctx, query, entry.Status, entry.LockedAt, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to update entry %d: %w", entry.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %d not found", entry.ID)
	}
	return nil
}

// SetSettlement writes the entry's final credits and marks it settled
func (r *EntryRepository) SetSettlement(ctx context.Context, entryID int64, creditsEnd int64) error {
	query := `
		UPDATE entries
		SET status = 'settled', credits_end = $1, updated_at = NOW()
		WHERE id = $2 AND status != 'settled'
	`

	tag, err := r.q.Exec(ctx, query, creditsEnd, entryID)
	if err != nil {
		return fmt.Errorf("failed to settle entry %d: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %d not found or already settled", entryID)
	}
	return nil
}

// UpsertSelection inserts or replaces the entry's selection for a pick
func (r *EntryRepository) UpsertSelection(ctx context.Context, selection *models.EntrySelection) error {
	query := `
		INSERT INTO entry_selections (entry_id, pick_id, option_id, stake)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (entry_id, pick_id)
		DO UPDATE SET option_id = EXCLUDED.option_id, stake = EXCLUDED.stake, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		selection.EntryID,
		selection.PickID,
		selection.OptionID,
		selection.Stake,
	).Scan(&selection.ID, &selection.CreatedAt, &selection.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert selection for entry %d pick %d: %w", selection.EntryID, selection.PickID, err)
	}
	return nil
}

// DeleteSelection removes the entry's selection for a pick
func (r *EntryRepository) DeleteSelection(ctx context.Context, entryID, pickID int64) error {
	query := `DELETE FROM entry_selections WHERE entry_id = $1 AND pick_id = $2`

	tag, err := r.q.Exec(ctx, query, entryID, pickID)
	if err != nil {
		return fmt.Errorf("failed to delete selection for entry %d pick %d: %w", entryID, pickID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %d has no selection for pick %d", entryID, pickID)
	}
	return nil
}

// GetSelections returns all selections of an entry
func (r *EntryRepository) GetSelections(ctx context.Context, entryID int64) ([]*models.EntrySelection, error) {
	query := `
		SELECT id, entry_id, pick_id, option_id, stake, payout, created_at, updated_at
		FROM entry_selections
		WHERE entry_id = $1
		ORDER BY pick_id
	`

	rows, err := r.q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get selections for entry %d: %w", entryID, err)
	}
	defer rows.Close()

	var selections []*models.EntrySelection
	for rows.Next() {
		var sel models.EntrySelection
		err := rows.Scan(
			&sel.ID,
			&sel.EntryID,
			&sel.PickID,
			&sel.OptionID,
			&sel.Stake,
			&sel.Payout,
			&sel.CreatedAt,
			&sel.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, &sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate selections: %w", err)
	}
	return selections, nil
}

// SetSelectionPayout writes a selection's settled payout
func (r *EntryRepository) SetSelectionPayout(ctx context.Context, selectionID int64, payout int64) error {
	query := `UPDATE entry_selections SET payout = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.q.Exec(ctx, query, payout, selectionID)
	if err != nil {
		return fmt.Errorf("failed to set payout for selection %d: %w", selectionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("selection %d not found", selectionID)
	}
	return nil
}

// GetStandingsByRound returns a ranking snapshot of every locked or
// settled entry in a round. Entries without selections still appear,
// scored on their untouched starting credits.
func (r *EntryRepository) GetStandingsByRound(ctx context.Context, roundID int64) ([]*models.EntryStanding, error) {
	query := `
		SELECT
			e.id, e.user_id, e.username, e.credits_start, e.locked_at,
			s.stake, o.odds, o.result, p.sport_slug
		FROM entries e
		LEFT JOIN entry_selections s ON s.entry_id = e.id
		LEFT JOIN pick_options o ON o.id = s.option_id
		LEFT JOIN picks p ON p.id = s.pick_id
		WHERE e.round_id = $1 AND e.status IN ('locked', 'settled')
		ORDER BY e.id, s.pick_id
	`

	rows, err := r.q.Query(ctx, query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get standings for round %d: %w", roundID, err)
	}
	defer rows.Close()

	var standings []*models.EntryStanding
	byEntry := make(map[int64]*models.EntryStanding)
	for rows.Next() {
		var (
			entryID      int64
			userID       int64
			username     string
			creditsStart int64
			lockedAt     *time.Time
			stake        *int64
			odds         *float64
			result       *models.PickResult
			sportSlug    *string
		)
		err := rows.Scan(&entryID, &userID, &username, &creditsStart, &lockedAt, &stake, &odds, &result, &sportSlug)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}

		standing, ok := byEntry[entryID]
		if !ok {
			standing = &models.EntryStanding{
				EntryID:      entryID,
				UserID:       userID,
				Username:     username,
				CreditsStart: creditsStart,
				LockedAt:     lockedAt,
			}
			byEntry[entryID] = standing
			standings = append(standings, standing)
		}

		// stake is NULL when the entry has no selections at all
		if stake != nil && odds != nil && result != nil && sportSlug != nil {
			standing.Selections = append(standing.Selections, models.StandingSelection{
				Stake:     *stake,
				Odds:      *odds,
				Result:    *result,
				SportSlug: *sportSlug,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate standings: %w", err)
	}
	return standings, nil
}
