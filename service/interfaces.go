package service

import (
	"context"
	"time"

	"github.com/Danimr96/SportsRank-sub000/engine"
	"github.com/Danimr96/SportsRank-sub000/events"
	"github.com/Danimr96/SportsRank-sub000/models"
)

// RoundRepository defines the interface for round data access
type RoundRepository interface {
	// Create creates a new round and fills in its generated ID
	Create(ctx context.Context, round *models.Round) error

	// GetByID retrieves a round by its ID
	GetByID(ctx context.Context, id int64) (*models.Round, error)

	// Update persists the round's mutable fields
	Update(ctx context.Context, round *models.Round) error

	// GetByStatus returns all rounds in the given status, newest first
	GetByStatus(ctx context.Context, status models.RoundStatus) ([]*models.Round, error)
}

// PickRepository defines the interface for pick and option data access
type PickRepository interface {
	// CreatePick creates a new pick and fills in its generated ID
	CreatePick(ctx context.Context, pick *models.Pick) error

	// CreateOption creates a new option and fills in its generated ID
	CreateOption(ctx context.Context, option *models.PickOption) error

	// GetDetailsByRound returns all picks in a round with their options,
	// ordered by display order
	GetDetailsByRound(ctx context.Context, roundID int64) ([]*models.PickDetail, error)

	// GetOptionsByRound returns every option in a round keyed by option ID
	GetOptionsByRound(ctx context.Context, roundID int64) (map[int64]*models.PickOption, error)

	// SetOptionResult records the final result of one option
	SetOptionResult(ctx context.Context, optionID int64, result models.PickResult) error

	// CountUnresolvedOptions returns how many options in a round are still pending
	CountUnresolvedOptions(ctx context.Context, roundID int64) (int, error)
}

// EntryRepository defines the interface for entry and selection data access
type EntryRepository interface {
	// Create creates a new entry and fills in its generated ID
	Create(ctx context.Context, entry *models.Entry) error

	// GetByID retrieves an entry by its ID
	GetByID(ctx context.Context, id int64) (*models.Entry, error)

	// GetByRoundAndUser retrieves a user's entry in a round
	GetByRoundAndUser(ctx context.Context, roundID, userID int64) (*models.Entry, error)

	// GetByRound returns all entries in a round
	GetByRound(ctx context.Context, roundID int64) ([]*models.Entry, error)

	// Update persists the entry's mutable fields (status, locked_at)
	Update(ctx context.Context, entry *models.Entry) error

	// SetSettlement writes the entry's final credits and marks it settled
	SetSettlement(ctx context.Context, entryID int64, creditsEnd int64) error

	// UpsertSelection inserts or replaces the entry's selection for a pick
	UpsertSelection(ctx context.Context, selection *models.EntrySelection) error

	// DeleteSelection removes the entry's selection for a pick
	DeleteSelection(ctx context.Context, entryID, pickID int64) error

	// GetSelections returns all selections of an entry
	GetSelections(ctx context.Context, entryID int64) ([]*models.EntrySelection, error)

	// SetSelectionPayout writes a selection's settled payout
	SetSelectionPayout(ctx context.Context, selectionID int64, payout int64) error

	// GetStandingsByRound returns a ranking snapshot of every locked or
	// settled entry in a round, selections joined with their option's
	// odds, result, and sport
	GetStandingsByRound(ctx context.Context, roundID int64) ([]*models.EntryStanding, error)
}

// AnalyticsRepository defines the interface for settled history access
type AnalyticsRepository interface {
	// GetHistoryByUser returns one row per settled selection of the user,
	// across all settled rounds
	GetHistoryByUser(ctx context.Context, userID int64) ([]models.HistoryRow, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// PickOptionInput is one proposed option when adding a pick to a round
type PickOptionInput struct {
	Label string
	Odds  float64
}

// RoundService defines the interface for round lifecycle operations
type RoundService interface {
	// CreateRound creates a draft round, normalizing its stake rules
	CreateRound(ctx context.Context, name, boardType string, opensAt, closesAt time.Time, startingCredits, stakeStep int64, enforceFullBudget bool) (*models.Round, error)

	// AddPick adds a pick with its options to a draft round
	AddPick(ctx context.Context, roundID int64, sportSlug, title string, required bool, metadata models.PickMetadata, options []PickOptionInput) (*models.PickDetail, error)

	// OpenRound moves a draft round to open
	OpenRound(ctx context.Context, roundID int64) (*models.Round, error)

	// LockRound moves an open round to locked, freezing all entries
	LockRound(ctx context.Context, roundID int64) (*models.Round, error)

	// GetRound retrieves a round by ID
	GetRound(ctx context.Context, roundID int64) (*models.Round, error)

	// ListRounds returns all rounds in the given status, newest first
	ListRounds(ctx context.Context, status models.RoundStatus) ([]*models.Round, error)

	// ListPicks returns the round's picks with options
	ListPicks(ctx context.Context, roundID int64) ([]*models.PickDetail, error)
}

// EntryService defines the interface for entry building operations
type EntryService interface {
	// CreateEntry creates a building entry for a user in an open round
	CreateEntry(ctx context.Context, roundID, userID int64, username string) (*models.Entry, error)

	// UpsertSelection validates and persists one selection. When the
	// validation fails the result carries every violation and nothing
	// is written.
	UpsertSelection(ctx context.Context, entryID, pickID, optionID, stake int64) (*engine.ValidationResult, error)

	// RemoveSelection deletes the entry's selection for a pick
	RemoveSelection(ctx context.Context, entryID, pickID int64) error

	// LockEntry validates the full selection set and locks the entry.
	// A failed validation returns the violations and leaves the entry
	// building.
	LockEntry(ctx context.Context, entryID int64) (*engine.ValidationResult, error)

	// UnlockEntry moves a locked entry back to building while the
	// round's selection window is still open
	UnlockEntry(ctx context.Context, entryID int64) error

	// GetEntryDetail returns an entry with its selections
	GetEntryDetail(ctx context.Context, entryID int64) (*models.EntryDetail, error)
}

// RoundSettlementSummary reports the outcome of a round settlement
type RoundSettlementSummary struct {
	RoundID        int64
	EntriesSettled int
	SettledAt      time.Time
}

// SettlementService defines the interface for resolving and settling
type SettlementService interface {
	// ResolveOption records the final result of one option
	ResolveOption(ctx context.Context, optionID int64, result models.PickResult) error

	// SettleRound settles every entry in a locked round atomically.
	// It fails without writing anything if any option is unresolved.
	SettleRound(ctx context.Context, roundID int64) (*RoundSettlementSummary, error)
}

// LeaderboardService defines the interface for standings and projections
type LeaderboardService interface {
	// GetLeaderboard returns the ranked standings of a round under the
	// given mode. userID, when non-zero, selects whose rank range to
	// attach. Results are cached briefly.
	GetLeaderboard(ctx context.Context, roundID int64, mode models.Mode, userID int64) (*models.Leaderboard, error)

	// ProjectEntry returns one entry's score outlook under a scenario
	ProjectEntry(ctx context.Context, entryID int64, scenario models.Scenario) (*models.EntryProjection, error)

	// ProjectRank returns a user's scenario-weighted rank projection in
	// a round, with the neighboring rows for context
	ProjectRank(ctx context.Context, roundID, userID int64, scenario models.Scenario) (*models.ProjectedRank, error)
}

// AnalyticsService defines the interface for settled-history breakdowns
type AnalyticsService interface {
	// UserBreakdown aggregates a user's settled selections into overall
	// and grouped performance summaries
	UserBreakdown(ctx context.Context, userID int64) (*models.AnalyticsReport, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	RoundRepository() RoundRepository
	PickRepository() PickRepository
	EntryRepository() EntryRepository
	AnalyticsRepository() AnalyticsRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
