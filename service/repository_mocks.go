package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Danimr96/SportsRank-sub000/events"
	"github.com/Danimr96/SportsRank-sub000/models"
)

// MockRoundRepository is a mock implementation of RoundRepository
type MockRoundRepository struct {
	mock.Mock
}

func (m *MockRoundRepository) Create(ctx context.Context, round *models.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetByID(ctx context.Context, id int64) (*models.Round, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Round), args.Error(1)
}

func (m *MockRoundRepository) Update(ctx context.Context, round *models.Round) error {
	args := m.Called(ctx, round)
	return args.Error(0)
}

func (m *MockRoundRepository) GetByStatus(ctx context.Context, status models.RoundStatus) ([]*models.Round, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Round), args.Error(1)
}

// MockPickRepository is a mock implementation of PickRepository
type MockPickRepository struct {
	mock.Mock
}

func (m *MockPickRepository) CreatePick(ctx context.Context, pick *models.Pick) error {
	args := m.Called(ctx, pick)
	return args.Error(0)
}

func (m *MockPickRepository) CreateOption(ctx context.Context, option *models.PickOption) error {
	args := m.Called(ctx, option)
	return args.Error(0)
}

func (m *MockPickRepository) GetDetailsByRound(ctx context.Context, roundID int64) ([]*models.PickDetail, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PickDetail), args.Error(1)
}

func (m *MockPickRepository) GetOptionsByRound(ctx context.Context, roundID int64) (map[int64]*models.PickOption, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*models.PickOption), args.Error(1)
}

func (m *MockPickRepository) SetOptionResult(ctx context.Context, optionID int64, result models.PickResult) error {
	args := m.Called(ctx, optionID, result)
	return args.Error(0)
}

func (m *MockPickRepository) CountUnresolvedOptions(ctx context.Context, roundID int64) (int, error) {
	args := m.Called(ctx, roundID)
	return args.Int(0), args.Error(1)
}

// MockEntryRepository is a mock implementation of EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id int64) (*models.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetByRoundAndUser(ctx context.Context, roundID, userID int64) (*models.Entry, error) {
	args := m.Called(ctx, roundID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) GetByRound(ctx context.Context, roundID int64) ([]*models.Entry, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) Update(ctx context.Context, entry *models.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) SetSettlement(ctx context.Context, entryID int64, creditsEnd int64) error {
	args := m.Called(ctx, entryID, creditsEnd)
	return args.Error(0)
}

func (m *MockEntryRepository) UpsertSelection(ctx context.Context, selection *models.EntrySelection) error {
	args := m.Called(ctx, selection)
	return args.Error(0)
}

func (m *MockEntryRepository) DeleteSelection(ctx context.Context, entryID, pickID int64) error {
	args := m.Called(ctx, entryID, pickID)
	return args.Error(0)
}

func (m *MockEntryRepository) GetSelections(ctx context.Context, entryID int64) ([]*models.EntrySelection, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EntrySelection), args.Error(1)
}

func (m *MockEntryRepository) SetSelectionPayout(ctx context.Context, selectionID int64, payout int64) error {
	args := m.Called(ctx, selectionID, payout)
	return args.Error(0)
}

func (m *MockEntryRepository) GetStandingsByRound(ctx context.Context, roundID int64) ([]*models.EntryStanding, error) {
	args := m.Called(ctx, roundID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EntryStanding), args.Error(1)
}

// MockAnalyticsRepository is a mock implementation of AnalyticsRepository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) GetHistoryByUser(ctx context.Context, userID int64) ([]models.HistoryRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryRow), args.Error(1)
}

// noopPublisher swallows events in tests that don't assert on them
type noopPublisher struct{}

func (noopPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories
// are injected with SetRepositories rather than mocked per getter.
type MockUnitOfWork struct {
	mock.Mock

	roundRepo     RoundRepository
	pickRepo      PickRepository
	entryRepo     EntryRepository
	analyticsRepo AnalyticsRepository
	eventBus      EventPublisher
}

// SetRepositories wires the repositories the mock getters return
func (m *MockUnitOfWork) SetRepositories(roundRepo RoundRepository, pickRepo PickRepository, entryRepo EntryRepository, analyticsRepo AnalyticsRepository) {
	m.roundRepo = roundRepo
	m.pickRepo = pickRepo
	m.entryRepo = entryRepo
	m.analyticsRepo = analyticsRepo
}

// SetEventBus overrides the no-op publisher for tests asserting on events
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) RoundRepository() RoundRepository {
	return m.roundRepo
}

func (m *MockUnitOfWork) PickRepository() PickRepository {
	return m.pickRepo
}

func (m *MockUnitOfWork) EntryRepository() EntryRepository {
	return m.entryRepo
}

func (m *MockUnitOfWork) AnalyticsRepository() AnalyticsRepository {
	return m.analyticsRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return noopPublisher{}
	}
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
