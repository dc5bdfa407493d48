package service

import (
	"context"

	"creditsvc/events"
	"creditsvc/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByAnonID(ctx context.Context, anonID string) (*models.User, error) {
	args := m.Called(ctx, anonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, anonID string) (*models.User, error) {
	args := m.Called(ctx, anonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, anonID string, name, avatarURL *string) (*models.User, error) {
	args := m.Called(ctx, anonID, name, avatarURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) LinkUser(ctx context.Context, anonID, userID string) (*models.User, error) {
	args := m.Called(ctx, anonID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockCreditsRepository is a mock implementation of CreditsRepository
type MockCreditsRepository struct {
	mock.Mock
}

func (m *MockCreditsRepository) GetByAnonID(ctx context.Context, anonID string) (*models.Credits, error) {
	args := m.Called(ctx, anonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credits), args.Error(1)
}

func (m *MockCreditsRepository) GetByAnonIDForUpdate(ctx context.Context, anonID string) (*models.Credits, error) {
	args := m.Called(ctx, anonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credits), args.Error(1)
}

func (m *MockCreditsRepository) Create(ctx context.Context, anonID string, balance int64) (*models.Credits, error) {
	args := m.Called(ctx, anonID, balance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Credits), args.Error(1)
}

func (m *MockCreditsRepository) UpdateBalance(ctx context.Context, anonID string, newBalance int64) error {
	args := m.Called(ctx, anonID, newBalance)
	return args.Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByAnonID(ctx context.Context, anonID string, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, anonID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) GetLastDailyBonus(ctx context.Context, anonID string) (*models.LedgerEntry, error) {
	args := m.Called(ctx, anonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumAmounts(ctx context.Context, anonID string) (int64, error) {
	args := m.Called(ctx, anonID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// noopPublisher drops events; used when a test does not assert on them
type noopPublisher struct{}

func (noopPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository
// accessors return whatever SetRepositories installed rather than going
// through testify expectations.
type MockUnitOfWork struct {
	mock.Mock
	userRepo    UserRepository
	creditsRepo CreditsRepository
	ledgerRepo  LedgerRepository
	publisher   EventPublisher
}

// SetRepositories installs the repositories returned by the accessor methods
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, creditsRepo CreditsRepository, ledgerRepo LedgerRepository) {
	m.userRepo = userRepo
	m.creditsRepo = creditsRepo
	m.ledgerRepo = ledgerRepo
}

// SetEventPublisher installs the publisher returned by EventBus
func (m *MockUnitOfWork) SetEventPublisher(publisher EventPublisher) {
	m.publisher = publisher
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

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) CreditsRepository() CreditsRepository {
	return m.creditsRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.publisher == nil {
		return noopPublisher{}
	}
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
