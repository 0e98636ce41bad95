package submit_request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	availabilityModels "github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
	"github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
	"github.com/m04kA/SMC-ConsoleRental/pkg/keylock"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

var now = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

type MockConsoleRepository struct{ mock.Mock }

func (m *MockConsoleRepository) GetByID(ctx context.Context, id string) (*domain.Console, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Console), args.Error(1)
}

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.RentalRequest) (*domain.RentalRequest, error) {
	args := m.Called(ctx, req)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return req, nil
}

func (m *MockRequestRepository) UpdateDecision(ctx context.Context, req *domain.RentalRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockHoldService struct{ mock.Mock }

func (m *MockHoldService) TempReserve(ctx context.Context, userID int64, consoleID string, ttl time.Duration) (*availabilityModels.TempReservationResponse, error) {
	args := m.Called(ctx, userID, consoleID, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*availabilityModels.TempReservationResponse), args.Error(1)
}

func (m *MockHoldService) IsTempReserved(ctx context.Context, consoleID string, excludeUserID *int64) (bool, *int64, error) {
	args := m.Called(ctx, consoleID, excludeUserID)
	var holder *int64
	if args.Get(1) != nil {
		holder = args.Get(1).(*int64)
	}
	return args.Bool(0), holder, args.Error(2)
}

type MockRentalStarter struct{ mock.Mock }

func (m *MockRentalStarter) StartLocked(ctx context.Context, p *book_console.StartParams) (*domain.Rental, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

type MockSettingsProvider struct{ mock.Mock }

func (m *MockSettingsProvider) Current(ctx context.Context) (*domain.AdminSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSettings), args.Error(1)
}

type MockEventDispatcher struct{ mock.Mock }

func (m *MockEventDispatcher) Dispatch(ctx context.Context, event *domain.RentalEvent) {
	m.Called(ctx, event)
}

type passThroughTx struct{}

func (passThroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type mocks struct {
	consoles   *MockConsoleRepository
	requests   *MockRequestRepository
	users      *MockUserRepository
	holds      *MockHoldService
	starter    *MockRentalStarter
	settings   *MockSettingsProvider
	dispatcher *MockEventDispatcher
}

func setup(settings *domain.AdminSettings) (*UseCase, *mocks) {
	m := &mocks{
		consoles:   new(MockConsoleRepository),
		requests:   new(MockRequestRepository),
		users:      new(MockUserRepository),
		holds:      new(MockHoldService),
		starter:    new(MockRentalStarter),
		settings:   new(MockSettingsProvider),
		dispatcher: new(MockEventDispatcher),
	}
	m.settings.On("Current", mock.Anything).Return(settings, nil)
	uc := NewUseCaseWithTimeProvider(
		m.consoles, m.requests, m.users, m.holds, m.starter, m.settings,
		m.dispatcher, keylock.New(), passThroughTx{}, fixedClock{}, logger.NewNop(),
	)
	return uc, m
}

func availableConsole() *domain.Console {
	return &domain.Console{ID: "c1", Name: "PS5", RentalPrice: 150, Status: domain.ConsoleAvailable}
}

func TestUseCase_Execute_Pending(t *testing.T) {
	uc, m := setup(domain.DefaultAdminSettings())
	ctx := context.Background()

	m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
	m.consoles.On("GetByID", ctx, "c1").Return(availableConsole(), nil)
	m.holds.On("IsTempReserved", ctx, "c1", ptr.Ptr(int64(42))).Return(false, nil, nil)
	m.requests.On("Create", ctx, mock.MatchedBy(func(r *domain.RentalRequest) bool {
		return r.Status == domain.RequestPending && r.ExpectedCost == 600 && *r.SelectedHours == 4
	})).Return(nil, nil)
	m.holds.On("TempReserve", ctx, int64(42), "c1", 30*time.Minute).
		Return(&availabilityModels.TempReservationResponse{UserID: 42, ConsoleID: "c1"}, nil)
	m.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *domain.RentalEvent) bool {
		return e.Type == domain.EventRequestSubmitted && e.UserID == 42 && *e.Cost == 600
	})).Return()

	resp, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(4)})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Request.Status)
	assert.Nil(t, resp.Rental)
	m.starter.AssertNotCalled(t, "StartLocked", mock.Anything, mock.Anything)
	m.requests.AssertExpectations(t)
	m.holds.AssertExpectations(t)
	m.dispatcher.AssertExpectations(t)
}

func TestUseCase_Execute_OpenEnded(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending request without duration", func(t *testing.T) {
		settings := domain.DefaultAdminSettings()
		settings.MaxRentalHours = 1
		uc, m := setup(settings)

		m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
		m.consoles.On("GetByID", ctx, "c1").Return(availableConsole(), nil)
		m.holds.On("IsTempReserved", ctx, "c1", ptr.Ptr(int64(42))).Return(false, nil, nil)
		m.requests.On("Create", ctx, mock.MatchedBy(func(r *domain.RentalRequest) bool {
			return r.Status == domain.RequestPending && r.SelectedHours == nil && r.ExpectedCost == 0
		})).Return(nil, nil)
		m.holds.On("TempReserve", ctx, int64(42), "c1", 30*time.Minute).
			Return(&availabilityModels.TempReservationResponse{UserID: 42, ConsoleID: "c1"}, nil)
		m.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *domain.RentalEvent) bool {
			return e.Type == domain.EventRequestSubmitted && e.Hours == nil
		})).Return()

		resp, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1"})

		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Request.Status)
		assert.Nil(t, resp.Request.SelectedHours)
		m.requests.AssertExpectations(t)
		m.dispatcher.AssertExpectations(t)
	})

	t.Run("Auto-approved rental without duration", func(t *testing.T) {
		settings := domain.DefaultAdminSettings()
		settings.RequireApproval = false
		uc, m := setup(settings)

		rental := &domain.Rental{ID: "r1", UserID: 42, ConsoleID: "c1", Status: domain.RentalActive, StartTime: now}

		m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
		m.consoles.On("GetByID", ctx, "c1").Return(availableConsole(), nil)
		m.holds.On("IsTempReserved", ctx, "c1", ptr.Ptr(int64(42))).Return(false, nil, nil)
		m.requests.On("Create", ctx, mock.Anything).Return(nil, nil)
		m.starter.On("StartLocked", ctx, mock.MatchedBy(func(p *book_console.StartParams) bool {
			return p.Hours == nil
		})).Return(rental, nil)
		m.requests.On("UpdateDecision", ctx, mock.Anything).Return(nil)
		m.dispatcher.On("Dispatch", ctx, mock.Anything).Return()

		resp, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1"})

		require.NoError(t, err)
		require.NotNil(t, resp.Rental)
		assert.Nil(t, resp.Rental.ExpectedEndTime)
		m.starter.AssertExpectations(t)
	})
}

func TestUseCase_Execute_AutoApproved(t *testing.T) {
	settings := domain.DefaultAdminSettings()
	settings.RequireApproval = false
	uc, m := setup(settings)
	ctx := context.Background()

	rental := &domain.Rental{ID: "r1", UserID: 42, ConsoleID: "c1", Status: domain.RentalActive, StartTime: now}

	m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
	m.consoles.On("GetByID", ctx, "c1").Return(availableConsole(), nil)
	m.holds.On("IsTempReserved", ctx, "c1", ptr.Ptr(int64(42))).Return(false, nil, nil)
	m.requests.On("Create", ctx, mock.MatchedBy(func(r *domain.RentalRequest) bool {
		return r.Status == domain.RequestApproved
	})).Return(nil, nil)
	m.starter.On("StartLocked", ctx, mock.MatchedBy(func(p *book_console.StartParams) bool {
		return p.UserID == 42 && p.Hours != nil && *p.Hours == 2 && p.RequestID != nil
	})).Return(rental, nil)
	m.requests.On("UpdateDecision", ctx, mock.MatchedBy(func(r *domain.RentalRequest) bool {
		return r.RentalID != nil && *r.RentalID == "r1" && r.DecidedAt != nil
	})).Return(nil)
	m.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *domain.RentalEvent) bool {
		return e.Type == domain.EventRentalStarted
	})).Return()

	resp, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(2)})

	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Request.Status)
	require.NotNil(t, resp.Rental)
	assert.Equal(t, "r1", resp.Rental.ID)
	m.holds.AssertNotCalled(t, "TempReserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.requests.AssertExpectations(t)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Invalid hours", func(t *testing.T) {
		uc, _ := setup(domain.DefaultAdminSettings())

		_, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(0)})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(25)})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Banned user", func(t *testing.T) {
		uc, m := setup(domain.DefaultAdminSettings())
		m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42, IsBanned: true}, nil)

		_, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrUserBanned)
		m.consoles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Console not found", func(t *testing.T) {
		uc, m := setup(domain.DefaultAdminSettings())
		m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
		m.consoles.On("GetByID", ctx, "c1").Return(nil, consoleRepo.ErrConsoleNotFound)

		_, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleNotFound)
	})

	t.Run("Console rented", func(t *testing.T) {
		uc, m := setup(domain.DefaultAdminSettings())
		console := availableConsole()
		console.Status = domain.ConsoleRented
		m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
		m.consoles.On("GetByID", ctx, "c1").Return(console, nil)

		_, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleUnavailable)
		m.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Held by another user", func(t *testing.T) {
		uc, m := setup(domain.DefaultAdminSettings())
		m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
		m.consoles.On("GetByID", ctx, "c1").Return(availableConsole(), nil)
		m.holds.On("IsTempReserved", ctx, "c1", ptr.Ptr(int64(42))).Return(true, ptr.Ptr(int64(7)), nil)

		_, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleHeld)
		m.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("Start failure is mapped", func(t *testing.T) {
		settings := domain.DefaultAdminSettings()
		settings.RequireApproval = false
		uc, m := setup(settings)
		m.users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)
		m.consoles.On("GetByID", ctx, "c1").Return(availableConsole(), nil)
		m.holds.On("IsTempReserved", ctx, "c1", ptr.Ptr(int64(42))).Return(false, nil, nil)
		m.requests.On("Create", ctx, mock.Anything).Return(nil, nil)
		m.starter.On("StartLocked", ctx, mock.Anything).Return(nil, book_console.ErrConsoleUnavailable)

		_, err := uc.Execute(ctx, &Request{UserID: 42, ConsoleID: "c1", SelectedHours: ptr.Ptr(1)})

		assert.ErrorIs(t, err, ErrConsoleUnavailable)
	})
}
