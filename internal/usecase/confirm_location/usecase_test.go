package confirm_location

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

var now = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

type MockRentalRepository struct{ mock.Mock }

func (m *MockRentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) Update(ctx context.Context, rental *domain.Rental) error {
	return m.Called(ctx, rental).Error(0)
}

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
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

func (m *MockUserRepository) SetVerification(ctx context.Context, id int64, step *domain.VerificationStep, pendingRentalID *string) error {
	return m.Called(ctx, id, step, pendingRentalID).Error(0)
}

type MockEventDispatcher struct{ mock.Mock }

func (m *MockEventDispatcher) Dispatch(ctx context.Context, event *domain.RentalEvent) {
	m.Called(ctx, event)
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

func awaitingUser() *domain.User {
	step := domain.VerificationLocationRequest
	return &domain.User{ID: 42, VerificationStep: &step, PendingRentalID: ptr.Ptr("r1")}
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	setup := func() (*UseCase, *MockRentalRepository, *MockRequestRepository, *MockUserRepository, *MockEventDispatcher) {
		rentals := new(MockRentalRepository)
		requests := new(MockRequestRepository)
		users := new(MockUserRepository)
		dispatcher := new(MockEventDispatcher)
		uc := NewUseCaseWithTimeProvider(rentals, requests, users, dispatcher, passThroughTx{}, fixedClock{}, logger.NewNop())
		return uc, rentals, requests, users, dispatcher
	}

	t.Run("Location completes the request", func(t *testing.T) {
		uc, rentals, requests, users, dispatcher := setup()

		users.On("GetByID", ctx, int64(42)).Return(awaitingUser(), nil)
		rentals.On("GetByID", ctx, "r1").Return(&domain.Rental{
			ID: "r1", UserID: 42, ConsoleID: "c1", RequestID: ptr.Ptr("req-1"), Status: domain.RentalActive,
		}, nil)
		rentals.On("Update", ctx, mock.MatchedBy(func(r *domain.Rental) bool {
			return r.Location != nil && r.Location.Latitude == 55.75 && r.Location.Longitude == 37.61
		})).Return(nil)
		requests.On("GetByID", ctx, "req-1").Return(&domain.RentalRequest{ID: "req-1", Status: domain.RequestApproved}, nil)
		requests.On("UpdateDecision", ctx, mock.MatchedBy(func(r *domain.RentalRequest) bool {
			return r.Status == domain.RequestCompleted
		})).Return(nil)
		step := domain.VerificationPassportFront
		users.On("SetVerification", ctx, int64(42), &step, ptr.Ptr("r1")).Return(nil)
		dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *domain.RentalEvent) bool {
			return e.Type == domain.EventRequestCompleted && *e.RequestID == "req-1"
		})).Return()

		resp, err := uc.Execute(ctx, &Request{UserID: 42, Latitude: 55.75, Longitude: 37.61})

		require.NoError(t, err)
		require.NotNil(t, resp.Location)
		assert.Equal(t, 55.75, resp.Location.Latitude)
		rentals.AssertExpectations(t)
		requests.AssertExpectations(t)
		users.AssertExpectations(t)
		dispatcher.AssertExpectations(t)
	})

	t.Run("Direct booking has no request", func(t *testing.T) {
		uc, rentals, requests, users, dispatcher := setup()

		users.On("GetByID", ctx, int64(42)).Return(awaitingUser(), nil)
		rentals.On("GetByID", ctx, "r1").Return(&domain.Rental{ID: "r1", UserID: 42, Status: domain.RentalActive}, nil)
		rentals.On("Update", ctx, mock.Anything).Return(nil)
		users.On("SetVerification", ctx, int64(42), mock.Anything, mock.Anything).Return(nil)
		dispatcher.On("Dispatch", ctx, mock.Anything).Return()

		_, err := uc.Execute(ctx, &Request{UserID: 42, Latitude: 1, Longitude: 1})

		require.NoError(t, err)
		requests.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Nothing awaits location", func(t *testing.T) {
		uc, rentals, _, users, _ := setup()
		users.On("GetByID", ctx, int64(42)).Return(&domain.User{ID: 42}, nil)

		_, err := uc.Execute(ctx, &Request{UserID: 42})

		assert.ErrorIs(t, err, ErrNoPendingVerification)
		rentals.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Different rental in path", func(t *testing.T) {
		uc, rentals, _, users, _ := setup()
		users.On("GetByID", ctx, int64(42)).Return(awaitingUser(), nil)

		_, err := uc.Execute(ctx, &Request{UserID: 42, RentalID: "r2"})

		assert.ErrorIs(t, err, ErrNoPendingVerification)
		rentals.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("Rental already ended", func(t *testing.T) {
		uc, rentals, _, users, _ := setup()
		users.On("GetByID", ctx, int64(42)).Return(awaitingUser(), nil)
		rentals.On("GetByID", ctx, "r1").Return(&domain.Rental{ID: "r1", Status: domain.RentalCompleted}, nil)

		_, err := uc.Execute(ctx, &Request{UserID: 42})

		assert.ErrorIs(t, err, ErrInvalidTransition)
		rentals.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Unknown user", func(t *testing.T) {
		uc, _, _, users, _ := setup()
		users.On("GetByID", ctx, int64(42)).Return(nil, userRepo.ErrUserNotFound)

		_, err := uc.Execute(ctx, &Request{UserID: 42})

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Latitude out of range", func(t *testing.T) {
		uc, _, _, _, _ := setup()

		_, err := uc.Execute(ctx, &Request{UserID: 42, Latitude: 91})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
