package rentals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	requestRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/request"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

func (m *mockRentalRepo) List(ctx context.Context, status *domain.RentalStatus) ([]*domain.Rental, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *mockRentalRepo) ListByUser(ctx context.Context, userID int64) ([]*domain.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

type mockRequestRepo struct {
	mock.Mock
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentalRequest), args.Error(1)
}

func (m *mockRequestRepo) List(ctx context.Context, status *domain.RequestStatus) ([]*domain.RentalRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RentalRequest), args.Error(1)
}

var started = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

func TestService_GetByID(t *testing.T) {
	rr := &mockRentalRepo{}
	svc := NewService(rr, &mockRequestRepo{}, logger.NewNop())
	rr.On("GetByID", mock.Anything, "r1").Return(&domain.Rental{
		ID:        "r1",
		UserID:    42,
		ConsoleID: "c1",
		StartTime: started,
		Status:    domain.RentalReturned,
		Location:  &domain.Location{Latitude: 55.75, Longitude: 37.61},
		ReturnInfo: &domain.ReturnInfo{
			Condition:  domain.ConditionMinorDefects,
			ReturnDate: started.Add(3 * time.Hour),
		},
	}, nil)
	rr.On("GetByID", mock.Anything, "missing").Return(nil, rentalRepo.ErrRentalNotFound)

	t.Run("Owner", func(t *testing.T) {
		resp, err := svc.GetByID(context.Background(), &models.GetRentalRequest{RentalID: "r1", CallerID: 42})

		require.NoError(t, err)
		assert.Equal(t, "returned", resp.Status)
		require.NotNil(t, resp.Location)
		assert.Equal(t, 55.75, resp.Location.Latitude)
		require.NotNil(t, resp.ReturnInfo)
		assert.Equal(t, "minor_defects", resp.ReturnInfo.Condition)
	})

	t.Run("Admin", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), &models.GetRentalRequest{RentalID: "r1", CallerID: 1, IsAdmin: true})
		assert.NoError(t, err)
	})

	t.Run("Someone else", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), &models.GetRentalRequest{RentalID: "r1", CallerID: 7})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), &models.GetRentalRequest{RentalID: "missing", CallerID: 42})
		assert.ErrorIs(t, err, ErrRentalNotFound)
	})
}

func TestService_ListByUser(t *testing.T) {
	rr := &mockRentalRepo{}
	svc := NewService(rr, &mockRequestRepo{}, logger.NewNop())
	rr.On("ListByUser", mock.Anything, int64(42)).Return([]*domain.Rental{
		{ID: "r2", UserID: 42, Status: domain.RentalActive},
		{ID: "r1", UserID: 42, Status: domain.RentalCompleted},
	}, nil)

	resp, err := svc.ListByUser(context.Background(), &models.ListUserRentalsRequest{
		UserID: 42, CallerID: 42, Status: ptr.Ptr("completed"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Rentals, 1)
	assert.Equal(t, "r1", resp.Rentals[0].ID)

	_, err = svc.ListByUser(context.Background(), &models.ListUserRentalsRequest{UserID: 42, CallerID: 7})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ListByUser(context.Background(), &models.ListUserRentalsRequest{
		UserID: 42, CallerID: 42, Status: ptr.Ptr("cancelled"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_Requests(t *testing.T) {
	qr := &mockRequestRepo{}
	svc := NewService(&mockRentalRepo{}, qr, logger.NewNop())
	pending := domain.RequestPending
	qr.On("List", mock.Anything, &pending).Return([]*domain.RentalRequest{
		{ID: "q1", Status: domain.RequestPending, SelectedHours: ptr.Ptr(3)},
	}, nil)
	qr.On("GetByID", mock.Anything, "missing").Return(nil, requestRepo.ErrRequestNotFound)

	resp, err := svc.ListRequests(context.Background(), ptr.Ptr("pending"))
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, 3, *resp.Requests[0].SelectedHours)

	_, err = svc.ListRequests(context.Background(), ptr.Ptr("unknown"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetRequest(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
