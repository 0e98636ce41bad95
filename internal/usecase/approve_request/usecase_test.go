package approve_request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	requestRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/request"
	"github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
	"github.com/m04kA/SMC-ConsoleRental/pkg/keylock"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

var now = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.RentalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	req := *args.Get(0).(*domain.RentalRequest)
	return &req, args.Error(1)
}

func (m *MockRequestRepository) UpdateDecision(ctx context.Context, req *domain.RentalRequest) error {
	return m.Called(ctx, req).Error(0)
}

type MockRentalStarter struct{ mock.Mock }

func (m *MockRentalStarter) StartLocked(ctx context.Context, p *book_console.StartParams) (*domain.Rental, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}

type MockRequestRejecter struct{ mock.Mock }

func (m *MockRequestRejecter) RejectLocked(ctx context.Context, request *domain.RentalRequest, reason string) error {
	args := m.Called(ctx, request, reason)
	if args.Error(0) == nil {
		request.Status = domain.RequestRejected
		request.RejectReason = ptr.Ptr(reason)
	}
	return args.Error(0)
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

func pendingRequest() *domain.RentalRequest {
	return &domain.RentalRequest{
		ID:            "req-1",
		UserID:        42,
		ConsoleID:     "c1",
		SelectedHours: ptr.Ptr(3),
		ExpectedCost:  450,
		Status:        domain.RequestPending,
	}
}

type mocks struct {
	requests   *MockRequestRepository
	starter    *MockRentalStarter
	rejecter   *MockRequestRejecter
	dispatcher *MockEventDispatcher
}

func setup() (*UseCase, *mocks) {
	m := &mocks{
		requests:   new(MockRequestRepository),
		starter:    new(MockRentalStarter),
		rejecter:   new(MockRequestRejecter),
		dispatcher: new(MockEventDispatcher),
	}
	uc := NewUseCaseWithTimeProvider(m.requests, m.starter, m.rejecter, m.dispatcher, keylock.New(), passThroughTx{}, fixedClock{}, logger.NewNop())
	return uc, m
}

func TestUseCase_Execute_Approves(t *testing.T) {
	uc, m := setup()
	ctx := context.Background()

	end := now.Add(3 * time.Hour)
	rental := &domain.Rental{
		ID:              "r1",
		UserID:          42,
		ConsoleID:       "c1",
		RequestID:       ptr.Ptr("req-1"),
		StartTime:       now,
		ExpectedEndTime: &end,
		SelectedHours:   ptr.Ptr(3),
		ExpectedCost:    400,
		DiscountAmount:  50,
		Status:          domain.RentalActive,
	}

	m.requests.On("GetByID", ctx, "req-1").Return(pendingRequest(), nil)
	m.starter.On("StartLocked", ctx, &book_console.StartParams{
		UserID:     42,
		ConsoleID:  "c1",
		Hours:      ptr.Ptr(3),
		RequestID:  ptr.Ptr("req-1"),
		IgnoreHold: true,
	}).Return(rental, nil)
	m.requests.On("UpdateDecision", ctx, mock.MatchedBy(func(r *domain.RentalRequest) bool {
		return r.Status == domain.RequestApproved && *r.RentalID == "r1" && r.DecidedAt.Equal(now)
	})).Return(nil)
	m.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *domain.RentalEvent) bool {
		return e.Type == domain.EventRequestApproved && *e.RentalID == "r1" && e.DueAt.Equal(end)
	})).Return()

	resp, err := uc.Execute(ctx, &Request{RequestID: "req-1", AdminID: 1})

	require.NoError(t, err)
	assert.False(t, resp.AutoRejected)
	assert.Equal(t, "approved", resp.Request.Status)
	assert.Equal(t, 400.0, resp.Rental.ExpectedCost)
	m.requests.AssertExpectations(t)
	m.starter.AssertExpectations(t)
	m.dispatcher.AssertExpectations(t)
}

func TestUseCase_Execute_OpenEndedRequest(t *testing.T) {
	uc, m := setup()
	ctx := context.Background()

	request := pendingRequest()
	request.SelectedHours = nil
	request.ExpectedCost = 0
	rental := &domain.Rental{ID: "r1", UserID: 42, ConsoleID: "c1", StartTime: now, Status: domain.RentalActive}

	m.requests.On("GetByID", ctx, "req-1").Return(request, nil)
	m.starter.On("StartLocked", ctx, mock.MatchedBy(func(p *book_console.StartParams) bool {
		return p.Hours == nil && p.IgnoreHold
	})).Return(rental, nil)
	m.requests.On("UpdateDecision", ctx, mock.Anything).Return(nil)
	m.dispatcher.On("Dispatch", ctx, mock.Anything).Return()

	resp, err := uc.Execute(ctx, &Request{RequestID: "req-1", AdminID: 1})

	require.NoError(t, err)
	assert.Nil(t, resp.Rental.ExpectedEndTime)
	assert.Nil(t, resp.Rental.SelectedHours)
	m.starter.AssertExpectations(t)
}

func TestUseCase_Execute_ConsoleUnavailable(t *testing.T) {
	ctx := context.Background()

	t.Run("Request stays pending", func(t *testing.T) {
		uc, m := setup()
		m.requests.On("GetByID", ctx, "req-1").Return(pendingRequest(), nil)
		m.starter.On("StartLocked", ctx, mock.Anything).Return(nil, book_console.ErrConsoleUnavailable)

		_, err := uc.Execute(ctx, &Request{RequestID: "req-1"})

		assert.ErrorIs(t, err, ErrConsoleUnavailable)
		m.requests.AssertNotCalled(t, "UpdateDecision", mock.Anything, mock.Anything)
		m.rejecter.AssertNotCalled(t, "RejectLocked", mock.Anything, mock.Anything, mock.Anything)
		m.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})

	t.Run("Auto reject", func(t *testing.T) {
		uc, m := setup()
		m.requests.On("GetByID", ctx, "req-1").Return(pendingRequest(), nil)
		m.starter.On("StartLocked", ctx, mock.Anything).Return(nil, book_console.ErrConsoleUnavailable)
		m.rejecter.On("RejectLocked", ctx, mock.Anything, autoRejectReason).Return(nil)
		m.dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(e *domain.RentalEvent) bool {
			return e.Type == domain.EventRequestRejected
		})).Return()

		resp, err := uc.Execute(ctx, &Request{RequestID: "req-1", AutoReject: true})

		require.NoError(t, err)
		assert.True(t, resp.AutoRejected)
		assert.Equal(t, "rejected", resp.Request.Status)
		assert.Nil(t, resp.Rental)
		m.rejecter.AssertExpectations(t)
		m.dispatcher.AssertExpectations(t)
	})

	t.Run("Deleted console is not auto rejected", func(t *testing.T) {
		uc, m := setup()
		m.requests.On("GetByID", ctx, "req-1").Return(pendingRequest(), nil)
		m.starter.On("StartLocked", ctx, mock.Anything).Return(nil, book_console.ErrConsoleNotFound)

		_, err := uc.Execute(ctx, &Request{RequestID: "req-1", AutoReject: true})

		assert.ErrorIs(t, err, ErrConsoleNotFound)
		m.rejecter.AssertNotCalled(t, "RejectLocked", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUseCase_Execute_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("Not pending", func(t *testing.T) {
		uc, m := setup()
		rejected := pendingRequest()
		rejected.Status = domain.RequestRejected
		m.requests.On("GetByID", ctx, "req-1").Return(rejected, nil)

		_, err := uc.Execute(ctx, &Request{RequestID: "req-1"})

		assert.ErrorIs(t, err, ErrInvalidTransition)
		m.starter.AssertNotCalled(t, "StartLocked", mock.Anything, mock.Anything)
	})

	t.Run("Not found", func(t *testing.T) {
		uc, m := setup()
		m.requests.On("GetByID", ctx, "req-1").Return(nil, requestRepo.ErrRequestNotFound)

		_, err := uc.Execute(ctx, &Request{RequestID: "req-1"})

		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("Store failure", func(t *testing.T) {
		uc, m := setup()
		m.requests.On("GetByID", ctx, "req-1").Return(pendingRequest(), nil)
		m.starter.On("StartLocked", ctx, mock.Anything).Return(nil, book_console.ErrInternal)

		_, err := uc.Execute(ctx, &Request{RequestID: "req-1", AutoReject: true})

		assert.ErrorIs(t, err, ErrInternal)
		m.rejecter.AssertNotCalled(t, "RejectLocked", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Missing id", func(t *testing.T) {
		uc, _ := setup()

		_, err := uc.Execute(ctx, &Request{})

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
