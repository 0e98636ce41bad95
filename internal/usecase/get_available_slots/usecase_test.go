package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/types"
)

var now = time.Date(2025, 6, 10, 12, 30, 0, 0, time.UTC)

type MockAvailabilityService struct{ mock.Mock }

func (m *MockAvailabilityService) AvailableSlots(ctx context.Context, consoleID string, date time.Time, userID *int64) (*models.AvailableSlotsResponse, error) {
	args := m.Called(ctx, consoleID, date, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AvailableSlotsResponse), args.Error(1)
}

type MockDiscountService struct{ mock.Mock }

func (m *MockDiscountService) DateHasDiscount(ctx context.Context, consoleID string, date time.Time) (bool, error) {
	args := m.Called(ctx, consoleID, date)
	return args.Bool(0), args.Error(1)
}

type MockRatingEvaluator struct{ mock.Mock }

func (m *MockRatingEvaluator) Evaluate(ctx context.Context, userID int64) (*domain.UserRating, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserRating), args.Error(1)
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type mocks struct {
	availability *MockAvailabilityService
	discounts    *MockDiscountService
	rating       *MockRatingEvaluator
}

func newMocks() *mocks {
	return &mocks{
		availability: &MockAvailabilityService{},
		discounts:    &MockDiscountService{},
		rating:       &MockRatingEvaluator{},
	}
}

func (m *mocks) useCase() *UseCase {
	return NewUseCaseWithTimeProvider(m.availability, m.discounts, m.rating, fixedClock{}, logger.NewNop())
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func slotsResponse(date time.Time, slots ...string) *models.AvailableSlotsResponse {
	return &models.AvailableSlotsResponse{
		ConsoleID: "ps5-1",
		Date:      date.Format(domain.DateFormat),
		DayStatus: string(domain.DayAvailable),
		Slots:     slots,
	}
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	var noUser *int64

	t.Run("Future day returns every free slot", func(t *testing.T) {
		m := newMocks()
		date := day(2025, 6, 12)
		m.availability.On("AvailableSlots", ctx, "ps5-1", date, noUser).
			Return(slotsResponse(date, "09:00", "10:00", "11:00"), nil)
		m.discounts.On("DateHasDiscount", ctx, "ps5-1", date).Return(true, nil)

		resp, err := m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1", Date: date})

		require.NoError(t, err)
		require.Len(t, resp.Slots, 3)
		assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
		assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
		assert.True(t, resp.HasDiscount)
		assert.Equal(t, 30, resp.BookingHorizonDays)
		m.rating.AssertNotCalled(t, "Evaluate", mock.Anything, mock.Anything)
	})

	t.Run("Today drops slots that already started", func(t *testing.T) {
		m := newMocks()
		date := day(2025, 6, 10)
		m.availability.On("AvailableSlots", ctx, "ps5-1", date, noUser).
			Return(slotsResponse(date, "11:00", "12:00", "13:00", "14:00"), nil)
		m.discounts.On("DateHasDiscount", ctx, "ps5-1", date).Return(false, nil)

		resp, err := m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1", Date: date})

		require.NoError(t, err)
		require.Len(t, resp.Slots, 2)
		assert.Equal(t, types.TimeString("13:00"), resp.Slots[0].StartTime)
		assert.Equal(t, types.TimeString("14:00"), resp.Slots[1].StartTime)
	})

	t.Run("Past date", func(t *testing.T) {
		m := newMocks()

		_, err := m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1", Date: day(2025, 6, 9)})

		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("Risk tier sees a week ahead", func(t *testing.T) {
		m := newMocks()
		m.rating.On("Evaluate", ctx, int64(5)).Return(&domain.UserRating{UserID: 5, Status: domain.TierRisk}, nil)

		_, err := m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1", Date: day(2025, 6, 18), UserID: ptr.Ptr[int64](5)})

		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
		m.availability.AssertNotCalled(t, "AvailableSlots", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Premium tier sees further ahead", func(t *testing.T) {
		m := newMocks()
		userID := ptr.Ptr[int64](6)
		date := day(2025, 7, 20)
		m.rating.On("Evaluate", ctx, int64(6)).Return(&domain.UserRating{UserID: 6, Status: domain.TierPremium}, nil)
		m.availability.On("AvailableSlots", ctx, "ps5-1", date, userID).Return(slotsResponse(date, "09:00"), nil)
		m.discounts.On("DateHasDiscount", ctx, "ps5-1", date).Return(false, nil)

		resp, err := m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1", Date: date, UserID: userID})

		require.NoError(t, err)
		assert.Equal(t, 45, resp.BookingHorizonDays)
		assert.Len(t, resp.Slots, 1)
	})

	t.Run("Unregistered user gets regular horizon", func(t *testing.T) {
		m := newMocks()
		m.rating.On("Evaluate", ctx, int64(8)).Return(nil, rating.ErrUserNotFound)

		_, err := m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1", Date: day(2025, 7, 20), UserID: ptr.Ptr[int64](8)})

		assert.ErrorIs(t, err, ErrDateTooFarInFuture)
	})

	t.Run("Console not found", func(t *testing.T) {
		m := newMocks()
		date := day(2025, 6, 12)
		m.availability.On("AvailableSlots", ctx, "nope", date, noUser).Return(nil, availability.ErrConsoleNotFound)

		_, err := m.useCase().Execute(ctx, &Request{ConsoleID: "nope", Date: date})

		assert.ErrorIs(t, err, ErrConsoleNotFound)
	})

	t.Run("Discount lookup failure is internal", func(t *testing.T) {
		m := newMocks()
		date := day(2025, 6, 12)
		m.availability.On("AvailableSlots", ctx, "ps5-1", date, noUser).Return(slotsResponse(date, "09:00"), nil)
		m.discounts.On("DateHasDiscount", ctx, "ps5-1", date).Return(false, errors.New("db down"))

		_, err := m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1", Date: date})

		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("Invalid input", func(t *testing.T) {
		m := newMocks()

		_, err := m.useCase().Execute(ctx, &Request{Date: day(2025, 6, 12)})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = m.useCase().Execute(ctx, &Request{ConsoleID: "ps5-1"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate(day(2025, 6, 10), now, 7))
	assert.NoError(t, validateDate(day(2025, 6, 17), now, 7))
	assert.ErrorIs(t, validateDate(day(2025, 6, 18), now, 7), ErrDateTooFarInFuture)
	assert.NoError(t, validateDate(day(2026, 6, 18), now, 0))
	assert.ErrorIs(t, validateDate(day(2025, 6, 9), now, 0), ErrInvalidDate)
}
