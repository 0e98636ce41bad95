package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleModels "github.com/m04kA/SMC-ConsoleRental/internal/service/consoles/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/logger"
)

type MockReconciler struct{ mock.Mock }

func (m *MockReconciler) Reconcile(ctx context.Context) (*consoleModels.ReconcileResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consoleModels.ReconcileResult), args.Error(1)
}

type MockSweeper struct{ mock.Mock }

func (m *MockSweeper) CleanupExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockRentalRepository struct{ mock.Mock }

func (m *MockRentalRepository) ListDueForReminder(ctx context.Context, deadline time.Time) ([]*domain.Rental, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Rental), args.Error(1)
}

func (m *MockRentalRepository) SetReminderSent(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type MockSettings struct{ mock.Mock }

func (m *MockSettings) Current(ctx context.Context) (*domain.AdminSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminSettings), args.Error(1)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Dispatch(ctx context.Context, event *domain.RentalEvent) {
	m.Called(ctx, event)
}

type MockCounter struct{ mock.Mock }

func (m *MockCounter) IncJobRun(job string, ok bool) {
	m.Called(job, ok)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var jobsNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type deps struct {
	consoles   *MockReconciler
	holds      *MockSweeper
	rentals    *MockRentalRepository
	settings   *MockSettings
	dispatcher *MockDispatcher
	counter    *MockCounter
}

func newRunner() (*Runner, *deps) {
	d := &deps{
		consoles:   &MockReconciler{},
		holds:      &MockSweeper{},
		rentals:    &MockRentalRepository{},
		settings:   &MockSettings{},
		dispatcher: &MockDispatcher{},
		counter:    &MockCounter{},
	}
	r := NewRunnerWithTimeProvider(d.consoles, d.holds, d.rentals, d.settings, d.dispatcher, d.counter,
		time.Minute, fixedClock{now: jobsNow}, logger.NewNop())
	return r, d
}

func TestRunner_ReconcileConsoles(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, d := newRunner()
		d.consoles.On("Reconcile", mock.Anything).
			Return(&consoleModels.ReconcileResult{Checked: 3, MarkedAvailable: []string{"ps5-1"}}, nil)
		d.counter.On("IncJobRun", JobReconcileConsoles, true).Once()

		r.ReconcileConsoles()

		d.consoles.AssertExpectations(t)
		d.counter.AssertExpectations(t)
	})

	t.Run("Failure is counted", func(t *testing.T) {
		r, d := newRunner()
		d.consoles.On("Reconcile", mock.Anything).Return(nil, errors.New("db down"))
		d.counter.On("IncJobRun", JobReconcileConsoles, false).Once()

		r.ReconcileConsoles()

		d.counter.AssertExpectations(t)
	})
}

func TestRunner_SweepExpiredHolds(t *testing.T) {
	r, d := newRunner()
	d.holds.On("CleanupExpired", mock.Anything).Return(int64(2), nil)
	d.counter.On("IncJobRun", JobSweepExpiredHolds, true).Once()

	r.SweepExpiredHolds()

	d.holds.AssertExpectations(t)
	d.counter.AssertExpectations(t)
}

func TestRunner_SendReturnReminders(t *testing.T) {
	dueAt := jobsNow.Add(2 * time.Hour)

	t.Run("Reminds and marks each rental", func(t *testing.T) {
		r, d := newRunner()
		d.settings.On("Current", mock.Anything).Return(&domain.AdminSettings{ReminderHours: 3}, nil)
		d.rentals.On("ListDueForReminder", mock.Anything, jobsNow.Add(3*time.Hour)).Return([]*domain.Rental{
			{ID: "r-1", UserID: 42, ConsoleID: "ps5-1", ExpectedEndTime: &dueAt},
			{ID: "r-2", UserID: 43, ConsoleID: "ps5-2", ExpectedEndTime: &dueAt},
		}, nil)
		d.rentals.On("SetReminderSent", mock.Anything, "r-1", jobsNow).Return(nil)
		d.rentals.On("SetReminderSent", mock.Anything, "r-2", jobsNow).Return(errors.New("write failed"))
		d.dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(e *domain.RentalEvent) bool {
			return e.Type == domain.EventReturnReminder && e.UserID == 42 && *e.RentalID == "r-1" && e.DueAt.Equal(dueAt)
		})).Once()
		d.counter.On("IncJobRun", JobSendReturnReminders, true).Once()

		r.SendReturnReminders()

		d.rentals.AssertExpectations(t)
		d.dispatcher.AssertExpectations(t)
		d.dispatcher.AssertNumberOfCalls(t, "Dispatch", 1)
		d.counter.AssertExpectations(t)
	})

	t.Run("Zero reminder hours fall back to default", func(t *testing.T) {
		r, d := newRunner()
		d.settings.On("Current", mock.Anything).Return(&domain.AdminSettings{}, nil)
		d.rentals.On("ListDueForReminder", mock.Anything, jobsNow.Add(domain.DefaultReminderHours*time.Hour)).
			Return([]*domain.Rental{}, nil)
		d.counter.On("IncJobRun", JobSendReturnReminders, true).Once()

		r.SendReturnReminders()

		d.rentals.AssertExpectations(t)
	})

	t.Run("Settings failure", func(t *testing.T) {
		r, d := newRunner()
		d.settings.On("Current", mock.Anything).Return(nil, errors.New("db down"))
		d.counter.On("IncJobRun", JobSendReturnReminders, false).Once()

		r.SendReturnReminders()

		d.counter.AssertExpectations(t)
		d.rentals.AssertNotCalled(t, "ListDueForReminder", mock.Anything, mock.Anything)
	})
}

func TestNewScheduler(t *testing.T) {
	r, _ := newRunner()

	t.Run("Registers non-empty schedules", func(t *testing.T) {
		s, err := NewScheduler(r, Schedule{
			ReconcileConsoles: "0 */10 * * * *",
			SweepExpiredHolds: "*/30 * * * * *",
		}, logger.NewNop())

		require.NoError(t, err)
		assert.Len(t, s.cron.Entries(), 2)
	})

	t.Run("Invalid schedule", func(t *testing.T) {
		_, err := NewScheduler(r, Schedule{ReconcileConsoles: "every minute"}, logger.NewNop())
		assert.Error(t, err)
	})
}
