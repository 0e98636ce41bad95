package jobs

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

const (
	JobReconcileConsoles   = "reconcile_consoles"
	JobSendReturnReminders = "send_return_reminders"
	JobSweepExpiredHolds   = "sweep_expired_holds"
)

// Runner фоновые задачи проката
type Runner struct {
	consoles     ConsoleReconciler
	holds        HoldSweeper
	rentals      RentalRepository
	settings     SettingsProvider
	dispatcher   EventDispatcher
	counter      JobCounter
	timeout      time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewRunner создает набор фоновых задач; timeout ограничивает один запуск
func NewRunner(
	consoles ConsoleReconciler,
	holds HoldSweeper,
	rentals RentalRepository,
	settings SettingsProvider,
	dispatcher EventDispatcher,
	counter JobCounter,
	timeout time.Duration,
	logger Logger,
) *Runner {
	return NewRunnerWithTimeProvider(consoles, holds, rentals, settings, dispatcher, counter, timeout, &RealTimeProvider{}, logger)
}

func NewRunnerWithTimeProvider(
	consoles ConsoleReconciler,
	holds HoldSweeper,
	rentals RentalRepository,
	settings SettingsProvider,
	dispatcher EventDispatcher,
	counter JobCounter,
	timeout time.Duration,
	timeProvider TimeProvider,
	logger Logger,
) *Runner {
	return &Runner{
		consoles:     consoles,
		holds:        holds,
		rentals:      rentals,
		settings:     settings,
		dispatcher:   dispatcher,
		counter:      counter,
		timeout:      timeout,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// ReconcileConsoles исправляет статусы консолей, разошедшиеся с активными арендами
func (r *Runner) ReconcileConsoles() {
	r.run(JobReconcileConsoles, func(ctx context.Context) error {
		result, err := r.consoles.Reconcile(ctx)
		if err != nil {
			return err
		}
		r.logger.Info("ReconcileConsoles: checked=%d, fixed=%d", result.Checked, result.Fixed())
		return nil
	})
}

// SweepExpiredHolds удаляет истекшие временные удержания
func (r *Runner) SweepExpiredHolds() {
	r.run(JobSweepExpiredHolds, func(ctx context.Context) error {
		_, err := r.holds.CleanupExpired(ctx)
		return err
	})
}

// SendReturnReminders напоминает клиентам о скором окончании аренды
// Аренда отмечается до отправки: напоминание уходит не более одного раза
func (r *Runner) SendReturnReminders() {
	r.run(JobSendReturnReminders, func(ctx context.Context) error {
		settings, err := r.settings.Current(ctx)
		if err != nil {
			return err
		}

		hours := settings.ReminderHours
		if hours <= 0 {
			hours = domain.DefaultReminderHours
		}
		now := r.timeProvider.Now()

		due, err := r.rentals.ListDueForReminder(ctx, now.Add(time.Duration(hours)*time.Hour))
		if err != nil {
			return err
		}

		sent := 0
		for _, rental := range due {
			if err := r.rentals.SetReminderSent(ctx, rental.ID, now); err != nil {
				r.logger.Error("SendReturnReminders: failed to mark rental=%s: %v", rental.ID, err)
				continue
			}

			rentalID := rental.ID
			r.dispatcher.Dispatch(ctx, &domain.RentalEvent{
				Type:       domain.EventReturnReminder,
				UserID:     rental.UserID,
				ConsoleID:  rental.ConsoleID,
				RentalID:   &rentalID,
				DueAt:      rental.ExpectedEndTime,
				OccurredAt: now,
			})
			sent++
		}

		if sent > 0 {
			r.logger.Info("SendReturnReminders: sent %d reminders", sent)
		}
		return nil
	})
}

func (r *Runner) run(job string, fn func(ctx context.Context) error) {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	err := fn(ctx)
	r.counter.IncJobRun(job, err == nil)
	if err != nil {
		r.logger.Error("Job %s failed: %v", job, err)
	}
}
