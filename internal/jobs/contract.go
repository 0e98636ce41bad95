package jobs

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleModels "github.com/m04kA/SMC-ConsoleRental/internal/service/consoles/models"
)

type ConsoleReconciler interface {
	Reconcile(ctx context.Context) (*consoleModels.ReconcileResult, error)
}

type HoldSweeper interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

type RentalRepository interface {
	ListDueForReminder(ctx context.Context, deadline time.Time) ([]*domain.Rental, error)
	SetReminderSent(ctx context.Context, id string, at time.Time) error
}

type SettingsProvider interface {
	Current(ctx context.Context) (*domain.AdminSettings, error)
}

type EventDispatcher interface {
	Dispatch(ctx context.Context, event *domain.RentalEvent)
}

type JobCounter interface {
	IncJobRun(job string, ok bool)
}

type TimeProvider interface {
	Now() time.Time
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider, возвращающая текущее время
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
