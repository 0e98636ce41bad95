package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// CalendarRepository интерфейс репозитория календаря
type CalendarRepository interface {
	GetSettings(ctx context.Context) (*domain.CalendarSettings, error)
	SaveSettings(ctx context.Context, settings *domain.CalendarSettings) error
	AddHoliday(ctx context.Context, holiday *domain.Holiday) error
	RemoveHoliday(ctx context.Context, date time.Time) error
	ListHolidays(ctx context.Context) ([]*domain.Holiday, error)
	BlockDate(ctx context.Context, block *domain.BlockedDate) error
	UnblockDate(ctx context.Context, consoleID *string, date time.Time) (bool, error)
	ListBlockedDates(ctx context.Context, consoleID *string) ([]*domain.BlockedDate, error)
	ListBlocksBetween(ctx context.Context, consoleID *string, from, to time.Time) ([]*domain.BlockedDate, error)
	CreateReservation(ctx context.Context, res *domain.SlotReservation) error
	DeleteReservation(ctx context.Context, id string) (bool, error)
	ListHeldReservations(ctx context.Context, consoleID string, from, to time.Time) ([]*domain.SlotReservation, error)
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	ListActiveByConsole(ctx context.Context, consoleID string) ([]*domain.Rental, error)
}

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Console, error)
}

// HoldRepository интерфейс репозитория временных удержаний
type HoldRepository interface {
	Replace(ctx context.Context, hold *domain.TempReservation) error
	DeleteByUser(ctx context.Context, userID int64) (bool, error)
	DeleteByUserAndConsole(ctx context.Context, userID int64, consoleID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	FindByConsole(ctx context.Context, consoleID string, excludeUserID *int64, now time.Time) (*domain.TempReservation, error)
}

// DiscountCalendar отмечает дни со скидкой
type DiscountCalendar interface {
	DiscountDays(ctx context.Context, consoleID string, from, to time.Time) (map[string]bool, error)
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.AdminSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker взаимное исключение по ключу
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
