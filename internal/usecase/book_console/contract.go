package book_console

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	availabilityModels "github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
	discountModels "github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
)

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Console, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConsoleStatus) error
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) (*domain.Rental, error)
	GetActiveByConsole(ctx context.Context, consoleID string) (*domain.Rental, error)
}

// UserRepository интерфейс репозитория клиентов
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetVerification(ctx context.Context, id int64, step *domain.VerificationStep, pendingRentalID *string) error
}

// HoldService временные удержания консолей
type HoldService interface {
	TempReserve(ctx context.Context, userID int64, consoleID string, ttl time.Duration) (*availabilityModels.TempReservationResponse, error)
	IsTempReserved(ctx context.Context, consoleID string, excludeUserID *int64) (bool, *int64, error)
}

// Pricer расчет стоимости с учетом скидок
type Pricer interface {
	Price(ctx context.Context, consoleID string, baseCost float64, hours int, at time.Time) (*discountModels.PriceQuote, error)
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.AdminSettings, error)
}

// EventDispatcher доставка событий аренды после фиксации транзакции
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *domain.RentalEvent)
}

// KeyLocker взаимное исключение по ключу
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
