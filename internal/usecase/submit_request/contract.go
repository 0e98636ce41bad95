package submit_request

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	availabilityModels "github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
	"github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
)

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Console, error)
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	Create(ctx context.Context, req *domain.RentalRequest) (*domain.RentalRequest, error)
	UpdateDecision(ctx context.Context, req *domain.RentalRequest) error
}

// UserRepository интерфейс репозитория клиентов
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// HoldService временные удержания консолей
type HoldService interface {
	TempReserve(ctx context.Context, userID int64, consoleID string, ttl time.Duration) (*availabilityModels.TempReservationResponse, error)
	IsTempReserved(ctx context.Context, consoleID string, excludeUserID *int64) (bool, *int64, error)
}

// RentalStarter запуск аренды под блокировкой консоли
type RentalStarter interface {
	StartLocked(ctx context.Context, p *book_console.StartParams) (*domain.Rental, error)
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.AdminSettings, error)
}

// EventDispatcher доставка событий после фиксации транзакции
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
