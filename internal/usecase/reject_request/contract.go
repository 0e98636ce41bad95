package reject_request

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.RentalRequest, error)
	UpdateDecision(ctx context.Context, req *domain.RentalRequest) error
}

// UserRepository интерфейс репозитория клиентов
type UserRepository interface {
	SetVerification(ctx context.Context, id int64, step *domain.VerificationStep, pendingRentalID *string) error
}

// HoldService временные удержания консолей
type HoldService interface {
	ReleaseTemp(ctx context.Context, userID int64) (bool, error)
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
