package confirm_location

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.RentalRequest, error)
	UpdateDecision(ctx context.Context, req *domain.RentalRequest) error
}

// UserRepository интерфейс репозитория клиентов
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetVerification(ctx context.Context, id int64, step *domain.VerificationStep, pendingRentalID *string) error
}

// EventDispatcher доставка событий после фиксации транзакции
type EventDispatcher interface {
	Dispatch(ctx context.Context, event *domain.RentalEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
