package record_return

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	ratingModels "github.com/m04kA/SMC-ConsoleRental/internal/service/rating/models"
)

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
}

// RentalFinisher завершение активной аренды под блокировкой консоли
type RentalFinisher interface {
	FinishLocked(ctx context.Context, rental *domain.Rental) (int, error)
}

// RatingRecorder запись итогов аренды в рейтинг клиента
type RatingRecorder interface {
	RecordRentalOutcome(ctx context.Context, outcome *ratingModels.RentalOutcome) (*domain.UserRating, error)
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
