package end_rental

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

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Console, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConsoleStatus) error
}

// UserRepository интерфейс репозитория клиентов
type UserRepository interface {
	AddTotalSpent(ctx context.Context, id int64, amount float64) error
}

// RatingRecorder запись итогов аренды в рейтинг клиента
type RatingRecorder interface {
	RecordRentalOutcome(ctx context.Context, outcome *ratingModels.RentalOutcome) (*domain.UserRating, error)
}

// HoldService временные удержания консолей
type HoldService interface {
	ReleaseTempForConsole(ctx context.Context, userID int64, consoleID string) (bool, error)
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
