package approve_request

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
)

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.RentalRequest, error)
	UpdateDecision(ctx context.Context, req *domain.RentalRequest) error
}

// RentalStarter запуск аренды под блокировкой консоли
type RentalStarter interface {
	StartLocked(ctx context.Context, p *book_console.StartParams) (*domain.Rental, error)
}

// RequestRejecter отклонение заявки внутри транзакции
type RequestRejecter interface {
	RejectLocked(ctx context.Context, request *domain.RentalRequest, reason string) error
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
