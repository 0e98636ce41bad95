package consoles

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	Create(ctx context.Context, console *domain.Console) (*domain.Console, error)
	GetByID(ctx context.Context, id string) (*domain.Console, error)
	List(ctx context.Context, status *domain.ConsoleStatus) ([]*domain.Console, error)
	UpdateStatus(ctx context.Context, id string, status domain.ConsoleStatus) error
	Delete(ctx context.Context, id string) error
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	GetActiveByConsole(ctx context.Context, consoleID string) (*domain.Rental, error)
	ActiveConsoleIDs(ctx context.Context) ([]string, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// KeyLocker взаимное исключение по ключу
type KeyLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
