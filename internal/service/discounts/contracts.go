package discounts

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// DiscountRepository интерфейс репозитория скидок
type DiscountRepository interface {
	Create(ctx context.Context, discount *domain.Discount) (*domain.Discount, error)
	GetByID(ctx context.Context, id string) (*domain.Discount, error)
	List(ctx context.Context, consoleID *string) ([]*domain.Discount, error)
	ListActiveByConsole(ctx context.Context, consoleID string) ([]*domain.Discount, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Console, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
