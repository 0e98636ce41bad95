package rentals

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	List(ctx context.Context, status *domain.RentalStatus) ([]*domain.Rental, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Rental, error)
}

// RequestRepository интерфейс репозитория заявок
type RequestRepository interface {
	GetByID(ctx context.Context, id string) (*domain.RentalRequest, error)
	List(ctx context.Context, status *domain.RequestStatus) ([]*domain.RentalRequest, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
