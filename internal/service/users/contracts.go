package users

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// UserRepository интерфейс репозитория клиентов
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	Delete(ctx context.Context, id int64) error
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]*domain.Rental, error)
}

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	UpdateStatus(ctx context.Context, id string, status domain.ConsoleStatus) error
}

// HoldRepository интерфейс репозитория временных удержаний
type HoldRepository interface {
	DeleteByUser(ctx context.Context, userID int64) (bool, error)
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
