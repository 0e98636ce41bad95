package rating

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// RatingRepository интерфейс репозитория рейтинга
type RatingRepository interface {
	AddTransaction(ctx context.Context, tx *domain.RatingTransaction) error
	DeleteRentalTransactions(ctx context.Context, rentalID string) (int64, error)
	ListTransactions(ctx context.Context, userID *int64, limit uint64) ([]*domain.RatingTransaction, error)
	SaveRating(ctx context.Context, rating *domain.UserRating) error
	GetRating(ctx context.Context, userID int64) (*domain.UserRating, error)
	ListRatings(ctx context.Context) ([]*domain.UserRating, error)
	AddHistory(ctx context.Context, entry *domain.RatingHistoryEntry) error
	ListHistory(ctx context.Context, userID int64, limit uint64) ([]*domain.RatingHistoryEntry, error)
	CreateManualRating(ctx context.Context, m *domain.ManualRating) error
	ListManualRatings(ctx context.Context, userID int64) ([]*domain.ManualRating, error)
}

// UserRepository интерфейс репозитория клиентов
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetLoyaltyBonus(ctx context.Context, id int64, bonus int) error
}

// RentalRepository интерфейс репозитория аренд
type RentalRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	ListAwaitingRating(ctx context.Context) ([]*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
}

// RulesRepository хранилище правил расчета рейтинга
type RulesRepository interface {
	GetRules(ctx context.Context) (*domain.RatingRules, error)
	SaveRules(ctx context.Context, rules *domain.RatingRules) error
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
