package quote_price

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	discountModels "github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
)

// ConsoleRepository интерфейс репозитория консолей
type ConsoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Console, error)
}

// Pricer расчет стоимости со скидкой консоли
type Pricer interface {
	Price(ctx context.Context, consoleID string, baseCost float64, hours int, at time.Time) (*discountModels.PriceQuote, error)
}

// RatingEvaluator расчет текущего рейтинга клиента
type RatingEvaluator interface {
	Evaluate(ctx context.Context, userID int64) (*domain.UserRating, error)
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
