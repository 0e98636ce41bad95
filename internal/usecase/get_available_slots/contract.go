package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	availabilityModels "github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"
)

// AvailabilityService календарь и свободные слоты консоли
type AvailabilityService interface {
	AvailableSlots(ctx context.Context, consoleID string, date time.Time, userID *int64) (*availabilityModels.AvailableSlotsResponse, error)
}

// DiscountService проверка скидок консоли на дату
type DiscountService interface {
	DateHasDiscount(ctx context.Context, consoleID string, date time.Time) (bool, error)
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
