package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/availability"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating"
)

// UseCase use case получения свободных слотов консоли
type UseCase struct {
	availability AvailabilityService
	discounts    DiscountService
	rating       RatingEvaluator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availability AvailabilityService,
	discounts DiscountService,
	rating RatingEvaluator,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(availability, discounts, rating, &RealTimeProvider{}, logger)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	availability AvailabilityService,
	discounts DiscountService,
	rating RatingEvaluator,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		availability: availability,
		discounts:    discounts,
		rating:       rating,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute возвращает свободные слоты консоли на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: console=%s, date=%s", req.ConsoleID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	day := domain.DateOnly(req.Date)

	// 2. Горизонт бронирования по уровню клиента
	horizon, err := uc.bookingHorizon(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	// 3. Проверка даты
	if err := validateDate(day, now, horizon); err != nil {
		uc.logger.Warn("GetAvailableSlots: date %s rejected: %v", day.Format(domain.DateFormat), err)
		return nil, err
	}

	// 4. Свободные слоты дня из календаря
	free, err := uc.availability.AvailableSlots(ctx, req.ConsoleID, day, req.UserID)
	if err != nil {
		if errors.Is(err, availability.ErrConsoleNotFound) {
			uc.logger.Warn("GetAvailableSlots: console=%s not found", req.ConsoleID)
			return nil, ErrConsoleNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get slots for console=%s: %v", req.ConsoleID, err)
		return nil, fmt.Errorf("%w: failed to get slots: %v", ErrInternal, err)
	}

	// 5. Прошедшие сегодня слоты отбрасываются
	slots, err := buildSlots(free.Slots, day, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid slot catalogue: %v", err)
		return nil, fmt.Errorf("%w: invalid slot catalogue: %v", ErrInternal, err)
	}

	// 6. Отметка о скидке на дату
	hasDiscount, err := uc.discounts.DateHasDiscount(ctx, req.ConsoleID, day)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check discounts for console=%s: %v", req.ConsoleID, err)
		return nil, fmt.Errorf("%w: failed to check discounts: %v", ErrInternal, err)
	}

	uc.logger.Info("GetAvailableSlots: console=%s date=%s status=%s slots=%d",
		req.ConsoleID, free.Date, free.DayStatus, len(slots))

	return &Response{
		ConsoleID:          free.ConsoleID,
		Date:               free.Date,
		DayStatus:          free.DayStatus,
		Slots:              slots,
		HeldByOther:        free.HeldByOther,
		HasDiscount:        hasDiscount,
		BookingHorizonDays: horizon,
	}, nil
}

// bookingHorizon на сколько дней вперед клиент видит календарь
// Анонимный или незарегистрированный клиент получает горизонт обычного уровня
func (uc *UseCase) bookingHorizon(ctx context.Context, userID *int64) (int, error) {
	if userID == nil {
		return rating.Benefits(domain.TierRegular).AdvanceBookingDays, nil
	}

	userRating, err := uc.rating.Evaluate(ctx, *userID)
	if err != nil {
		if errors.Is(err, rating.ErrUserNotFound) {
			return rating.Benefits(domain.TierRegular).AdvanceBookingDays, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to evaluate rating for user=%d: %v", *userID, err)
		return 0, fmt.Errorf("%w: failed to evaluate rating: %v", ErrInternal, err)
	}

	return rating.Benefits(userRating.Status).AdvanceBookingDays, nil
}
