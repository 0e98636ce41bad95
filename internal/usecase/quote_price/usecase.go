package quote_price

import (
	"context"
	"errors"
	"fmt"

	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating"
)

// UseCase use case расчета стоимости аренды
type UseCase struct {
	consoleRepo  ConsoleRepository
	pricer       Pricer
	rating       RatingEvaluator
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	consoleRepo ConsoleRepository,
	pricer Pricer,
	rating RatingEvaluator,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(consoleRepo, pricer, rating, &RealTimeProvider{}, logger)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	consoleRepo ConsoleRepository,
	pricer Pricer,
	rating RatingEvaluator,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		consoleRepo:  consoleRepo,
		pricer:       pricer,
		rating:       rating,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute рассчитывает стоимость аренды консоли на заданное число часов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("QuotePrice: console=%s, hours=%d", req.ConsoleID, req.Hours)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("QuotePrice: validation failed: %v", err)
		return nil, err
	}

	// 2. Консоль и базовая стоимость
	console, err := uc.consoleRepo.GetByID(ctx, req.ConsoleID)
	if err != nil {
		if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
			uc.logger.Warn("QuotePrice: console=%s not found", req.ConsoleID)
			return nil, ErrConsoleNotFound
		}
		uc.logger.Error("QuotePrice: failed to get console=%s: %v", req.ConsoleID, err)
		return nil, fmt.Errorf("%w: failed to get console: %v", ErrInternal, err)
	}
	base := console.CostForHours(req.Hours)

	// 3. Скидка консоли на текущий момент
	quote, err := uc.pricer.Price(ctx, console.ID, base, req.Hours, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("QuotePrice: failed to price console=%s: %v", console.ID, err)
		return nil, fmt.Errorf("%w: failed to price rental: %v", ErrInternal, err)
	}

	resp := &Response{
		ConsoleID:      console.ID,
		Hours:          req.Hours,
		PricePerHour:   console.RentalPrice,
		BaseCost:       quote.BaseCost,
		DiscountAmount: quote.DiscountAmount,
		FinalCost:      quote.FinalCost,
		Discount:       quote.Discount,
	}

	if req.UserID == nil {
		return resp, nil
	}

	// 4. Скидка уровня клиента считается от базовой стоимости
	userRating, err := uc.rating.Evaluate(ctx, *req.UserID)
	if err != nil {
		if errors.Is(err, rating.ErrUserNotFound) {
			uc.logger.Info("QuotePrice: user=%d is not registered, tier discount skipped", *req.UserID)
			return resp, nil
		}
		uc.logger.Error("QuotePrice: failed to evaluate rating for user=%d: %v", *req.UserID, err)
		return nil, fmt.Errorf("%w: failed to evaluate rating: %v", ErrInternal, err)
	}

	benefits := rating.Benefits(userRating.Status)
	tierAmount := roundMoney(base * float64(benefits.DiscountPercent) / 100)
	resp.Tier = &TierQuote{
		Status:          string(userRating.Status),
		StatusName:      userRating.Status.DisplayName(),
		DiscountPercent: benefits.DiscountPercent,
		DiscountAmount:  tierAmount,
		FinalCost:       base - tierAmount,
	}

	return resp, nil
}
