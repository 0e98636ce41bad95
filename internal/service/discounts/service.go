package discounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	discountRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/discount"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
)

// Service сервис скидок: выбор действующей скидки и расчет цены
type Service struct {
	discountRepo DiscountRepository
	consoleRepo  ConsoleRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса скидок
func NewService(discountRepo DiscountRepository, consoleRepo ConsoleRepository, logger Logger) *Service {
	return &Service{
		discountRepo: discountRepo,
		consoleRepo:  consoleRepo,
		logger:       logger,
	}
}

// FindActive возвращает действующую в момент at скидку консоли или nil
// Из нескольких подходящих выбирается наибольшее значение, процентные раньше фиксированных
func (s *Service) FindActive(ctx context.Context, consoleID string, at time.Time) (*domain.Discount, error) {
	candidates, err := s.candidates(ctx, "FindActive", consoleID, func(d *domain.Discount) bool {
		return d.IsActiveAt(at)
	})
	if err != nil {
		return nil, err
	}
	return pick(candidates, 0, false), nil
}

// Price рассчитывает стоимость аренды с учетом скидки
// Скидка с порогом min_hours выше длительности аренды не применяется
func (s *Service) Price(ctx context.Context, consoleID string, baseCost float64, hours int, at time.Time) (*models.PriceQuote, error) {
	quote := &models.PriceQuote{
		Hours:     hours,
		BaseCost:  baseCost,
		FinalCost: baseCost,
	}

	candidates, err := s.candidates(ctx, "Price", consoleID, func(d *domain.Discount) bool {
		return d.IsActiveAt(at) && d.AppliesToHours(hours)
	})
	if err != nil {
		return nil, err
	}

	discount := pick(candidates, baseCost, true)
	if discount == nil {
		return quote, nil
	}

	quote.DiscountAmount = discount.Amount(baseCost)
	quote.FinalCost = baseCost - quote.DiscountAmount
	if quote.FinalCost < 0 {
		quote.FinalCost = 0
	}
	quote.Discount = models.FromDomainDiscount(discount)

	return quote, nil
}

// DateHasDiscount проверяет, действует ли скидка консоли в указанный день (сравнение только по дате)
func (s *Service) DateHasDiscount(ctx context.Context, consoleID string, date time.Time) (bool, error) {
	candidates, err := s.candidates(ctx, "DateHasDiscount", consoleID, func(d *domain.Discount) bool {
		return d.CoversDate(date)
	})
	if err != nil {
		return false, err
	}
	return len(candidates) > 0, nil
}

// DiscountDays возвращает множество дней из интервала, на которые у консоли есть скидка
func (s *Service) DiscountDays(ctx context.Context, consoleID string, from, to time.Time) (map[string]bool, error) {
	discounts, err := s.discountRepo.ListActiveByConsole(ctx, consoleID)
	if err != nil {
		s.logger.Error("DiscountDays: failed to list discounts for console=%s: %v", consoleID, err)
		return nil, fmt.Errorf("%w: DiscountDays - repository error: %v", ErrInternal, err)
	}

	days := make(map[string]bool)
	for day := domain.DateOnly(from); !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, d := range discounts {
			if d.CoversDate(day) {
				days[day.Format(domain.DateFormat)] = true
				break
			}
		}
	}
	return days, nil
}

// Create создает скидку
func (s *Service) Create(ctx context.Context, req *models.CreateDiscountRequest) (*models.DiscountResponse, error) {
	s.logger.Info("Create: creating %s discount value=%.2f for console=%s", req.Type, req.Value, req.ConsoleID)

	// 1. Валидируем параметры скидки
	if err := validate(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что консоль существует
	if _, err := s.consoleRepo.GetByID(ctx, req.ConsoleID); err != nil {
		if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
			s.logger.Warn("Create: console=%s not found", req.ConsoleID)
			return nil, ErrConsoleNotFound
		}
		s.logger.Error("Create: failed to get console=%s: %v", req.ConsoleID, err)
		return nil, fmt.Errorf("%w: Create - get console: %v", ErrInternal, err)
	}

	// 3. Сохраняем
	discount := &domain.Discount{
		ID:          uuid.NewString(),
		ConsoleID:   req.ConsoleID,
		Type:        domain.DiscountType(req.Type),
		Value:       req.Value,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MinHours:    req.MinHours,
		Active:      true,
		Description: req.Description,
	}
	created, err := s.discountRepo.Create(ctx, discount)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created discount id=%s", created.ID)
	return models.FromDomainDiscount(created), nil
}

// Get возвращает скидку по ID
func (s *Service) Get(ctx context.Context, id string) (*models.DiscountResponse, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, discountRepo.ErrDiscountNotFound) {
			return nil, ErrDiscountNotFound
		}
		s.logger.Error("Get: repository error for discount id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainDiscount(discount), nil
}

// List возвращает скидки, опционально только для одной консоли
func (s *Service) List(ctx context.Context, consoleID *string) ([]*models.DiscountResponse, error) {
	discounts, err := s.discountRepo.List(ctx, consoleID)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainDiscounts(discounts), nil
}

// SetActive включает или выключает скидку
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	s.logger.Info("SetActive: discount id=%s active=%t", id, active)

	if err := s.discountRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, discountRepo.ErrDiscountNotFound) {
			s.logger.Warn("SetActive: discount id=%s not found", id)
			return ErrDiscountNotFound
		}
		s.logger.Error("SetActive: repository error for discount id=%s: %v", id, err)
		return fmt.Errorf("%w: SetActive - repository error: %v", ErrInternal, err)
	}
	return nil
}

// Delete удаляет скидку
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: deleting discount id=%s", id)

	if err := s.discountRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, discountRepo.ErrDiscountNotFound) {
			s.logger.Warn("Delete: discount id=%s not found", id)
			return ErrDiscountNotFound
		}
		s.logger.Error("Delete: repository error for discount id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}
	return nil
}

func (s *Service) candidates(ctx context.Context, method, consoleID string, match func(d *domain.Discount) bool) ([]*domain.Discount, error) {
	discounts, err := s.discountRepo.ListActiveByConsole(ctx, consoleID)
	if err != nil {
		s.logger.Error("%s: failed to list discounts for console=%s: %v", method, consoleID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}

	result := make([]*domain.Discount, 0, len(discounts))
	for _, d := range discounts {
		if match(d) {
			result = append(result, d)
		}
	}
	return result, nil
}

// pick выбирает одну скидку из подходящих
// С базовой стоимостью побеждает наибольшая сумма скидки, без неё: процентная раньше
// фиксированной и большее значение. Далее более поздний start_date, более новая
// created_at и меньший ID
func pick(candidates []*domain.Discount, base float64, withBase bool) *domain.Discount {
	var best *domain.Discount
	for _, d := range candidates {
		if best == nil || better(d, best, base, withBase) {
			best = d
		}
	}
	return best
}

func better(a, b *domain.Discount, base float64, withBase bool) bool {
	if withBase {
		if amountA, amountB := a.Amount(base), b.Amount(base); amountA != amountB {
			return amountA > amountB
		}
	} else {
		if a.Type != b.Type {
			return a.Type == domain.DiscountPercentage
		}
		if a.Value != b.Value {
			return a.Value > b.Value
		}
	}
	if !a.StartDate.Equal(b.StartDate) {
		return a.StartDate.After(b.StartDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

func validate(req *models.CreateDiscountRequest) error {
	if req.ConsoleID == "" {
		return fmt.Errorf("%w: consoleId is required", ErrInvalidInput)
	}

	switch domain.DiscountType(req.Type) {
	case domain.DiscountPercentage:
		if req.Value <= 0 || req.Value >= 100 {
			return fmt.Errorf("%w: percentage value must be in (0, 100)", ErrInvalidInput)
		}
	case domain.DiscountFixed:
		if req.Value <= 0 {
			return fmt.Errorf("%w: fixed value must be positive", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidInput, req.Type)
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}
	if req.MinHours < 0 {
		return fmt.Errorf("%w: minHours must not be negative", ErrInvalidInput)
	}

	return nil
}
