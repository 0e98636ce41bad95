package rating

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	ratingRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rating"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating/models"
)

// Service сервис рейтинга клиентов
// Весовая схема (0–100) определяет уровень и льготы, ручная (1.0–5.0) хранится отдельно
type Service struct {
	ratingRepo   RatingRepository
	userRepo     UserRepository
	rentalRepo   RentalRepository
	rulesRepo    RulesRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса рейтинга
func NewService(
	ratingRepo RatingRepository,
	userRepo UserRepository,
	rentalRepo RentalRepository,
	rulesRepo RulesRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return NewServiceWithTimeProvider(ratingRepo, userRepo, rentalRepo, rulesRepo, txManager, &RealTimeProvider{}, logger)
}

// NewServiceWithTimeProvider создает сервис с заданным провайдером времени (для тестов)
func NewServiceWithTimeProvider(
	ratingRepo RatingRepository,
	userRepo UserRepository,
	rentalRepo RentalRepository,
	rulesRepo RulesRepository,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		ratingRepo:   ratingRepo,
		userRepo:     userRepo,
		rentalRepo:   rentalRepo,
		rulesRepo:    rulesRepo,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// AddTransaction добавляет итоги аренды вручную и пересчитывает рейтинг
func (s *Service) AddTransaction(ctx context.Context, req *models.AddTransactionRequest) (*models.UserRatingResponse, error) {
	s.logger.Info("AddTransaction: user=%d timing=%s condition=%s compliance=%s",
		req.UserID, req.ReturnTiming, req.ItemCondition, req.RuleCompliance)

	outcome := &models.RentalOutcome{
		UserID:         req.UserID,
		ReturnTiming:   domain.ReturnTiming(req.ReturnTiming),
		ItemCondition:  domain.ItemCondition(req.ItemCondition),
		RuleCompliance: domain.RuleCompliance(req.RuleCompliance),
		Notes:          req.Notes,
		CreatedBy:      req.CreatedBy,
	}
	if req.RentalID != nil {
		outcome.RentalID = *req.RentalID
	}

	rating, err := s.RecordRentalOutcome(ctx, outcome)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, "AddTransaction", rating)
}

// RecordRentalOutcome записывает итоги аренды и пересчитывает рейтинг
// Вызывается внутри транзакции завершения аренды и переиспользует ее
func (s *Service) RecordRentalOutcome(ctx context.Context, outcome *models.RentalOutcome) (*domain.UserRating, error) {
	// 1. Валидируем классы итогов
	if err := validateOutcome(outcome); err != nil {
		s.logger.Warn("RecordRentalOutcome: validation failed: %v", err)
		return nil, err
	}

	var rating *domain.UserRating
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 2. Клиент должен существовать
		if _, err := s.getUser(ctx, "RecordRentalOutcome", outcome.UserID); err != nil {
			return err
		}

		// 3. Повторная запись по той же аренде заменяет прежнюю
		if outcome.ReplaceExisting && outcome.RentalID != "" {
			removed, err := s.ratingRepo.DeleteRentalTransactions(ctx, outcome.RentalID)
			if err != nil {
				s.logger.Error("RecordRentalOutcome: failed to delete transactions of rental=%s: %v", outcome.RentalID, err)
				return fmt.Errorf("%w: RecordRentalOutcome - delete transactions: %v", ErrInternal, err)
			}
			if removed > 0 {
				s.logger.Info("RecordRentalOutcome: replaced %d transactions of rental=%s", removed, outcome.RentalID)
			}
		}

		// 4. Сохраняем транзакцию
		tx := &domain.RatingTransaction{
			ID:             uuid.NewString(),
			UserID:         outcome.UserID,
			ReturnTiming:   outcome.ReturnTiming,
			ItemCondition:  outcome.ItemCondition,
			RuleCompliance: outcome.RuleCompliance,
			Notes:          outcome.Notes,
			CreatedBy:      outcome.CreatedBy,
			CreatedAt:      s.timeProvider.Now(),
		}
		if outcome.RentalID != "" {
			rentalID := outcome.RentalID
			tx.RentalID = &rentalID
		}
		if err := s.ratingRepo.AddTransaction(ctx, tx); err != nil {
			s.logger.Error("RecordRentalOutcome: failed to add transaction for user=%d: %v", outcome.UserID, err)
			return fmt.Errorf("%w: RecordRentalOutcome - add transaction: %v", ErrInternal, err)
		}

		// 5. Пересчитываем рейтинг
		var err error
		rating, err = s.recalculate(ctx, "RecordRentalOutcome", outcome.UserID, nil, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RecordRentalOutcome: user=%d score=%d status=%s", rating.UserID, rating.FinalScore, rating.Status)
	return rating, nil
}

// Evaluate рассчитывает рейтинг клиента без сохранения
func (s *Service) Evaluate(ctx context.Context, userID int64) (*domain.UserRating, error) {
	user, err := s.getUser(ctx, "Evaluate", userID)
	if err != nil {
		return nil, err
	}
	return s.compute(ctx, "Evaluate", user)
}

// GetUserRating пересчитывает рейтинг клиента и сохраняет снимок
func (s *Service) GetUserRating(ctx context.Context, userID int64) (*models.UserRatingResponse, error) {
	var rating *domain.UserRating
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		rating, err = s.recalculate(ctx, "GetUserRating", userID, nil, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, "GetUserRating", rating)
}

// ListRatings возвращает сохраненные рейтинги клиентов по убыванию балла
func (s *Service) ListRatings(ctx context.Context) ([]*models.UserRatingResponse, error) {
	ratings, err := s.ratingRepo.ListRatings(ctx)
	if err != nil {
		s.logger.Error("ListRatings: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRatings - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.UserRatingResponse, 0, len(ratings))
	for _, r := range ratings {
		result = append(result, models.FromDomainRating(r, Benefits(r.Status)))
	}
	return result, nil
}

// ListTransactions возвращает итоги аренд, новые первыми
func (s *Service) ListTransactions(ctx context.Context, userID *int64, limit uint64) ([]*models.TransactionResponse, error) {
	txs, err := s.ratingRepo.ListTransactions(ctx, userID, limit)
	if err != nil {
		s.logger.Error("ListTransactions: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListTransactions - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		result = append(result, models.FromDomainTransaction(tx, Describe(tx)))
	}
	return result, nil
}

// History возвращает историю рейтинга клиента
func (s *Service) History(ctx context.Context, userID int64, limit uint64) ([]*models.HistoryEntryResponse, error) {
	if _, err := s.getUser(ctx, "History", userID); err != nil {
		return nil, err
	}

	entries, err := s.ratingRepo.ListHistory(ctx, userID, limit)
	if err != nil {
		s.logger.Error("History: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: History - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainHistory(entries), nil
}

// AdjustLoyaltyBonus изменяет ручной бонус лояльности на delta
// Бонус ограничен диапазоном [0, 100], причина и сумма сохраняются в истории
func (s *Service) AdjustLoyaltyBonus(ctx context.Context, userID int64, delta int, reason string) (*models.UserRatingResponse, error) {
	s.logger.Info("AdjustLoyaltyBonus: user=%d delta=%d reason=%q", userID, delta, reason)

	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", ErrInvalidInput)
	}

	var rating *domain.UserRating
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		user, err := s.getUser(ctx, "AdjustLoyaltyBonus", userID)
		if err != nil {
			return err
		}

		bonus := clamp(user.LoyaltyBonus+delta, minScore, maxScore)
		if err := s.userRepo.SetLoyaltyBonus(ctx, userID, bonus); err != nil {
			s.logger.Error("AdjustLoyaltyBonus: failed to save bonus for user=%d: %v", userID, err)
			return fmt.Errorf("%w: AdjustLoyaltyBonus - save bonus: %v", ErrInternal, err)
		}

		rating, err = s.recalculate(ctx, "AdjustLoyaltyBonus", userID, &reason, &delta)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, "AdjustLoyaltyBonus", rating)
}

// GetRules возвращает действующие правила расчета
func (s *Service) GetRules(ctx context.Context) (*domain.RatingRules, error) {
	return s.rules(ctx, "GetRules")
}

// UpdateRules сохраняет правила расчета
// Не переданные таблицы поправок берутся по умолчанию
func (s *Service) UpdateRules(ctx context.Context, rules *domain.RatingRules) (*domain.RatingRules, error) {
	defaults := domain.DefaultRatingRules()
	if rules.ReturnTiming == nil {
		rules.ReturnTiming = defaults.ReturnTiming
	}
	if rules.ItemCondition == nil {
		rules.ItemCondition = defaults.ItemCondition
	}
	if rules.RuleCompliance == nil {
		rules.RuleCompliance = defaults.RuleCompliance
	}

	if err := validateRules(rules); err != nil {
		s.logger.Warn("UpdateRules: validation failed: %v", err)
		return nil, err
	}

	if err := s.rulesRepo.SaveRules(ctx, rules); err != nil {
		s.logger.Error("UpdateRules: repository error: %v", err)
		return nil, fmt.Errorf("%w: UpdateRules - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateRules: rules saved, window=%d weights=%.2f/%.2f",
		rules.DisciplineWindow, rules.DisciplineWeight, rules.LoyaltyWeight)
	return rules, nil
}

// RecordManualRating сохраняет ручную оценку завершенной аренды
func (s *Service) RecordManualRating(ctx context.Context, req *models.ManualRatingRequest) (*models.ManualRatingResponse, error) {
	s.logger.Info("RecordManualRating: rental=%s by admin=%d", req.RentalID, req.CreatedBy)

	// 1. Валидируем оценки
	manual := &domain.ManualRating{
		ID:               req.RentalID,
		RentalID:         req.RentalID,
		ConsoleCondition: domain.ConsoleConditionMark(req.ConsoleCondition),
		RuleCompliance:   domain.ComplianceMark(req.RuleCompliance),
		ReturnTiming:     domain.TimingMark(req.ReturnTiming),
		Comment:          req.Comment,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        s.timeProvider.Now(),
	}
	if req.RentalID == "" || !IsValidManualRating(manual) {
		s.logger.Warn("RecordManualRating: invalid marks %+v", req)
		return nil, fmt.Errorf("%w: unknown rating marks", ErrInvalidInput)
	}

	var score float64
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 2. Аренда должна быть завершена и еще не оценена
		rental, err := s.rentalRepo.GetByID(ctx, req.RentalID)
		if err != nil {
			if errors.Is(err, rentalRepo.ErrRentalNotFound) {
				s.logger.Warn("RecordManualRating: rental=%s not found", req.RentalID)
				return ErrRentalNotFound
			}
			s.logger.Error("RecordManualRating: failed to get rental=%s: %v", req.RentalID, err)
			return fmt.Errorf("%w: RecordManualRating - get rental: %v", ErrInternal, err)
		}
		if !rental.IsFinished() {
			s.logger.Warn("RecordManualRating: rental=%s has status %s", rental.ID, rental.Status)
			return ErrRentalNotFinished
		}
		if rental.RatingID != nil {
			s.logger.Warn("RecordManualRating: rental=%s already rated", rental.ID)
			return ErrAlreadyRated
		}
		manual.UserID = rental.UserID

		// 3. Сохраняем оценку
		if err := s.ratingRepo.CreateManualRating(ctx, manual); err != nil {
			if errors.Is(err, ratingRepo.ErrAlreadyRated) {
				return ErrAlreadyRated
			}
			s.logger.Error("RecordManualRating: failed to save rating for rental=%s: %v", rental.ID, err)
			return fmt.Errorf("%w: RecordManualRating - save rating: %v", ErrInternal, err)
		}

		// 4. Отмечаем аренду как оцененную
		ratedAt := manual.CreatedAt
		rental.RatingID = &manual.ID
		rental.RatedAt = &ratedAt
		if err := s.rentalRepo.Update(ctx, rental); err != nil {
			s.logger.Error("RecordManualRating: failed to mark rental=%s: %v", rental.ID, err)
			return fmt.Errorf("%w: RecordManualRating - mark rental: %v", ErrInternal, err)
		}

		// 5. Пересчитываем балл ручной схемы и пишем в историю
		score, err = s.manualScore(ctx, "RecordManualRating", rental.UserID)
		if err != nil {
			return err
		}
		entry := &domain.RatingHistoryEntry{
			UserID:    rental.UserID,
			Scheme:    domain.SchemeManual,
			Score:     score,
			CreatedAt: manual.CreatedAt,
		}
		if err := s.ratingRepo.AddHistory(ctx, entry); err != nil {
			s.logger.Error("RecordManualRating: failed to add history for user=%d: %v", rental.UserID, err)
			return fmt.Errorf("%w: RecordManualRating - add history: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("RecordManualRating: rental=%s rated, user=%d manual score=%.2f", manual.RentalID, manual.UserID, score)
	return models.FromDomainManualRating(manual, score), nil
}

// RentalsAwaitingRating возвращает завершенные аренды без ручной оценки
func (s *Service) RentalsAwaitingRating(ctx context.Context) ([]*models.PendingRentalResponse, error) {
	rentals, err := s.rentalRepo.ListAwaitingRating(ctx)
	if err != nil {
		s.logger.Error("RentalsAwaitingRating: repository error: %v", err)
		return nil, fmt.Errorf("%w: RentalsAwaitingRating - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainPendingRentals(rentals), nil
}

// ManualScore возвращает балл клиента по ручной схеме
func (s *Service) ManualScore(ctx context.Context, userID int64) (float64, error) {
	if _, err := s.getUser(ctx, "ManualScore", userID); err != nil {
		return 0, err
	}
	return s.manualScore(ctx, "ManualScore", userID)
}

// recalculate пересчитывает рейтинг, сохраняет снимок и при изменении добавляет запись в историю
// Запись в историю добавляется всегда, если указана причина бонуса
func (s *Service) recalculate(ctx context.Context, method string, userID int64, reason *string, amount *int) (*domain.UserRating, error) {
	user, err := s.getUser(ctx, method, userID)
	if err != nil {
		return nil, err
	}

	rating, err := s.compute(ctx, method, user)
	if err != nil {
		return nil, err
	}

	previous, err := s.ratingRepo.GetRating(ctx, userID)
	if err != nil && !errors.Is(err, ratingRepo.ErrRatingNotFound) {
		s.logger.Error("%s: failed to get previous rating for user=%d: %v", method, userID, err)
		return nil, fmt.Errorf("%w: %s - get rating: %v", ErrInternal, method, err)
	}

	if err := s.ratingRepo.SaveRating(ctx, rating); err != nil {
		s.logger.Error("%s: failed to save rating for user=%d: %v", method, userID, err)
		return nil, fmt.Errorf("%w: %s - save rating: %v", ErrInternal, method, err)
	}

	changed := previous == nil ||
		previous.FinalScore != rating.FinalScore ||
		previous.Discipline != rating.Discipline ||
		previous.Loyalty != rating.Loyalty
	if !changed && reason == nil {
		return rating, nil
	}

	status := rating.Status
	discipline, loyalty := rating.Discipline, rating.Loyalty
	entry := &domain.RatingHistoryEntry{
		UserID:      userID,
		Scheme:      domain.SchemeWeighted,
		Score:       float64(rating.FinalScore),
		Status:      &status,
		Discipline:  &discipline,
		Loyalty:     &loyalty,
		BonusReason: reason,
		BonusAmount: amount,
		CreatedAt:   rating.CalculatedAt,
	}
	if err := s.ratingRepo.AddHistory(ctx, entry); err != nil {
		s.logger.Error("%s: failed to add history for user=%d: %v", method, userID, err)
		return nil, fmt.Errorf("%w: %s - add history: %v", ErrInternal, method, err)
	}

	return rating, nil
}

func (s *Service) compute(ctx context.Context, method string, user *domain.User) (*domain.UserRating, error) {
	rules, err := s.rules(ctx, method)
	if err != nil {
		return nil, err
	}

	txs, err := s.ratingRepo.ListTransactions(ctx, &user.ID, 0)
	if err != nil {
		s.logger.Error("%s: failed to list transactions for user=%d: %v", method, user.ID, err)
		return nil, fmt.Errorf("%w: %s - list transactions: %v", ErrInternal, method, err)
	}

	count, err := s.rentalRepo.CountByUser(ctx, user.ID)
	if err != nil {
		s.logger.Error("%s: failed to count rentals for user=%d: %v", method, user.ID, err)
		return nil, fmt.Errorf("%w: %s - count rentals: %v", ErrInternal, method, err)
	}

	now := s.timeProvider.Now()
	discipline := Discipline(txs, *rules)
	loyalty := Loyalty(ProfileFromUser(user, count), now, *rules)
	final, status := Final(discipline, loyalty, *rules)

	return &domain.UserRating{
		UserID:       user.ID,
		Discipline:   discipline,
		Loyalty:      loyalty,
		FinalScore:   final,
		Status:       status,
		Scheme:       domain.SchemeWeighted,
		CalculatedAt: now,
	}, nil
}

func (s *Service) manualScore(ctx context.Context, method string, userID int64) (float64, error) {
	ratings, err := s.ratingRepo.ListManualRatings(ctx, userID)
	if err != nil {
		s.logger.Error("%s: failed to list manual ratings for user=%d: %v", method, userID, err)
		return 0, fmt.Errorf("%w: %s - list manual ratings: %v", ErrInternal, method, err)
	}
	return ManualScore(ratings), nil
}

func (s *Service) rules(ctx context.Context, method string) (*domain.RatingRules, error) {
	rules, err := s.rulesRepo.GetRules(ctx)
	if err != nil {
		s.logger.Error("%s: failed to load rating rules: %v", method, err)
		return nil, fmt.Errorf("%w: %s - load rules: %v", ErrInternal, method, err)
	}
	return rules, nil
}

func (s *Service) getUser(ctx context.Context, method string, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("%s: user=%d not found", method, userID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("%s: failed to get user=%d: %v", method, userID, err)
		return nil, fmt.Errorf("%w: %s - get user: %v", ErrInternal, method, err)
	}
	return user, nil
}

func (s *Service) toResponse(ctx context.Context, method string, rating *domain.UserRating) (*models.UserRatingResponse, error) {
	resp := models.FromDomainRating(rating, Benefits(rating.Status))

	ratings, err := s.ratingRepo.ListManualRatings(ctx, rating.UserID)
	if err != nil {
		s.logger.Error("%s: failed to list manual ratings for user=%d: %v", method, rating.UserID, err)
		return nil, fmt.Errorf("%w: %s - list manual ratings: %v", ErrInternal, method, err)
	}
	if len(ratings) > 0 {
		score := ManualScore(ratings)
		resp.ManualScore = &score
	}

	return resp, nil
}

func validateOutcome(o *models.RentalOutcome) error {
	if o.UserID <= 0 {
		return fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	if !domain.IsValidReturnTiming(o.ReturnTiming) {
		return fmt.Errorf("%w: unknown return timing %q", ErrInvalidInput, o.ReturnTiming)
	}
	if !domain.IsValidItemCondition(o.ItemCondition) {
		return fmt.Errorf("%w: unknown item condition %q", ErrInvalidInput, o.ItemCondition)
	}
	if !domain.IsValidRuleCompliance(o.RuleCompliance) {
		return fmt.Errorf("%w: unknown rule compliance %q", ErrInvalidInput, o.RuleCompliance)
	}
	return nil
}

func validateRules(r *domain.RatingRules) error {
	if r.DisciplineWindow < 1 {
		return fmt.Errorf("%w: discipline window must be positive", ErrInvalidInput)
	}
	if r.DisciplineWeight < 0 || r.LoyaltyWeight < 0 || r.DisciplineWeight+r.LoyaltyWeight == 0 {
		return fmt.Errorf("%w: weights must be non-negative and not both zero", ErrInvalidInput)
	}
	if r.RegularThreshold < minScore || r.PremiumThreshold > maxScore || r.RegularThreshold > r.PremiumThreshold {
		return fmt.Errorf("%w: thresholds must satisfy 0 <= regular <= premium <= 100", ErrInvalidInput)
	}
	if r.PerRentalBonus < 0 || r.MaxRepeatBonus < 0 {
		return fmt.Errorf("%w: loyalty bonuses must not be negative", ErrInvalidInput)
	}
	return nil
}
