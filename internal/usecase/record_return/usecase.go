package record_return

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	ratingModels "github.com/m04kA/SMC-ConsoleRental/internal/service/rating/models"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
)

// UseCase use case приёмки консоли после аренды
type UseCase struct {
	rentalRepo   RentalRepository
	finisher     RentalFinisher
	rating       RatingRecorder
	dispatcher   EventDispatcher
	locker       KeyLocker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	rentalRepo RentalRepository,
	finisher RentalFinisher,
	rating RatingRecorder,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(rentalRepo, finisher, rating, dispatcher, locker, txManager, &RealTimeProvider{}, logger)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	rentalRepo RentalRepository,
	finisher RentalFinisher,
	rating RatingRecorder,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		rentalRepo:   rentalRepo,
		finisher:     finisher,
		rating:       rating,
		dispatcher:   dispatcher,
		locker:       locker,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute принимает консоль: сохраняет итоги приёмки, при необходимости
// завершает аренду и записывает итоги в рейтинг клиента
// Итоги по той же аренде, записанные при завершении, заменяются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.RentalResponse, error) {
	uc.logger.Info("RecordReturn: rental=%s, admin=%d, condition=%s", req.RentalID, req.AdminID, req.Condition)

	// 1. Валидация входных данных
	values, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("RecordReturn: validation failed: %v", err)
		return nil, err
	}

	// 2. Находим аренду
	rental, err := uc.getRental(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	if !rental.CanRecordReturn() {
		uc.logger.Warn("RecordReturn: rental id=%s has status %s", rental.ID, rental.Status)
		return nil, ErrInvalidTransition
	}

	// 3. Блокируем консоль: активная аренда будет завершена
	lockCtx, cancel := context.WithTimeout(ctx, domain.ConsoleLockTimeout)
	unlock, err := uc.locker.Lock(lockCtx, rental.ConsoleID)
	cancel()
	if err != nil {
		uc.logger.Warn("RecordReturn: failed to lock console id=%s: %v", rental.ConsoleID, err)
		return nil, fmt.Errorf("%w: %v", ErrConsoleBusy, err)
	}
	defer unlock()

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.getRental(txCtx, req.RentalID)
		if err != nil {
			return err
		}
		if !current.CanRecordReturn() {
			return ErrInvalidTransition
		}
		rental = current

		// 4. Активная аренда сначала завершается по обычным правилам
		if rental.IsActive() {
			hours, err := uc.finisher.FinishLocked(txCtx, rental)
			if err != nil {
				return fmt.Errorf("%w: failed to finish rental: %v", ErrInternal, err)
			}
			uc.logger.Info("RecordReturn: rental id=%s finished on return, hours=%d", rental.ID, hours)
		}

		// 5. Итоги приёмки
		rental.ReturnInfo = &domain.ReturnInfo{
			Condition:       values.condition,
			AdminComment:    strings.TrimSpace(req.AdminComment),
			Photos:          req.Photos,
			ClientConfirmed: req.ClientConfirmed,
			ClientSignature: req.ClientSignature,
			RecordedBy:      req.AdminName,
			RecordedByID:    req.AdminID,
			ReturnDate:      uc.timeProvider.Now(),
		}
		rental.Status = domain.RentalReturned
		if err := uc.rentalRepo.Update(txCtx, rental); err != nil {
			return fmt.Errorf("%w: failed to save return: %v", ErrInternal, err)
		}

		// 6. Итоги в рейтинг; своевременность по моменту завершения
		outcome := &ratingModels.RentalOutcome{
			UserID:          rental.UserID,
			RentalID:        rental.ID,
			ReturnTiming:    rental.Timing(ptr.Value(rental.EndTime)),
			ItemCondition:   values.condition.ItemCondition(),
			RuleCompliance:  values.compliance,
			CreatedBy:       req.AdminID,
			ReplaceExisting: true,
		}
		if rental.ReturnInfo.AdminComment != "" {
			outcome.Notes = ptr.Ptr(rental.ReturnInfo.AdminComment)
		}
		if _, err := uc.rating.RecordRentalOutcome(txCtx, outcome); err != nil {
			return fmt.Errorf("%w: failed to record rating: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConsoleBusy, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("RecordReturn: rental id=%s: %v", req.RentalID, err)
		} else {
			uc.logger.Warn("RecordReturn: rental id=%s: %v", req.RentalID, err)
		}
		return nil, err
	}

	// 7. Уведомляем после фиксации
	uc.dispatcher.Dispatch(ctx, &domain.RentalEvent{
		Type:       domain.EventRentalReturned,
		UserID:     rental.UserID,
		ConsoleID:  rental.ConsoleID,
		RentalID:   ptr.Ptr(rental.ID),
		RequestID:  rental.RequestID,
		Cost:       ptr.Ptr(rental.TotalCost),
		OccurredAt: uc.timeProvider.Now(),
	})

	uc.logger.Info("RecordReturn: rental id=%s returned in condition %s", rental.ID, values.condition)
	return models.FromDomainRental(rental), nil
}

func (uc *UseCase) getRental(ctx context.Context, id string) (*domain.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rentalRepo.ErrRentalNotFound) {
			uc.logger.Warn("RecordReturn: rental id=%s not found", id)
			return nil, ErrRentalNotFound
		}
		uc.logger.Error("RecordReturn: failed to get rental id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get rental: %v", ErrInternal, err)
	}
	return rental, nil
}
