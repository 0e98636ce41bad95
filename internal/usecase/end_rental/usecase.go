package end_rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rating/models"
	rentalModels "github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
)

// UseCase use case завершения аренды
type UseCase struct {
	rentalRepo   RentalRepository
	consoleRepo  ConsoleRepository
	userRepo     UserRepository
	rating       RatingRecorder
	holds        HoldService
	dispatcher   EventDispatcher
	locker       KeyLocker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	rentalRepo RentalRepository,
	consoleRepo ConsoleRepository,
	userRepo UserRepository,
	rating RatingRecorder,
	holds HoldService,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(
		rentalRepo, consoleRepo, userRepo, rating, holds, dispatcher,
		locker, txManager, &RealTimeProvider{}, logger,
	)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	rentalRepo RentalRepository,
	consoleRepo ConsoleRepository,
	userRepo UserRepository,
	rating RatingRecorder,
	holds HoldService,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		rentalRepo:   rentalRepo,
		consoleRepo:  consoleRepo,
		userRepo:     userRepo,
		rating:       rating,
		holds:        holds,
		dispatcher:   dispatcher,
		locker:       locker,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute завершает активную аренду: расчет, освобождение консоли и запись в рейтинг
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("EndRental: rental=%s, caller=%d, admin=%t", req.RentalID, req.CallerID, req.IsAdmin)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("EndRental: validation failed: %v", err)
		return nil, err
	}

	// 2. Находим аренду и проверяем права
	rental, err := uc.getRental(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	if err := checkRental(rental, req); err != nil {
		uc.logger.Warn("EndRental: rental id=%s: %v", rental.ID, err)
		return nil, err
	}

	// 3. Блокируем консоль
	lockCtx, cancel := context.WithTimeout(ctx, domain.ConsoleLockTimeout)
	unlock, err := uc.locker.Lock(lockCtx, rental.ConsoleID)
	cancel()
	if err != nil {
		uc.logger.Warn("EndRental: failed to lock console id=%s: %v", rental.ConsoleID, err)
		return nil, fmt.Errorf("%w: %v", ErrConsoleBusy, err)
	}
	defer unlock()

	// 4. Все записи завершения в одной транзакции
	var hours int
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.getRental(txCtx, req.RentalID)
		if err != nil {
			return err
		}
		if err := checkRental(current, req); err != nil {
			return err
		}
		rental = current

		hours, err = uc.FinishLocked(txCtx, rental)
		if err != nil {
			return err
		}

		if _, err := uc.rating.RecordRentalOutcome(txCtx, models.DefaultOutcome(rental.UserID, rental.ID)); err != nil {
			return fmt.Errorf("%w: failed to record rating: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConsoleBusy, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("EndRental: rental id=%s: %v", req.RentalID, err)
		} else {
			uc.logger.Warn("EndRental: rental id=%s: %v", req.RentalID, err)
		}
		return nil, err
	}

	// 5. Уведомляем после фиксации
	uc.dispatcher.Dispatch(ctx, &domain.RentalEvent{
		Type:       domain.EventRentalEnded,
		UserID:     rental.UserID,
		ConsoleID:  rental.ConsoleID,
		RentalID:   ptr.Ptr(rental.ID),
		RequestID:  rental.RequestID,
		Hours:      ptr.Ptr(hours),
		Cost:       ptr.Ptr(rental.TotalCost),
		OccurredAt: uc.timeProvider.Now(),
	})

	uc.logger.Info("EndRental: rental id=%s completed, hours=%d, total=%.2f", rental.ID, hours, rental.TotalCost)
	return &Response{
		Rental:      rentalModels.FromDomainRental(rental),
		BilledHours: hours,
	}, nil
}

// FinishLocked завершает активную аренду внутри транзакции под блокировкой консоли
// Стоимость: оплачиваемые часы по цене консоли без скидки. Возвращает число часов
func (uc *UseCase) FinishLocked(ctx context.Context, rental *domain.Rental) (int, error) {
	now := uc.timeProvider.Now()

	// 1. Цена консоли
	console, err := uc.consoleRepo.GetByID(ctx, rental.ConsoleID)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to get console: %v", ErrInternal, err)
	}

	// 2. Расчет
	hours := domain.BillableHours(rental.StartTime, now)
	rental.EndTime = ptr.Ptr(now)
	rental.TotalCost = console.CostForHours(hours)
	rental.Status = domain.RentalCompleted

	if err := uc.rentalRepo.Update(ctx, rental); err != nil {
		return 0, fmt.Errorf("%w: failed to update rental: %v", ErrInternal, err)
	}

	// 3. Консоль снова доступна
	if err := uc.consoleRepo.UpdateStatus(ctx, rental.ConsoleID, domain.ConsoleAvailable); err != nil {
		return 0, fmt.Errorf("%w: failed to release console: %v", ErrInternal, err)
	}

	// 4. Сумма оплаченных аренд клиента
	if err := uc.userRepo.AddTotalSpent(ctx, rental.UserID, rental.TotalCost); err != nil {
		return 0, fmt.Errorf("%w: failed to update total spent: %v", ErrInternal, err)
	}

	// 5. Снимаем удержание этой консоли клиентом
	if _, err := uc.holds.ReleaseTempForConsole(ctx, rental.UserID, rental.ConsoleID); err != nil {
		return 0, fmt.Errorf("%w: failed to release hold: %v", ErrInternal, err)
	}

	return hours, nil
}

func (uc *UseCase) getRental(ctx context.Context, id string) (*domain.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rentalRepo.ErrRentalNotFound) {
			uc.logger.Warn("EndRental: rental id=%s not found", id)
			return nil, ErrRentalNotFound
		}
		uc.logger.Error("EndRental: failed to get rental id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get rental: %v", ErrInternal, err)
	}
	return rental, nil
}
