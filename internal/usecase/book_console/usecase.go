package book_console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
)

// UseCase use case прямого бронирования консоли без одобрения администратора
type UseCase struct {
	consoleRepo  ConsoleRepository
	rentalRepo   RentalRepository
	userRepo     UserRepository
	holds        HoldService
	pricer       Pricer
	settings     SettingsProvider
	dispatcher   EventDispatcher
	locker       KeyLocker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	consoleRepo ConsoleRepository,
	rentalRepo RentalRepository,
	userRepo UserRepository,
	holds HoldService,
	pricer Pricer,
	settings SettingsProvider,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(
		consoleRepo, rentalRepo, userRepo, holds, pricer, settings,
		dispatcher, locker, txManager, &RealTimeProvider{}, logger,
	)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	consoleRepo ConsoleRepository,
	rentalRepo RentalRepository,
	userRepo UserRepository,
	holds HoldService,
	pricer Pricer,
	settings SettingsProvider,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		consoleRepo:  consoleRepo,
		rentalRepo:   rentalRepo,
		userRepo:     userRepo,
		holds:        holds,
		pricer:       pricer,
		settings:     settings,
		dispatcher:   dispatcher,
		locker:       locker,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет прямое бронирование: аренда начинается сразу
// Доступно только когда одобрение заявок выключено
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.RentalResponse, error) {
	uc.logger.Info("BookConsole: user=%d, console=%s, hours=%s", req.UserID, req.ConsoleID, formatHours(req.SelectedHours))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("BookConsole: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем настройки
	settings, err := uc.settings.Current(ctx)
	if err != nil {
		uc.logger.Error("BookConsole: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}
	if settings.RequireApproval {
		uc.logger.Warn("BookConsole: direct booking is disabled, user=%d", req.UserID)
		return nil, ErrApprovalRequired
	}
	if err := validateHours(req.SelectedHours, settings); err != nil {
		uc.logger.Warn("BookConsole: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем клиента
	user, err := uc.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("BookConsole: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("BookConsole: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if err := checkUser(user); err != nil {
		uc.logger.Warn("BookConsole: user id=%d is banned", req.UserID)
		return nil, err
	}

	// 4. Блокируем консоль
	unlock, err := uc.lockConsole(ctx, req.ConsoleID)
	if err != nil {
		uc.logger.Warn("BookConsole: failed to lock console id=%s: %v", req.ConsoleID, err)
		return nil, err
	}
	defer unlock()

	// 5. Запускаем аренду в сериализуемой транзакции
	var rental *domain.Rental
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		started, err := uc.StartLocked(txCtx, &StartParams{
			UserID:    req.UserID,
			ConsoleID: req.ConsoleID,
			Hours:     req.SelectedHours,
		})
		if err != nil {
			return err
		}
		rental = started
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("BookConsole: %v", err)
		} else {
			uc.logger.Warn("BookConsole: %v", err)
		}
		return nil, err
	}

	// 6. Уведомляем после фиксации
	uc.dispatcher.Dispatch(ctx, StartedEvent(rental, uc.timeProvider.Now()))

	uc.logger.Info("BookConsole: rental id=%s started for user=%d", rental.ID, rental.UserID)
	return models.FromDomainRental(rental), nil
}

// StartLocked начинает аренду. Вызывается под блокировкой консоли внутри
// сериализуемой транзакции: строка консоли читается FOR UPDATE
func (uc *UseCase) StartLocked(ctx context.Context, p *StartParams) (*domain.Rental, error) {
	now := uc.timeProvider.Now()

	// 1. Консоль должна существовать и быть свободной
	console, err := uc.consoleRepo.GetByID(ctx, p.ConsoleID)
	if err != nil {
		if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
			return nil, ErrConsoleNotFound
		}
		return nil, fmt.Errorf("%w: failed to get console: %v", ErrInternal, err)
	}
	if !console.IsAvailable() {
		return nil, ErrConsoleUnavailable
	}

	// 2. Статус консоли мог разойтись с арендами: проверяем активную аренду
	_, err = uc.rentalRepo.GetActiveByConsole(ctx, p.ConsoleID)
	if err == nil {
		return nil, ErrConsoleUnavailable
	}
	if !errors.Is(err, rentalRepo.ErrRentalNotFound) {
		return nil, fmt.Errorf("%w: failed to check active rental: %v", ErrInternal, err)
	}

	// 3. Временное удержание другим клиентом
	if !p.IgnoreHold {
		held, _, err := uc.holds.IsTempReserved(ctx, p.ConsoleID, ptr.Ptr(p.UserID))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to check hold: %v", ErrInternal, err)
		}
		if held {
			return nil, ErrConsoleHeld
		}
	}

	// 4. Создаем аренду; без срока ожидаемая стоимость нулевая
	rental := &domain.Rental{
		ID:        uuid.NewString(),
		UserID:    p.UserID,
		ConsoleID: p.ConsoleID,
		RequestID: p.RequestID,
		StartTime: now,
		Status:    domain.RentalActive,
	}

	// 5. Для аренды со сроком: стоимость с учетом скидки и ожидаемое окончание
	if p.Hours != nil {
		hours := *p.Hours
		quote, err := uc.pricer.Price(ctx, p.ConsoleID, console.CostForHours(hours), hours, now)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to price rental: %v", ErrInternal, err)
		}
		rental.SelectedHours = ptr.Ptr(hours)
		rental.ExpectedEndTime = ptr.Ptr(now.Add(time.Duration(hours) * time.Hour))
		rental.ExpectedCost = quote.FinalCost
		rental.DiscountAmount = quote.DiscountAmount
		if quote.Discount != nil {
			rental.DiscountID = ptr.Ptr(quote.Discount.ID)
		}
	}

	created, err := uc.rentalRepo.Create(ctx, rental)
	if err != nil {
		if errors.Is(err, rentalRepo.ErrConsoleBusy) {
			return nil, ErrConsoleUnavailable
		}
		return nil, fmt.Errorf("%w: failed to create rental: %v", ErrInternal, err)
	}

	// 6. Консоль занята
	if err := uc.consoleRepo.UpdateStatus(ctx, p.ConsoleID, domain.ConsoleRented); err != nil {
		return nil, fmt.Errorf("%w: failed to mark console rented: %v", ErrInternal, err)
	}

	// 7. Удержание за клиентом на время проверки документов
	if _, err := uc.holds.TempReserve(ctx, p.UserID, p.ConsoleID, 0); err != nil {
		return nil, fmt.Errorf("%w: failed to hold console: %v", ErrInternal, err)
	}

	// 8. Клиент переходит к отправке геопозиции
	step := domain.VerificationLocationRequest
	if err := uc.userRepo.SetVerification(ctx, p.UserID, &step, ptr.Ptr(created.ID)); err != nil {
		return nil, fmt.Errorf("%w: failed to set verification step: %v", ErrInternal, err)
	}

	return created, nil
}

// StartedEvent событие начала аренды
func StartedEvent(rental *domain.Rental, at time.Time) *domain.RentalEvent {
	return &domain.RentalEvent{
		Type:       domain.EventRentalStarted,
		UserID:     rental.UserID,
		ConsoleID:  rental.ConsoleID,
		RentalID:   ptr.Ptr(rental.ID),
		RequestID:  rental.RequestID,
		Hours:      rental.SelectedHours,
		Cost:       ptr.Ptr(rental.ExpectedCost),
		DueAt:      rental.ExpectedEndTime,
		OccurredAt: at,
	}
}

// lockConsole захватывает блокировку консоли с ограничением ожидания
func (uc *UseCase) lockConsole(ctx context.Context, consoleID string) (func(), error) {
	lockCtx, cancel := context.WithTimeout(ctx, domain.ConsoleLockTimeout)
	defer cancel()

	unlock, err := uc.locker.Lock(lockCtx, consoleID)
	if err != nil {
		return nil, fmt.Errorf("%w: console is busy: %v", ErrConsoleUnavailable, err)
	}
	return unlock, nil
}
