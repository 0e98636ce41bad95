package submit_request

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
)

// UseCase use case подачи заявки на аренду
type UseCase struct {
	consoleRepo  ConsoleRepository
	requestRepo  RequestRepository
	userRepo     UserRepository
	holds        HoldService
	starter      RentalStarter
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
	requestRepo RequestRepository,
	userRepo UserRepository,
	holds HoldService,
	starter RentalStarter,
	settings SettingsProvider,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(
		consoleRepo, requestRepo, userRepo, holds, starter, settings,
		dispatcher, locker, txManager, &RealTimeProvider{}, logger,
	)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	consoleRepo ConsoleRepository,
	requestRepo RequestRepository,
	userRepo UserRepository,
	holds HoldService,
	starter RentalStarter,
	settings SettingsProvider,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		consoleRepo:  consoleRepo,
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		holds:        holds,
		starter:      starter,
		settings:     settings,
		dispatcher:   dispatcher,
		locker:       locker,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute подает заявку на аренду
// При выключенном одобрении заявка сразу одобряется и аренда начинается
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitRequest: user=%d, console=%s, hours=%s", req.UserID, req.ConsoleID, formatHours(req.SelectedHours))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Настройки: лимит часов и режим одобрения
	settings, err := uc.settings.Current(ctx)
	if err != nil {
		uc.logger.Error("SubmitRequest: failed to load settings: %v", err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}
	if err := validateHours(req.SelectedHours, settings); err != nil {
		uc.logger.Warn("SubmitRequest: validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем клиента
	user, err := uc.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("SubmitRequest: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("SubmitRequest: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if !user.CanRent() {
		uc.logger.Warn("SubmitRequest: user id=%d is banned", req.UserID)
		return nil, ErrUserBanned
	}

	// 4. Блокируем консоль
	lockCtx, cancel := context.WithTimeout(ctx, domain.ConsoleLockTimeout)
	unlock, err := uc.locker.Lock(lockCtx, req.ConsoleID)
	cancel()
	if err != nil {
		uc.logger.Warn("SubmitRequest: failed to lock console id=%s: %v", req.ConsoleID, err)
		return nil, fmt.Errorf("%w: console is busy: %v", ErrConsoleUnavailable, err)
	}
	defer unlock()

	// 5. Сохраняем заявку, а при выключенном одобрении сразу начинаем аренду
	var (
		request *domain.RentalRequest
		rental  *domain.Rental
	)
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var err error
		request, rental, err = uc.submit(txCtx, req, settings)
		return err
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("SubmitRequest: %v", err)
		} else {
			uc.logger.Warn("SubmitRequest: %v", err)
		}
		return nil, err
	}

	// 6. Уведомляем после фиксации
	now := uc.timeProvider.Now()
	if rental != nil {
		uc.dispatcher.Dispatch(ctx, book_console.StartedEvent(rental, now))
		uc.logger.Info("SubmitRequest: request id=%s auto-approved, rental id=%s", request.ID, rental.ID)
	} else {
		uc.dispatcher.Dispatch(ctx, &domain.RentalEvent{
			Type:       domain.EventRequestSubmitted,
			UserID:     request.UserID,
			ConsoleID:  request.ConsoleID,
			RequestID:  ptr.Ptr(request.ID),
			Hours:      request.SelectedHours,
			Cost:       ptr.Ptr(request.ExpectedCost),
			OccurredAt: now,
		})
		uc.logger.Info("SubmitRequest: request id=%s is pending approval", request.ID)
	}

	return &Response{
		Request: models.FromDomainRequest(request),
		Rental:  models.FromDomainRental(rental),
	}, nil
}

// submit выполняется под блокировкой консоли внутри транзакции
func (uc *UseCase) submit(ctx context.Context, req *Request, settings *domain.AdminSettings) (*domain.RentalRequest, *domain.Rental, error) {
	now := uc.timeProvider.Now()

	// 1. Консоль должна существовать и быть свободной
	console, err := uc.consoleRepo.GetByID(ctx, req.ConsoleID)
	if err != nil {
		if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
			return nil, nil, ErrConsoleNotFound
		}
		return nil, nil, fmt.Errorf("%w: failed to get console: %v", ErrInternal, err)
	}
	if !console.IsAvailable() {
		return nil, nil, ErrConsoleUnavailable
	}

	// 2. Консоль не удерживается другим клиентом
	held, _, err := uc.holds.IsTempReserved(ctx, req.ConsoleID, ptr.Ptr(req.UserID))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to check hold: %v", ErrInternal, err)
	}
	if held {
		return nil, nil, ErrConsoleHeld
	}

	// 3. Сохраняем заявку; стоимость без скидки, для аренды без срока нулевая
	request := &domain.RentalRequest{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		ConsoleID:     req.ConsoleID,
		SelectedHours: req.SelectedHours,
		ExpectedCost:  expectedCost(console, req.SelectedHours),
		RequestTime:   now,
		Status:        domain.RequestPending,
	}
	if !settings.RequireApproval {
		request.Status = domain.RequestApproved
	}

	created, err := uc.requestRepo.Create(ctx, request)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	// 4a. Ожидание решения: консоль удерживается за клиентом
	if settings.RequireApproval {
		if _, err := uc.holds.TempReserve(ctx, req.UserID, req.ConsoleID, settings.TempHoldTTL()); err != nil {
			return nil, nil, fmt.Errorf("%w: failed to hold console: %v", ErrInternal, err)
		}
		return created, nil, nil
	}

	// 4b. Одобрение выключено: аренда начинается сразу
	rental, err := uc.starter.StartLocked(ctx, &book_console.StartParams{
		UserID:    req.UserID,
		ConsoleID: req.ConsoleID,
		Hours:     req.SelectedHours,
		RequestID: ptr.Ptr(created.ID),
	})
	if err != nil {
		return nil, nil, mapStartError(err)
	}

	created.RentalID = ptr.Ptr(rental.ID)
	created.DecidedAt = ptr.Ptr(now)
	if err := uc.requestRepo.UpdateDecision(ctx, created); err != nil {
		return nil, nil, fmt.Errorf("%w: failed to save decision: %v", ErrInternal, err)
	}

	return created, rental, nil
}

// mapStartError переводит ошибки запуска аренды в ошибки use case
func mapStartError(err error) error {
	switch {
	case errors.Is(err, book_console.ErrConsoleNotFound):
		return ErrConsoleNotFound
	case errors.Is(err, book_console.ErrConsoleUnavailable):
		return ErrConsoleUnavailable
	case errors.Is(err, book_console.ErrConsoleHeld):
		return ErrConsoleHeld
	default:
		return fmt.Errorf("%w: failed to start rental: %v", ErrInternal, err)
	}
}
