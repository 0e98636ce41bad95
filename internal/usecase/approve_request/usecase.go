package approve_request

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	requestRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/request"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"
	"github.com/m04kA/SMC-ConsoleRental/internal/usecase/reject_request"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
)

// UseCase use case одобрения заявки администратором
type UseCase struct {
	requestRepo  RequestRepository
	starter      RentalStarter
	rejecter     RequestRejecter
	dispatcher   EventDispatcher
	locker       KeyLocker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	requestRepo RequestRepository,
	starter RentalStarter,
	rejecter RequestRejecter,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(requestRepo, starter, rejecter, dispatcher, locker, txManager, &RealTimeProvider{}, logger)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	requestRepo RequestRepository,
	starter RentalStarter,
	rejecter RequestRejecter,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:  requestRepo,
		starter:      starter,
		rejecter:     rejecter,
		dispatcher:   dispatcher,
		locker:       locker,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute одобряет заявку и начинает аренду
// Если консоль недоступна, заявка не меняется; с AutoReject она отклоняется
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ApproveRequest: request=%s, admin=%d, autoReject=%t", req.RequestID, req.AdminID, req.AutoReject)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ApproveRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Находим заявку, чтобы узнать консоль
	request, err := uc.getRequest(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	// 3. Блокируем консоль
	lockCtx, cancel := context.WithTimeout(ctx, domain.ConsoleLockTimeout)
	unlock, err := uc.locker.Lock(lockCtx, request.ConsoleID)
	cancel()
	if err != nil {
		uc.logger.Warn("ApproveRequest: failed to lock console id=%s: %v", request.ConsoleID, err)
		return nil, fmt.Errorf("%w: console is busy: %v", ErrConsoleUnavailable, err)
	}
	defer unlock()

	// 4. Перечитываем заявку под блокировкой и запускаем аренду
	var (
		rental       *domain.Rental
		autoRejected bool
	)
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.getRequest(txCtx, req.RequestID)
		if err != nil {
			return err
		}
		if !current.CanBeDecided() {
			uc.logger.Warn("ApproveRequest: request id=%s has status %s", current.ID, current.Status)
			return ErrInvalidTransition
		}
		request = current

		started, err := uc.starter.StartLocked(txCtx, &book_console.StartParams{
			UserID:     request.UserID,
			ConsoleID:  request.ConsoleID,
			Hours:      request.SelectedHours,
			RequestID:  ptr.Ptr(request.ID),
			IgnoreHold: true,
		})
		if err != nil {
			mapped := mapStartError(err)
			if errors.Is(mapped, ErrConsoleUnavailable) && req.AutoReject {
				uc.logger.Warn("ApproveRequest: console id=%s is unavailable, rejecting request id=%s", request.ConsoleID, request.ID)
				if err := uc.rejecter.RejectLocked(txCtx, request, autoRejectReason); err != nil {
					return fmt.Errorf("%w: failed to reject request: %v", ErrInternal, err)
				}
				autoRejected = true
				return nil
			}
			return mapped
		}
		rental = started

		request.Status = domain.RequestApproved
		request.RentalID = ptr.Ptr(rental.ID)
		request.DecidedAt = ptr.Ptr(uc.timeProvider.Now())
		if err := uc.requestRepo.UpdateDecision(txCtx, request); err != nil {
			return fmt.Errorf("%w: failed to save decision: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConsoleUnavailable, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("ApproveRequest: request id=%s: %v", req.RequestID, err)
		} else {
			uc.logger.Warn("ApproveRequest: request id=%s: %v", req.RequestID, err)
		}
		return nil, err
	}

	// 5. Уведомляем после фиксации
	now := uc.timeProvider.Now()
	if autoRejected {
		uc.dispatcher.Dispatch(ctx, reject_request.RejectedEvent(request, now))
		uc.logger.Info("ApproveRequest: request id=%s auto-rejected", request.ID)
		return &Response{Request: models.FromDomainRequest(request), AutoRejected: true}, nil
	}

	uc.dispatcher.Dispatch(ctx, &domain.RentalEvent{
		Type:       domain.EventRequestApproved,
		UserID:     rental.UserID,
		ConsoleID:  rental.ConsoleID,
		RentalID:   ptr.Ptr(rental.ID),
		RequestID:  ptr.Ptr(request.ID),
		Hours:      rental.SelectedHours,
		Cost:       ptr.Ptr(rental.ExpectedCost),
		DueAt:      rental.ExpectedEndTime,
		OccurredAt: now,
	})

	uc.logger.Info("ApproveRequest: request id=%s approved, rental id=%s", request.ID, rental.ID)
	return &Response{
		Request: models.FromDomainRequest(request),
		Rental:  models.FromDomainRental(rental),
	}, nil
}

func (uc *UseCase) getRequest(ctx context.Context, id string) (*domain.RentalRequest, error) {
	request, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			uc.logger.Warn("ApproveRequest: request id=%s not found", id)
			return nil, ErrRequestNotFound
		}
		uc.logger.Error("ApproveRequest: failed to get request id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
	}
	return request, nil
}

// mapStartError переводит ошибки запуска аренды в ошибки use case
func mapStartError(err error) error {
	switch {
	case errors.Is(err, book_console.ErrConsoleNotFound):
		return ErrConsoleNotFound
	case errors.Is(err, book_console.ErrConsoleUnavailable):
		return ErrConsoleUnavailable
	default:
		return fmt.Errorf("%w: failed to start rental: %v", ErrInternal, err)
	}
}
