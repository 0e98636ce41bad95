package reject_request

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	requestRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/request"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
	"github.com/m04kA/SMC-ConsoleRental/pkg/txmanager"
)

// UseCase use case отклонения заявки администратором
type UseCase struct {
	requestRepo  RequestRepository
	userRepo     UserRepository
	holds        HoldService
	dispatcher   EventDispatcher
	locker       KeyLocker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	requestRepo RequestRepository,
	userRepo UserRepository,
	holds HoldService,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(requestRepo, userRepo, holds, dispatcher, locker, txManager, &RealTimeProvider{}, logger)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	requestRepo RequestRepository,
	userRepo UserRepository,
	holds HoldService,
	dispatcher EventDispatcher,
	locker KeyLocker,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		holds:        holds,
		dispatcher:   dispatcher,
		locker:       locker,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute отклоняет ожидающую заявку
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.RequestResponse, error) {
	uc.logger.Info("RejectRequest: request=%s, admin=%d", req.RequestID, req.AdminID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RejectRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Находим заявку, чтобы узнать консоль
	request, err := uc.getRequest(ctx, req.RequestID)
	if err != nil {
		return nil, err
	}

	// 3. Решения по заявкам одной консоли не пересекаются
	lockCtx, cancel := context.WithTimeout(ctx, domain.ConsoleLockTimeout)
	unlock, err := uc.locker.Lock(lockCtx, request.ConsoleID)
	cancel()
	if err != nil {
		uc.logger.Warn("RejectRequest: failed to lock console id=%s: %v", request.ConsoleID, err)
		return nil, fmt.Errorf("%w: %v", ErrConsoleBusy, err)
	}
	defer unlock()

	// 4. Перечитываем заявку под блокировкой и отклоняем
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.getRequest(txCtx, req.RequestID)
		if err != nil {
			return err
		}
		if !current.CanBeDecided() {
			uc.logger.Warn("RejectRequest: request id=%s has status %s", current.ID, current.Status)
			return ErrInvalidTransition
		}
		request = current
		return uc.RejectLocked(txCtx, request, req.Reason)
	})
	if err != nil {
		if errors.Is(err, txmanager.ErrSerializationFailure) {
			err = fmt.Errorf("%w: %v", ErrConsoleBusy, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("RejectRequest: request id=%s: %v", req.RequestID, err)
		}
		return nil, err
	}

	// 5. Уведомляем клиента после фиксации
	uc.dispatcher.Dispatch(ctx, RejectedEvent(request, uc.timeProvider.Now()))

	uc.logger.Info("RejectRequest: request id=%s rejected", request.ID)
	return models.FromDomainRequest(request), nil
}

// RejectLocked отклоняет заявку внутри транзакции: снимает удержание консоли
// и сбрасывает проверку документов клиента
func (uc *UseCase) RejectLocked(ctx context.Context, request *domain.RentalRequest, reason string) error {
	request.Status = domain.RequestRejected
	request.DecidedAt = ptr.Ptr(uc.timeProvider.Now())
	request.RejectReason = nil
	if reason = strings.TrimSpace(reason); reason != "" {
		request.RejectReason = ptr.Ptr(reason)
	}

	if err := uc.requestRepo.UpdateDecision(ctx, request); err != nil {
		return fmt.Errorf("%w: failed to save decision: %v", ErrInternal, err)
	}

	if _, err := uc.holds.ReleaseTemp(ctx, request.UserID); err != nil {
		return fmt.Errorf("%w: failed to release hold: %v", ErrInternal, err)
	}

	if err := uc.userRepo.SetVerification(ctx, request.UserID, nil, nil); err != nil {
		return fmt.Errorf("%w: failed to reset verification: %v", ErrInternal, err)
	}

	return nil
}

// RejectedEvent событие отклонения заявки
func RejectedEvent(request *domain.RentalRequest, at time.Time) *domain.RentalEvent {
	return &domain.RentalEvent{
		Type:       domain.EventRequestRejected,
		UserID:     request.UserID,
		ConsoleID:  request.ConsoleID,
		RequestID:  ptr.Ptr(request.ID),
		Hours:      request.SelectedHours,
		Reason:     request.RejectReason,
		OccurredAt: at,
	}
}

func (uc *UseCase) getRequest(ctx context.Context, id string) (*domain.RentalRequest, error) {
	request, err := uc.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, requestRepo.ErrRequestNotFound) {
			uc.logger.Warn("RejectRequest: request id=%s not found", id)
			return nil, ErrRequestNotFound
		}
		uc.logger.Error("RejectRequest: failed to get request id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
	}
	return request, nil
}
