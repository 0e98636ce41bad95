package confirm_location

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	requestRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/request"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

// UseCase use case подтверждения геопозиции по одобренной аренде
type UseCase struct {
	rentalRepo   RentalRepository
	requestRepo  RequestRepository
	userRepo     UserRepository
	dispatcher   EventDispatcher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	rentalRepo RentalRepository,
	requestRepo RequestRepository,
	userRepo UserRepository,
	dispatcher EventDispatcher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return NewUseCaseWithTimeProvider(rentalRepo, requestRepo, userRepo, dispatcher, txManager, &RealTimeProvider{}, logger)
}

// NewUseCaseWithTimeProvider создает use case с заданным провайдером времени (для тестов)
func NewUseCaseWithTimeProvider(
	rentalRepo RentalRepository,
	requestRepo RequestRepository,
	userRepo UserRepository,
	dispatcher EventDispatcher,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *UseCase {
	return &UseCase{
		rentalRepo:   rentalRepo,
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		dispatcher:   dispatcher,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute сохраняет геопозицию клиента, закрывает заявку
// и переводит клиента к отправке паспорта
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.RentalResponse, error) {
	uc.logger.Info("ConfirmLocation: user=%d", req.UserID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmLocation: validation failed: %v", err)
		return nil, err
	}

	// 2. Клиент должен ожидать отправки геопозиции
	user, err := uc.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			uc.logger.Warn("ConfirmLocation: user id=%d not found", req.UserID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("ConfirmLocation: failed to get user id=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}
	if user.VerificationStep == nil || *user.VerificationStep != domain.VerificationLocationRequest || user.PendingRentalID == nil {
		uc.logger.Warn("ConfirmLocation: user id=%d has no rental awaiting location", req.UserID)
		return nil, ErrNoPendingVerification
	}
	rentalID := *user.PendingRentalID
	if req.RentalID != "" && req.RentalID != rentalID {
		uc.logger.Warn("ConfirmLocation: user id=%d awaits location for rental=%s, got %s", req.UserID, rentalID, req.RentalID)
		return nil, ErrNoPendingVerification
	}

	var (
		rental  *domain.Rental
		request *domain.RentalRequest
	)
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 3. Сохраняем геопозицию на аренде
		current, err := uc.rentalRepo.GetByID(txCtx, rentalID)
		if err != nil {
			if errors.Is(err, rentalRepo.ErrRentalNotFound) {
				return ErrRentalNotFound
			}
			return fmt.Errorf("%w: failed to get rental: %v", ErrInternal, err)
		}
		if !current.IsActive() {
			return ErrInvalidTransition
		}
		current.Location = &domain.Location{Latitude: req.Latitude, Longitude: req.Longitude}
		if err := uc.rentalRepo.Update(txCtx, current); err != nil {
			return fmt.Errorf("%w: failed to save location: %v", ErrInternal, err)
		}
		rental = current

		// 4. Одобренная заявка закрывается
		if rental.RequestID != nil {
			found, err := uc.requestRepo.GetByID(txCtx, *rental.RequestID)
			if err != nil && !errors.Is(err, requestRepo.ErrRequestNotFound) {
				return fmt.Errorf("%w: failed to get request: %v", ErrInternal, err)
			}
			if found != nil && found.CanBeCompleted() {
				found.Status = domain.RequestCompleted
				if err := uc.requestRepo.UpdateDecision(txCtx, found); err != nil {
					return fmt.Errorf("%w: failed to complete request: %v", ErrInternal, err)
				}
				request = found
			}
		}

		// 5. Следующий шаг проверки: фото паспорта
		step := domain.VerificationPassportFront
		if err := uc.userRepo.SetVerification(txCtx, req.UserID, &step, ptr.Ptr(rentalID)); err != nil {
			return fmt.Errorf("%w: failed to advance verification: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("ConfirmLocation: rental id=%s: %v", rentalID, err)
		} else {
			uc.logger.Warn("ConfirmLocation: rental id=%s: %v", rentalID, err)
		}
		return nil, err
	}

	// 6. Уведомляем после фиксации
	event := &domain.RentalEvent{
		Type:       domain.EventRequestCompleted,
		UserID:     rental.UserID,
		ConsoleID:  rental.ConsoleID,
		RentalID:   ptr.Ptr(rental.ID),
		OccurredAt: uc.timeProvider.Now(),
	}
	if request != nil {
		event.RequestID = ptr.Ptr(request.ID)
	}
	uc.dispatcher.Dispatch(ctx, event)

	uc.logger.Info("ConfirmLocation: location saved for rental id=%s", rental.ID)
	return models.FromDomainRental(rental), nil
}
