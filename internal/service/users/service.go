package users

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	userRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/user"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/users/models"
)

// Service сервис клиентов
type Service struct {
	userRepo    UserRepository
	rentalRepo  RentalRepository
	consoleRepo ConsoleRepository
	holdRepo    HoldRepository
	txManager   TransactionManager
	locker      KeyLocker
	logger      Logger
}

// NewService создает новый экземпляр сервиса клиентов
func NewService(
	userRepo UserRepository,
	rentalRepo RentalRepository,
	consoleRepo ConsoleRepository,
	holdRepo HoldRepository,
	txManager TransactionManager,
	locker KeyLocker,
	logger Logger,
) *Service {
	return &Service{
		userRepo:    userRepo,
		rentalRepo:  rentalRepo,
		consoleRepo: consoleRepo,
		holdRepo:    holdRepo,
		txManager:   txManager,
		locker:      locker,
		logger:      logger,
	}
}

// Register регистрирует клиента. Шаг регистрации определяется заполненными полями
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	s.logger.Info("Register: registering user id=%d", req.ID)

	if req.ID <= 0 {
		s.logger.Warn("Register: invalid user id=%d", req.ID)
		return nil, fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
	}

	user := &domain.User{
		ID:                     req.ID,
		Phone:                  trimmed(req.Phone),
		FullName:               trimmed(req.FullName),
		PromotionParticipation: req.PromotionParticipation,
	}
	switch {
	case user.Phone == nil:
		user.RegistrationStep = domain.RegistrationPhone
	case user.FullName == nil:
		user.RegistrationStep = domain.RegistrationFullName
	default:
		user.RegistrationStep = domain.RegistrationCompleted
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserExists) {
			s.logger.Warn("Register: user id=%d already registered", req.ID)
			return nil, ErrUserExists
		}
		s.logger.Error("Register: repository error for user id=%d: %v", req.ID, err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: user id=%d registered, step=%s", created.ID, created.RegistrationStep)
	return models.FromDomainUser(created), nil
}

// Get получает клиента по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Get: user id=%d not found", id)
			return nil, ErrUserNotFound
		}
		s.logger.Error("Get: repository error for user id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainUser(user), nil
}

// List возвращает всех клиентов
func (s *Service) List(ctx context.Context) (*models.UserListResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d users", len(users))
	return models.FromDomainUserList(users), nil
}

// SetBanned блокирует или разблокирует клиента
func (s *Service) SetBanned(ctx context.Context, id int64, banned bool) error {
	s.logger.Info("SetBanned: user id=%d banned=%t", id, banned)

	if err := s.userRepo.SetBanned(ctx, id, banned); err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("SetBanned: user id=%d not found", id)
			return ErrUserNotFound
		}
		s.logger.Error("SetBanned: repository error for user id=%d: %v", id, err)
		return fmt.Errorf("%w: SetBanned - repository error: %v", ErrInternal, err)
	}

	return nil
}

// Delete удаляет клиента вместе с заявками и арендами.
// Консоли его активных аренд освобождаются, временное удержание снимается
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting user id=%d", id)

	// 1. Находим активные аренды, чтобы заблокировать их консоли
	rentals, err := s.rentalRepo.ListByUser(ctx, id)
	if err != nil {
		s.logger.Error("Delete: failed to list rentals of user id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - list rentals: %v", ErrInternal, err)
	}

	consoleIDs := make([]string, 0)
	for _, r := range rentals {
		if r.IsActive() {
			consoleIDs = append(consoleIDs, r.ConsoleID)
		}
	}
	sort.Strings(consoleIDs)

	for _, consoleID := range consoleIDs {
		unlock, err := s.locker.Lock(ctx, consoleID)
		if err != nil {
			s.logger.Warn("Delete: failed to lock console id=%s: %v", consoleID, err)
			return fmt.Errorf("%w: Delete - lock console: %v", ErrInternal, err)
		}
		defer unlock()
	}

	// 2. Освобождаем консоли и удаляем клиента в одной транзакции
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		for _, consoleID := range consoleIDs {
			if err := s.consoleRepo.UpdateStatus(ctx, consoleID, domain.ConsoleAvailable); err != nil {
				return fmt.Errorf("%w: Delete - release console %s: %v", ErrInternal, consoleID, err)
			}
		}

		if _, err := s.holdRepo.DeleteByUser(ctx, id); err != nil {
			return fmt.Errorf("%w: Delete - release hold: %v", ErrInternal, err)
		}

		if err := s.userRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Warn("Delete: user id=%d not found", id)
		} else {
			s.logger.Error("Delete: user id=%d: %v", id, err)
		}
		return err
	}

	s.logger.Info("Delete: user id=%d deleted, released %d consoles", id, len(consoleIDs))
	return nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
