package consoles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	consoleRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/console"
	rentalRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/rental"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/consoles/models"
)

// Service сервис каталога консолей
type Service struct {
	consoleRepo ConsoleRepository
	rentalRepo  RentalRepository
	txManager   TransactionManager
	locker      KeyLocker
	logger      Logger
}

// NewService создает новый экземпляр сервиса консолей
func NewService(
	consoleRepo ConsoleRepository,
	rentalRepo RentalRepository,
	txManager TransactionManager,
	locker KeyLocker,
	logger Logger,
) *Service {
	return &Service{
		consoleRepo: consoleRepo,
		rentalRepo:  rentalRepo,
		txManager:   txManager,
		locker:      locker,
		logger:      logger,
	}
}

// List возвращает консоли, опционально с фильтром по статусу
func (s *Service) List(ctx context.Context, status *string) (*models.ConsoleListResponse, error) {
	s.logger.Info("List: fetching consoles, status=%v", status)

	var domainStatus *domain.ConsoleStatus
	if status != nil {
		st := domain.ConsoleStatus(*status)
		if !domain.IsValidConsoleStatus(st) {
			s.logger.Warn("List: invalid status=%s", *status)
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
		}
		domainStatus = &st
	}

	consoles, err := s.consoleRepo.List(ctx, domainStatus)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d consoles", len(consoles))
	return models.FromDomainConsoleList(consoles), nil
}

// Get получает консоль по ID
func (s *Service) Get(ctx context.Context, id string) (*models.ConsoleResponse, error) {
	console, err := s.consoleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
			s.logger.Warn("Get: console id=%s not found", id)
			return nil, ErrConsoleNotFound
		}
		s.logger.Error("Get: repository error for console id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConsole(console), nil
}

// Create добавляет консоль в каталог; новая консоль всегда свободна
func (s *Service) Create(ctx context.Context, req *models.CreateConsoleRequest) (*models.ConsoleResponse, error) {
	s.logger.Info("Create: adding console name=%s", req.Name)

	if err := validateCreate(req); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	console := &domain.Console{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		Model:          strings.TrimSpace(req.Model),
		Games:          req.Games,
		RentalPrice:    req.RentalPrice,
		SalePrice:      req.SalePrice,
		Status:         domain.ConsoleAvailable,
		PhotoPath:      req.PhotoPath,
		ShowPhotoInBot: req.ShowPhotoInBot,
	}
	if console.Games == nil {
		console.Games = []string{}
	}

	created, err := s.consoleRepo.Create(ctx, console)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: console id=%s created", created.ID)
	return models.FromDomainConsole(created), nil
}

// Delete удаляет консоль. Консоль с активной арендой удалить нельзя
func (s *Service) Delete(ctx context.Context, id string) error {
	s.logger.Info("Delete: deleting console id=%s", id)

	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		s.logger.Warn("Delete: failed to lock console id=%s: %v", id, err)
		return fmt.Errorf("%w: Delete - lock console: %v", ErrInternal, err)
	}
	defer unlock()

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Блокируем строку консоли
		if _, err := s.consoleRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
				return ErrConsoleNotFound
			}
			return fmt.Errorf("%w: Delete - get console: %v", ErrInternal, err)
		}

		// 2. Проверяем, что консоль не в аренде
		_, err := s.rentalRepo.GetActiveByConsole(ctx, id)
		if err == nil {
			return ErrConsoleRented
		}
		if !errors.Is(err, rentalRepo.ErrRentalNotFound) {
			return fmt.Errorf("%w: Delete - get active rental: %v", ErrInternal, err)
		}

		// 3. Удаляем
		if err := s.consoleRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, consoleRepo.ErrConsoleNotFound) {
				return ErrConsoleNotFound
			}
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("Delete: console id=%s: %v", id, err)
		} else {
			s.logger.Warn("Delete: console id=%s: %v", id, err)
		}
		return err
	}

	s.logger.Info("Delete: console id=%s deleted", id)
	return nil
}

// Reconcile приводит статусы консолей в соответствие с активными арендами.
// Каждая консоль исправляется под своей блокировкой и в своей транзакции
func (s *Service) Reconcile(ctx context.Context) (*models.ReconcileResult, error) {
	consoles, err := s.consoleRepo.List(ctx, nil)
	if err != nil {
		s.logger.Error("Reconcile: failed to list consoles: %v", err)
		return nil, fmt.Errorf("%w: Reconcile - list consoles: %v", ErrInternal, err)
	}

	activeIDs, err := s.rentalRepo.ActiveConsoleIDs(ctx)
	if err != nil {
		s.logger.Error("Reconcile: failed to list active rentals: %v", err)
		return nil, fmt.Errorf("%w: Reconcile - active consoles: %v", ErrInternal, err)
	}
	active := make(map[string]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}

	result := &models.ReconcileResult{Checked: len(consoles)}
	for _, c := range consoles {
		if expectedStatus(active[c.ID]) == c.Status {
			continue
		}

		status, err := s.reconcileOne(ctx, c.ID)
		if err != nil {
			s.logger.Error("Reconcile: console id=%s: %v", c.ID, err)
			continue
		}
		switch status {
		case domain.ConsoleRented:
			result.MarkedRented = append(result.MarkedRented, c.ID)
		case domain.ConsoleAvailable:
			result.MarkedAvailable = append(result.MarkedAvailable, c.ID)
		}
	}

	if result.Fixed() > 0 {
		s.logger.Warn("Reconcile: fixed %d of %d consoles", result.Fixed(), result.Checked)
	}
	return result, nil
}

// reconcileOne перепроверяет консоль под блокировкой; возвращает новый статус
// или пустую строку, если исправлять уже нечего
func (s *Service) reconcileOne(ctx context.Context, id string) (domain.ConsoleStatus, error) {
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return "", err
	}
	defer unlock()

	var fixed domain.ConsoleStatus
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		console, err := s.consoleRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		_, err = s.rentalRepo.GetActiveByConsole(ctx, id)
		hasActive := err == nil
		if err != nil && !errors.Is(err, rentalRepo.ErrRentalNotFound) {
			return err
		}

		want := expectedStatus(hasActive)
		if console.Status == want {
			return nil
		}
		if err := s.consoleRepo.UpdateStatus(ctx, id, want); err != nil {
			return err
		}
		fixed = want
		return nil
	})
	return fixed, err
}

func expectedStatus(hasActiveRental bool) domain.ConsoleStatus {
	if hasActiveRental {
		return domain.ConsoleRented
	}
	return domain.ConsoleAvailable
}

func validateCreate(req *models.CreateConsoleRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if req.RentalPrice < 0 {
		return fmt.Errorf("%w: rental price must not be negative", ErrInvalidInput)
	}
	if req.SalePrice != nil && *req.SalePrice < 0 {
		return fmt.Errorf("%w: sale price must not be negative", ErrInvalidInput)
	}
	return nil
}
