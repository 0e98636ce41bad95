package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ConsoleRental/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/settings/models"
)

// Service сервис бизнес-настроек проката
type Service struct {
	repo     SettingsRepository
	defaults domain.AdminSettings
	logger   Logger
}

// NewService создает новый экземпляр сервиса настроек
// defaults используются, пока администратор не сохранил настройки
func NewService(repo SettingsRepository, defaults *domain.AdminSettings, logger Logger) *Service {
	if defaults == nil {
		defaults = domain.DefaultAdminSettings()
	}
	return &Service{
		repo:     repo,
		defaults: *defaults,
		logger:   logger,
	}
}

// Current возвращает действующие настройки
func (s *Service) Current(ctx context.Context) (*domain.AdminSettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			defaults := s.defaults
			return &defaults, nil
		}
		s.logger.Error("Current: repository error: %v", err)
		return nil, fmt.Errorf("%w: Current - repository error: %v", ErrInternal, err)
	}
	return settings, nil
}

// Get возвращает настройки проката
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	settings, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainSettings(settings), nil
}

// Update частично обновляет настройки проката
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating rental settings")

	// 1. Получаем текущие настройки
	settings, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Применяем переданные значения
	if req.AdminChatID != nil {
		settings.AdminChatID = *req.AdminChatID
	}
	if req.RequireApproval != nil {
		settings.RequireApproval = *req.RequireApproval
	}
	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.MaxRentalHours != nil {
		settings.MaxRentalHours = *req.MaxRentalHours
	}
	if req.ReminderHours != nil {
		settings.ReminderHours = *req.ReminderHours
	}
	if req.TempHoldMinutes != nil {
		settings.TempHoldMinutes = *req.TempHoldMinutes
	}

	// 3. Валидируем результат
	if err := validate(settings); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 4. Сохраняем
	saved, err := s.repo.Save(ctx, settings)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: settings saved, requireApproval=%t maxRentalHours=%d", saved.RequireApproval, saved.MaxRentalHours)
	return models.FromDomainSettings(saved), nil
}

func validate(s *domain.AdminSettings) error {
	if s.MaxRentalHours < domain.MinRentalHours || s.MaxRentalHours > domain.MaxRentalHoursLimit {
		return fmt.Errorf("%w: maxRentalHours must be within %d..%d", ErrInvalidInput, domain.MinRentalHours, domain.MaxRentalHoursLimit)
	}
	if s.ReminderHours < 1 || s.ReminderHours > domain.MaxRentalHoursLimit {
		return fmt.Errorf("%w: reminderHours must be within 1..%d", ErrInvalidInput, domain.MaxRentalHoursLimit)
	}
	if s.TempHoldMinutes < 1 || s.TempHoldMinutes > domain.MaxTempHoldMinutes {
		return fmt.Errorf("%w: tempHoldMinutes must be within 1..%d", ErrInvalidInput, domain.MaxTempHoldMinutes)
	}
	return nil
}
