package settings

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.AdminSettings, error)
	Save(ctx context.Context, s *domain.AdminSettings) (*domain.AdminSettings, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
