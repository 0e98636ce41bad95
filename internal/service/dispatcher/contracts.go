package dispatcher

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// Notifier отправка сообщений в мессенджер
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// EventPublisher публикация событий аренды в поток
type EventPublisher interface {
	Publish(ctx context.Context, event *domain.RentalEvent) error
}

// SettingsProvider источник бизнес-настроек
type SettingsProvider interface {
	Current(ctx context.Context) (*domain.AdminSettings, error)
}

// EventCounter счетчик событий аренды
type EventCounter interface {
	IncRentalEvent(eventType string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
