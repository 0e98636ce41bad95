package dispatcher

import (
	"context"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// Dispatcher рассылает результаты переходов аренды: сообщения клиенту и
// администратору, событие в поток, счетчик. Ошибки доставки только логируются
type Dispatcher struct {
	notifier  Notifier
	publisher EventPublisher
	settings  SettingsProvider
	counter   EventCounter
	logger    Logger
}

// New создает диспетчер событий
func New(
	notifier Notifier,
	publisher EventPublisher,
	settings SettingsProvider,
	counter EventCounter,
	logger Logger,
) *Dispatcher {
	return &Dispatcher{
		notifier:  notifier,
		publisher: publisher,
		settings:  settings,
		counter:   counter,
		logger:    logger,
	}
}

// Dispatch доставляет событие. Вызывается после фиксации транзакции
func (d *Dispatcher) Dispatch(ctx context.Context, event *domain.RentalEvent) {
	d.counter.IncRentalEvent(string(event.Type))

	if err := d.publisher.Publish(ctx, event); err != nil {
		d.logger.Error("Dispatch: failed to publish event type=%s user=%d: %v", event.Type, event.UserID, err)
	}

	settings, err := d.settings.Current(ctx)
	if err != nil {
		d.logger.Error("Dispatch: failed to load settings: %v", err)
		return
	}
	if !settings.NotificationsEnabled {
		return
	}

	if text := userMessage(event); text != "" {
		d.send(ctx, event, event.UserID, text)
	}
	if text := adminMessage(event); text != "" && settings.AdminChatID != 0 {
		d.send(ctx, event, settings.AdminChatID, text)
	}
}

func (d *Dispatcher) send(ctx context.Context, event *domain.RentalEvent, chatID int64, text string) {
	if err := d.notifier.SendMessage(ctx, chatID, text); err != nil {
		d.logger.Warn("Dispatch: failed to notify chat=%d about %s: %v", chatID, event.Type, err)
	}
}
