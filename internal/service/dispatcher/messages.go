package dispatcher

import (
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/ptr"
)

const timeLayout = "02.01.2006 15:04"

// userMessage текст для клиента; пустая строка: клиенту не пишем
func userMessage(e *domain.RentalEvent) string {
	switch e.Type {
	case domain.EventRequestSubmitted:
		return "Заявка на аренду отправлена. Ожидайте решения администратора."
	case domain.EventRequestApproved:
		return "Заявка одобрена! Отправьте геопозицию, чтобы подтвердить аренду."
	case domain.EventRequestRejected:
		if e.Reason != nil && *e.Reason != "" {
			return fmt.Sprintf("Заявка отклонена. Причина: %s", *e.Reason)
		}
		return "Заявка отклонена."
	case domain.EventRequestCompleted:
		return "Геопозиция получена. Теперь отправьте фото паспорта."
	case domain.EventRentalStarted:
		if e.DueAt != nil {
			return fmt.Sprintf("Аренда начата. Верните консоль до %s.", e.DueAt.Format(timeLayout))
		}
		return "Аренда начата."
	case domain.EventRentalEnded:
		return fmt.Sprintf("Аренда завершена. Часов: %d, к оплате: %.0f ₽.", ptr.Value(e.Hours), ptr.Value(e.Cost))
	case domain.EventRentalReturned:
		return "Консоль принята. Спасибо, что пользуетесь прокатом!"
	case domain.EventReturnReminder:
		if e.DueAt != nil {
			return fmt.Sprintf("Напоминание: аренда заканчивается %s.", e.DueAt.Format(timeLayout))
		}
		return "Напоминание: срок аренды подходит к концу."
	}
	return ""
}

// adminMessage текст для администратора; пустая строка: не пишем
func adminMessage(e *domain.RentalEvent) string {
	switch e.Type {
	case domain.EventRequestSubmitted:
		return fmt.Sprintf("Новая заявка %s: клиент %d, консоль %s, часов: %s, стоимость: %.0f ₽",
			ptr.Value(e.RequestID), e.UserID, e.ConsoleID, domain.HoursLabel(e.Hours), ptr.Value(e.Cost))
	case domain.EventRequestCompleted:
		return fmt.Sprintf("Клиент %d подтвердил геопозицию по аренде %s", e.UserID, ptr.Value(e.RentalID))
	case domain.EventRentalStarted:
		return fmt.Sprintf("Аренда %s начата: клиент %d, консоль %s", ptr.Value(e.RentalID), e.UserID, e.ConsoleID)
	case domain.EventRentalEnded:
		return fmt.Sprintf("Аренда %s завершена: клиент %d, часов: %d, сумма: %.0f ₽",
			ptr.Value(e.RentalID), e.UserID, ptr.Value(e.Hours), ptr.Value(e.Cost))
	}
	return ""
}
