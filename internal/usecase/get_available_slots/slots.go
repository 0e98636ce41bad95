package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/types"
)

// buildSlots превращает свободные слоты дня в ответ
// Для сегодняшней даты слоты, начало которых уже прошло, отбрасываются
func buildSlots(free []string, requestDate time.Time, now time.Time) ([]Slot, error) {
	slotMinutes := domain.DefaultSlotDurationHours * 60
	today := domain.SameDay(requestDate, now)
	currentTime := types.NewTimeString(now)

	result := make([]Slot, 0, len(free))
	for _, s := range free {
		start, err := types.NewTimeStringFromString(s)
		if err != nil {
			return nil, err
		}

		if today && start.IsBefore(currentTime) {
			continue
		}

		result = append(result, Slot{
			StartTime:       start,
			DurationMinutes: slotMinutes,
		})
	}

	return result, nil
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	return domain.DateOnly(date).Before(domain.DateOnly(now))
}
