package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
	"github.com/m04kA/SMC-ConsoleRental/pkg/types"
)

// evaluator состояние календаря на интервал дат, загруженное одним проходом
type evaluator struct {
	today        time.Time
	settings     *domain.CalendarSettings
	holidays     map[string]*domain.Holiday
	systemBlocks map[string]bool
	consoleBlock map[string]bool
	rentals      []*domain.Rental
	reservations map[string][]*domain.SlotReservation
	discountDays map[string]bool
}

func dayKey(t time.Time) string {
	return t.Format(domain.DateFormat)
}

// loadEvaluator загружает настройки, праздники, блокировки, аренды, бронирования и скидки
// consoleID = nil: только общесистемные данные
func (s *Service) loadEvaluator(ctx context.Context, method string, consoleID *string, from, to time.Time) (*evaluator, error) {
	ev := &evaluator{
		today:        domain.DateOnly(s.timeProvider.Now().UTC()),
		holidays:     make(map[string]*domain.Holiday),
		systemBlocks: make(map[string]bool),
		consoleBlock: make(map[string]bool),
		reservations: make(map[string][]*domain.SlotReservation),
		discountDays: make(map[string]bool),
	}

	settings, err := s.calendarRepo.GetSettings(ctx)
	if err != nil {
		s.logger.Error("%s: failed to get calendar settings: %v", method, err)
		return nil, fmt.Errorf("%w: %s - get settings: %v", ErrInternal, method, err)
	}
	ev.settings = settings

	holidays, err := s.calendarRepo.ListHolidays(ctx)
	if err != nil {
		s.logger.Error("%s: failed to list holidays: %v", method, err)
		return nil, fmt.Errorf("%w: %s - list holidays: %v", ErrInternal, method, err)
	}
	for _, h := range holidays {
		ev.holidays[dayKey(h.Date)] = h
	}

	blocks, err := s.calendarRepo.ListBlocksBetween(ctx, consoleID, from, to)
	if err != nil {
		s.logger.Error("%s: failed to list blocked dates: %v", method, err)
		return nil, fmt.Errorf("%w: %s - list blocks: %v", ErrInternal, method, err)
	}
	for _, b := range blocks {
		if b.IsSystemWide() {
			ev.systemBlocks[dayKey(b.Date)] = true
		} else {
			ev.consoleBlock[dayKey(b.Date)] = true
		}
	}

	if consoleID == nil {
		return ev, nil
	}

	ev.rentals, err = s.rentalRepo.ListActiveByConsole(ctx, *consoleID)
	if err != nil {
		s.logger.Error("%s: failed to list active rentals for console=%s: %v", method, *consoleID, err)
		return nil, fmt.Errorf("%w: %s - list rentals: %v", ErrInternal, method, err)
	}

	reservations, err := s.calendarRepo.ListHeldReservations(ctx, *consoleID, from, to)
	if err != nil {
		s.logger.Error("%s: failed to list reservations for console=%s: %v", method, *consoleID, err)
		return nil, fmt.Errorf("%w: %s - list reservations: %v", ErrInternal, method, err)
	}
	for _, r := range reservations {
		if r.IsHeld() {
			key := dayKey(r.Date)
			ev.reservations[key] = append(ev.reservations[key], r)
		}
	}

	if s.discounts != nil {
		ev.discountDays, err = s.discounts.DiscountDays(ctx, *consoleID, from, to)
		if err != nil {
			s.logger.Error("%s: failed to mark discount days for console=%s: %v", method, *consoleID, err)
			return nil, fmt.Errorf("%w: %s - discount days: %v", ErrInternal, method, err)
		}
	}

	return ev, nil
}

// evaluate вычисляет статус дня; выигрывает первое совпадение
// past > system_blocked > console_blocked > occupied > reserved > holiday > non_working_day > available
func (ev *evaluator) evaluate(day time.Time) *domain.DayInfo {
	key := dayKey(day)
	info := &domain.DayInfo{
		Date:              day,
		ReservationsCount: len(ev.reservations[key]),
		HasDiscount:       ev.discountDays[key],
	}

	holiday := ev.holidays[key]
	if holiday != nil {
		name := holiday.Name
		info.HolidayName = &name
	}

	switch {
	case day.Before(ev.today):
		info.Status = domain.DayPastDate
	case ev.systemBlocks[key]:
		info.Status = domain.DaySystemBlocked
	case ev.consoleBlock[key]:
		info.Status = domain.DayConsoleBlock
	case ev.occupied(day):
		info.Status = domain.DayOccupied
	case info.ReservationsCount > 0:
		info.Status = domain.DayReserved
	case holiday != nil && !holiday.Working:
		info.Status = domain.DayHoliday
	case holiday == nil && !ev.settings.IsWorkingDay(day):
		info.Status = domain.DayNonWorking
	default:
		info.Status = domain.DayAvailable
	}

	return info
}

func (ev *evaluator) occupied(day time.Time) bool {
	for _, r := range ev.rentals {
		if r.IsActive() && r.OccupiesDate(day) {
			return true
		}
	}
	return false
}

// coveredSlots часовые слоты, которые занимает бронирование длительностью hours
func coveredSlots(start types.TimeString, hours int) []types.TimeString {
	if hours < 1 {
		hours = 1
	}
	slots := make([]types.TimeString, 0, hours)
	for i := 0; i < hours; i++ {
		slot, err := start.AddMinutes(i * 60)
		if err != nil {
			break
		}
		slots = append(slots, slot)
	}
	return slots
}

func takenSlots(reservations []*domain.SlotReservation) map[types.TimeString]bool {
	taken := make(map[types.TimeString]bool)
	for _, r := range reservations {
		for _, slot := range coveredSlots(r.TimeSlot, r.DurationHours) {
			taken[slot] = true
		}
	}
	return taken
}
