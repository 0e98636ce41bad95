package domain

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/pkg/types"
)

// DayStatus статус дня в календаре консоли
type DayStatus string

const (
	DayPastDate      DayStatus = "past_date"
	DaySystemBlocked DayStatus = "system_blocked"
	DayConsoleBlock  DayStatus = "console_blocked"
	DayOccupied      DayStatus = "occupied"
	DayReserved      DayStatus = "reserved"
	DayHoliday       DayStatus = "holiday"
	DayNonWorking    DayStatus = "non_working_day"
	DayAvailable     DayStatus = "available"
)

// DayStatusLabels подписи статусов для легенды календаря
var DayStatusLabels = map[DayStatus]string{
	DayAvailable:     "Доступно",
	DayOccupied:      "Занято арендой",
	DayReserved:      "Есть бронирования",
	DaySystemBlocked: "Заблокировано системой",
	DayConsoleBlock:  "Заблокировано для консоли",
	DayHoliday:       "Праздник",
	DayNonWorking:    "Выходной день",
	DayPastDate:      "Прошедшая дата",
}

// IsBookable returns true if a new reservation may be placed on a day with this status
func (s DayStatus) IsBookable() bool {
	return s == DayAvailable || s == DayReserved
}

// Holiday праздничный день; Working = true означает, что в праздник работаем
type Holiday struct {
	Date    time.Time
	Name    string
	Working bool
}

// BlockedDate заблокированная дата. ConsoleID = nil: блокировка для всех консолей
type BlockedDate struct {
	ConsoleID *string
	Date      time.Time
	Reason    *string
	CreatedAt time.Time
}

// IsSystemWide returns true if the block applies to every console
func (b *BlockedDate) IsSystemWide() bool {
	return b.ConsoleID == nil
}

// SlotReservationStatus статус бронирования слота
type SlotReservationStatus string

const (
	SlotReserved  SlotReservationStatus = "reserved"
	SlotCancelled SlotReservationStatus = "cancelled"
)

// SlotReservation бронирование временного слота консоли на дату
type SlotReservation struct {
	ID            string
	ConsoleID     string
	UserID        int64
	Date          time.Time
	TimeSlot      types.TimeString
	DurationHours int
	Status        SlotReservationStatus
	Notes         *string
	CreatedAt     time.Time
}

// IsHeld returns true if the reservation still occupies its slot
func (r *SlotReservation) IsHeld() bool {
	return r.Status == SlotReserved
}

// CalendarSettings рабочие дни и каталог слотов
type CalendarSettings struct {
	WorkingDays []int
	TimeSlots   []types.TimeString
	UpdatedAt   time.Time
}

// IsWorkingDay проверяет, входит ли день недели даты в рабочие
func (s *CalendarSettings) IsWorkingDay(date time.Time) bool {
	wd := ISOWeekday(date)
	for _, d := range s.WorkingDays {
		if d == wd {
			return true
		}
	}
	return false
}

// HasSlot проверяет, есть ли слот в каталоге
func (s *CalendarSettings) HasSlot(slot types.TimeString) bool {
	for _, ts := range s.TimeSlots {
		if ts == slot {
			return true
		}
	}
	return false
}

// DefaultCalendarSettings настройки календаря по умолчанию
func DefaultCalendarSettings() *CalendarSettings {
	slots := make([]types.TimeString, 0, len(DefaultTimeSlots))
	for _, s := range DefaultTimeSlots {
		slots = append(slots, types.TimeString(s))
	}
	days := make([]int, len(DefaultWorkingDays))
	copy(days, DefaultWorkingDays)
	return &CalendarSettings{WorkingDays: days, TimeSlots: slots}
}

// DayInfo вычисленная информация о дне календаря
type DayInfo struct {
	Date              time.Time
	Status            DayStatus
	HolidayName       *string
	ReservationsCount int
	HasDiscount       bool
}

// TempReservationStatus статус временного удержания
type TempReservationStatus string

const TempReservationActive TempReservationStatus = "active"

// TempReservation мягкая блокировка консоли на время оформления
// Не мешает администратору, скрывает консоль от других клиентов
type TempReservation struct {
	ID        string
	UserID    int64
	ConsoleID string
	CreatedAt time.Time
	ExpiresAt time.Time
	Status    TempReservationStatus
}

// IsExpired returns true if the hold must be treated as absent
func (t *TempReservation) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
