package domain

import "time"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default business settings
const (
	DefaultRequireApproval   = true
	DefaultMaxRentalHours    = 24
	DefaultReminderHours     = 23
	DefaultTempHoldMinutes   = 30
	DefaultSlotDurationHours = 1
)

// Business validation constants
const (
	MinRentalHours       = 1
	MaxRentalHoursLimit  = 24 * 30
	MaxNotesLength       = 500
	MaxHolidayNameLength = 100
	MaxTempHoldMinutes   = 24 * 60
	MaxReasonLength      = 500
)

// ConsoleLockTimeout сколько операция ждет блокировку консоли
const ConsoleLockTimeout = 10 * time.Second

// DefaultWorkingDays все дни недели рабочие (1 = понедельник, 7 = воскресенье)
var DefaultWorkingDays = []int{1, 2, 3, 4, 5, 6, 7}

// DefaultTimeSlots каталог часовых слотов с 09:00 до 21:00
var DefaultTimeSlots = []string{
	"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00",
	"16:00", "17:00", "18:00", "19:00", "20:00", "21:00",
}

// DateOnly обнуляет время, оставляя дату в исходной локации
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay проверяет, что две даты относятся к одному дню
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// ISOWeekday номер дня недели: 1 = понедельник ... 7 = воскресенье
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
