package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	UserID    *int64    // клиент; его удержание не скрывает консоль, уровень задает горизонт
	ConsoleID string    // ID консоли
	Date      time.Time // Дата (без времени)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	ConsoleID          string `json:"consoleId"`
	Date               string `json:"date"`
	DayStatus          string `json:"dayStatus"`
	Slots              []Slot `json:"slots"`
	HeldByOther        bool   `json:"heldByOther"`
	HasDiscount        bool   `json:"hasDiscount"`
	BookingHorizonDays int    `json:"bookingHorizonDays"`
}

// Slot модель временного слота
type Slot struct {
	StartTime       types.TimeString `json:"startTime"`       // Время начала слота (например, "10:00")
	DurationMinutes int              `json:"durationMinutes"` // Длительность слота в минутах
}
