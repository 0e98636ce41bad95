package reservations

// TempReservationRequest HTTP запрос временного удержания консоли
type TempReservationRequest struct {
	ConsoleID string `json:"consoleId" validate:"required"`
}

// SlotReservationRequest HTTP запрос бронирования слота
type SlotReservationRequest struct {
	ConsoleID     string  `json:"consoleId" validate:"required"`
	Date          string  `json:"date" validate:"required"`
	TimeSlot      string  `json:"timeSlot" validate:"required"`
	DurationHours int     `json:"durationHours" validate:"omitempty,min=1,max=24"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ReleaseResponse результат снятия удержания или брони
type ReleaseResponse struct {
	Released bool `json:"released"`
}
