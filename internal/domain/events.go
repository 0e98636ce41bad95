package domain

import "time"

// RentalEventType тип перехода жизненного цикла аренды
type RentalEventType string

const (
	EventRequestSubmitted RentalEventType = "request_submitted"
	EventRequestApproved  RentalEventType = "request_approved"
	EventRequestRejected  RentalEventType = "request_rejected"
	EventRequestCompleted RentalEventType = "request_completed"
	EventRentalStarted    RentalEventType = "rental_started"
	EventRentalEnded      RentalEventType = "rental_ended"
	EventRentalReturned   RentalEventType = "rental_returned"
	EventReturnReminder   RentalEventType = "return_reminder"
)

// RentalEvent результат перехода, который потребляют уведомления и поток событий
type RentalEvent struct {
	Type       RentalEventType `json:"type"`
	UserID     int64           `json:"user_id"`
	ConsoleID  string          `json:"console_id"`
	RentalID   *string         `json:"rental_id,omitempty"`
	RequestID  *string         `json:"request_id,omitempty"`
	Hours      *int            `json:"hours,omitempty"`
	Cost       *float64        `json:"cost,omitempty"`
	Reason     *string         `json:"reason,omitempty"`
	DueAt      *time.Time      `json:"due_at,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
