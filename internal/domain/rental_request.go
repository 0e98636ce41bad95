package domain

import "time"

// RequestStatus represents the status of a rental request
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestApproved  RequestStatus = "approved"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// RentalRequest заявка клиента на аренду, ожидающая решения администратора
type RentalRequest struct {
	ID            string
	UserID        int64
	ConsoleID     string
	SelectedHours *int
	ExpectedCost  float64
	RequestTime   time.Time
	Status        RequestStatus
	RentalID      *string
	DecidedAt     *time.Time
	RejectReason  *string
}

// CanBeDecided returns true if the request is still waiting for approval or rejection
func (r *RentalRequest) CanBeDecided() bool {
	return r.Status == RequestPending
}

// CanBeCompleted returns true if the approved request may be closed after verification
func (r *RentalRequest) CanBeCompleted() bool {
	return r.Status == RequestApproved
}

// IsValidRequestStatus проверяет значение статуса заявки
func IsValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestCompleted:
		return true
	}
	return false
}
