package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid status")
)

// Request модели

// GetRentalRequest запрос аренды; администратор видит любую аренду
type GetRentalRequest struct {
	RentalID string
	CallerID int64
	IsAdmin  bool
}

// ListUserRentalsRequest запрос аренд клиента
type ListUserRentalsRequest struct {
	UserID   int64
	CallerID int64
	IsAdmin  bool
	Status   *string
}

// Response модели

// LocationResponse геопозиция клиента
type LocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReturnInfoResponse итоги приёмки консоли
type ReturnInfoResponse struct {
	Condition       string    `json:"condition"`
	AdminComment    string    `json:"adminComment,omitempty"`
	Photos          []string  `json:"photos,omitempty"`
	ClientConfirmed bool      `json:"clientConfirmed"`
	RecordedByID    int64     `json:"recordedById"`
	ReturnDate      time.Time `json:"returnDate"`
}

// RentalResponse ответ с данными аренды
type RentalResponse struct {
	ID              string              `json:"id"`
	UserID          int64               `json:"userId"`
	ConsoleID       string              `json:"consoleId"`
	RequestID       *string             `json:"requestId,omitempty"`
	StartTime       time.Time           `json:"startTime"`
	EndTime         *time.Time          `json:"endTime,omitempty"`
	ExpectedEndTime *time.Time          `json:"expectedEndTime,omitempty"`
	SelectedHours   *int                `json:"selectedHours,omitempty"`
	ExpectedCost    float64             `json:"expectedCost"`
	DiscountID      *string             `json:"discountId,omitempty"`
	DiscountAmount  float64             `json:"discountAmount"`
	TotalCost       float64             `json:"totalCost"`
	Status          string              `json:"status"`
	Location        *LocationResponse   `json:"location,omitempty"`
	ReturnInfo      *ReturnInfoResponse `json:"returnInfo,omitempty"`
	RatedAt         *time.Time          `json:"ratedAt,omitempty"`
}

// RentalListResponse ответ со списком аренд
type RentalListResponse struct {
	Rentals []RentalResponse `json:"rentals"`
}

// RequestResponse ответ с данными заявки
type RequestResponse struct {
	ID            string     `json:"id"`
	UserID        int64      `json:"userId"`
	ConsoleID     string     `json:"consoleId"`
	SelectedHours *int       `json:"selectedHours,omitempty"`
	ExpectedCost  float64    `json:"expectedCost"`
	RequestTime   time.Time  `json:"requestTime"`
	Status        string     `json:"status"`
	RentalID      *string    `json:"rentalId,omitempty"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	RejectReason  *string    `json:"rejectReason,omitempty"`
}

// RequestListResponse ответ со списком заявок
type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
}

// Методы конвертации

// FromDomainRental конвертирует domain модель в DTO
func FromDomainRental(r *domain.Rental) *RentalResponse {
	if r == nil {
		return nil
	}

	resp := &RentalResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		ConsoleID:       r.ConsoleID,
		RequestID:       r.RequestID,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		ExpectedEndTime: r.ExpectedEndTime,
		SelectedHours:   r.SelectedHours,
		ExpectedCost:    r.ExpectedCost,
		DiscountID:      r.DiscountID,
		DiscountAmount:  r.DiscountAmount,
		TotalCost:       r.TotalCost,
		Status:          string(r.Status),
		RatedAt:         r.RatedAt,
	}

	if r.Location != nil {
		resp.Location = &LocationResponse{
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
		}
	}

	if r.ReturnInfo != nil {
		resp.ReturnInfo = &ReturnInfoResponse{
			Condition:       string(r.ReturnInfo.Condition),
			AdminComment:    r.ReturnInfo.AdminComment,
			Photos:          r.ReturnInfo.Photos,
			ClientConfirmed: r.ReturnInfo.ClientConfirmed,
			RecordedByID:    r.ReturnInfo.RecordedByID,
			ReturnDate:      r.ReturnInfo.ReturnDate,
		}
	}

	return resp
}

// FromDomainRentalList конвертирует список аренд
func FromDomainRentalList(rentals []*domain.Rental) *RentalListResponse {
	resp := &RentalListResponse{Rentals: make([]RentalResponse, 0, len(rentals))}
	for _, r := range rentals {
		resp.Rentals = append(resp.Rentals, *FromDomainRental(r))
	}
	return resp
}

// FromDomainRequest конвертирует заявку в DTO
func FromDomainRequest(r *domain.RentalRequest) *RequestResponse {
	if r == nil {
		return nil
	}

	return &RequestResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		ConsoleID:     r.ConsoleID,
		SelectedHours: r.SelectedHours,
		ExpectedCost:  r.ExpectedCost,
		RequestTime:   r.RequestTime,
		Status:        string(r.Status),
		RentalID:      r.RentalID,
		DecidedAt:     r.DecidedAt,
		RejectReason:  r.RejectReason,
	}
}

// FromDomainRequestList конвертирует список заявок
func FromDomainRequestList(requests []*domain.RentalRequest) *RequestListResponse {
	resp := &RequestListResponse{Requests: make([]RequestResponse, 0, len(requests))}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, *FromDomainRequest(r))
	}
	return resp
}

// ToDomainRentalStatus конвертирует строку в domain.RentalStatus с валидацией
func ToDomainRentalStatus(status string) (domain.RentalStatus, error) {
	s := domain.RentalStatus(status)
	switch s {
	case domain.RentalActive, domain.RentalCompleted, domain.RentalReturned:
		return s, nil
	}
	return "", ErrInvalidStatus
}

// ToDomainRequestStatus конвертирует строку в domain.RequestStatus с валидацией
func ToDomainRequestStatus(status string) (domain.RequestStatus, error) {
	s := domain.RequestStatus(status)
	if !domain.IsValidRequestStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
