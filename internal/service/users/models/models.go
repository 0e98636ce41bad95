package models

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// RegisterRequest регистрация клиента по идентификатору мессенджера
type RegisterRequest struct {
	ID                     int64
	Phone                  *string
	FullName               *string
	PromotionParticipation bool
}

// UserResponse ответ с данными клиента
type UserResponse struct {
	ID                     int64     `json:"id"`
	Phone                  *string   `json:"phone,omitempty"`
	FullName               *string   `json:"fullName,omitempty"`
	RegistrationStep       string    `json:"registrationStep"`
	IsBanned               bool      `json:"isBanned"`
	TotalSpent             float64   `json:"totalSpent"`
	LoyaltyBonus           int       `json:"loyaltyBonus"`
	PromotionParticipation bool      `json:"promotionParticipation"`
	JoinedAt               time.Time `json:"joinedAt"`
	VerificationStep       *string   `json:"verificationStep,omitempty"`
	PendingRentalID        *string   `json:"pendingRentalId,omitempty"`
}

// UserListResponse ответ со списком клиентов
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}

	resp := &UserResponse{
		ID:                     u.ID,
		Phone:                  u.Phone,
		FullName:               u.FullName,
		RegistrationStep:       string(u.RegistrationStep),
		IsBanned:               u.IsBanned,
		TotalSpent:             u.TotalSpent,
		LoyaltyBonus:           u.LoyaltyBonus,
		PromotionParticipation: u.PromotionParticipation,
		JoinedAt:               u.JoinedAt,
		PendingRentalID:        u.PendingRentalID,
	}
	if u.VerificationStep != nil {
		step := string(*u.VerificationStep)
		resp.VerificationStep = &step
	}

	return resp
}

// FromDomainUserList конвертирует список клиентов
func FromDomainUserList(users []*domain.User) *UserListResponse {
	resp := &UserListResponse{Users: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, *FromDomainUser(u))
	}
	return resp
}
