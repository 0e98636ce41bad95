package domain

import "time"

// RegistrationStep шаг регистрации клиента
type RegistrationStep string

const (
	RegistrationPhone     RegistrationStep = "phone"
	RegistrationFullName  RegistrationStep = "full_name"
	RegistrationCompleted RegistrationStep = "completed"
)

// VerificationStep шаг проверки документов после одобрения заявки
type VerificationStep string

const (
	VerificationLocationRequest VerificationStep = "location_request"
	VerificationPassportFront   VerificationStep = "passport_front"
)

// User represents a customer; ID is the messaging platform identity
type User struct {
	ID                     int64
	Phone                  *string
	FullName               *string
	RegistrationStep       RegistrationStep
	IsBanned               bool
	TotalSpent             float64
	LoyaltyBonus           int
	PromotionParticipation bool
	JoinedAt               time.Time
	VerificationStep       *VerificationStep
	PendingRentalID        *string
	UpdatedAt              time.Time
}

// IsRegistered returns true if the user finished registration
func (u *User) IsRegistered() bool {
	return u.RegistrationStep == RegistrationCompleted
}

// CanRent returns true if the user may submit rental requests
func (u *User) CanRent() bool {
	return !u.IsBanned
}

// TenureDays количество полных дней с момента регистрации
func (u *User) TenureDays(now time.Time) int {
	if u.JoinedAt.IsZero() || now.Before(u.JoinedAt) {
		return 0
	}
	return int(now.Sub(u.JoinedAt).Hours() / 24)
}
