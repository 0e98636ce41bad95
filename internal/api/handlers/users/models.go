package users

// RegisterRequest HTTP запрос регистрации клиента
// ID клиента берется из X-User-ID
type RegisterRequest struct {
	Phone                  *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	FullName               *string `json:"fullName,omitempty" validate:"omitempty,max=200"`
	PromotionParticipation bool    `json:"promotionParticipation"`
}

// BanRequest HTTP запрос блокировки клиента
type BanRequest struct {
	Banned *bool `json:"banned" validate:"required"`
}
