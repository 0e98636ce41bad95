package reject_request

// RejectRequest HTTP запрос на отклонение заявки
type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}
