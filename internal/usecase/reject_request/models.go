package reject_request

// Request модель запроса на отклонение заявки
type Request struct {
	RequestID string
	AdminID   int64
	Reason    string
}
