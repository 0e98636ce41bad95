package approve_request

import "github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"

// autoRejectReason причина автоматического отклонения
const autoRejectReason = "Консоль уже занята"

// Request модель запроса на одобрение заявки
type Request struct {
	RequestID  string
	AdminID    int64
	AutoReject bool // отклонить заявку, если консоль недоступна
}

// Response результат рассмотрения заявки
// AutoRejected: консоль оказалась недоступна и заявка отклонена
type Response struct {
	Request      *models.RequestResponse `json:"request"`
	Rental       *models.RentalResponse  `json:"rental,omitempty"`
	AutoRejected bool                    `json:"autoRejected"`
}
