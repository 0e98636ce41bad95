package submit_request

import "github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"

// Request модель заявки на аренду
type Request struct {
	UserID        int64
	ConsoleID     string
	SelectedHours *int // nil - аренда без срока
}

// Response результат подачи заявки
// Rental заполнен, когда одобрение выключено и аренда началась сразу
type Response struct {
	Request *models.RequestResponse `json:"request"`
	Rental  *models.RentalResponse  `json:"rental,omitempty"`
}
