package submit_request

import submitRequest "github.com/m04kA/SMC-ConsoleRental/internal/usecase/submit_request"

// SubmitRequest HTTP запрос заявки на аренду
// Без hours аренда открывается без срока
type SubmitRequest struct {
	ConsoleID string `json:"consoleId" validate:"required"`
	Hours     *int   `json:"hours,omitempty" validate:"omitempty,min=1"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitRequest) ToUseCaseRequest(userID int64) *submitRequest.Request {
	return &submitRequest.Request{
		UserID:        userID,
		ConsoleID:     r.ConsoleID,
		SelectedHours: r.Hours,
	}
}
