package consoles

import "github.com/m04kA/SMC-ConsoleRental/internal/service/consoles/models"

// CreateConsoleRequest HTTP запрос на добавление консоли
type CreateConsoleRequest struct {
	Name           string   `json:"name" validate:"required,max=100"`
	Model          string   `json:"model" validate:"required,max=100"`
	Games          []string `json:"games"`
	RentalPrice    float64  `json:"rentalPrice" validate:"gt=0"`
	SalePrice      *float64 `json:"salePrice,omitempty" validate:"omitempty,gt=0"`
	PhotoPath      *string  `json:"photoPath,omitempty"`
	ShowPhotoInBot bool     `json:"showPhotoInBot"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateConsoleRequest) ToServiceRequest() *models.CreateConsoleRequest {
	return &models.CreateConsoleRequest{
		Name:           r.Name,
		Model:          r.Model,
		Games:          r.Games,
		RentalPrice:    r.RentalPrice,
		SalePrice:      r.SalePrice,
		PhotoPath:      r.PhotoPath,
		ShowPhotoInBot: r.ShowPhotoInBot,
	}
}
