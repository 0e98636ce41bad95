package discounts

import (
	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
)

// CreateDiscountRequest HTTP запрос на создание скидки; даты в формате YYYY-MM-DD
type CreateDiscountRequest struct {
	ConsoleID   string  `json:"consoleId" validate:"required"`
	Type        string  `json:"type" validate:"required,oneof=percentage fixed"`
	Value       float64 `json:"value" validate:"gt=0"`
	StartDate   string  `json:"startDate" validate:"required"`
	EndDate     string  `json:"endDate" validate:"required"`
	MinHours    int     `json:"minHours" validate:"min=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// SetActiveRequest HTTP запрос включения или выключения скидки
type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateDiscountRequest) ToServiceRequest() (*models.CreateDiscountRequest, error) {
	start, err := handlers.ParseDate(r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := handlers.ParseDate(r.EndDate)
	if err != nil {
		return nil, err
	}

	return &models.CreateDiscountRequest{
		ConsoleID:   r.ConsoleID,
		Type:        r.Type,
		Value:       r.Value,
		StartDate:   start,
		EndDate:     end,
		MinHours:    r.MinHours,
		Description: r.Description,
	}, nil
}
