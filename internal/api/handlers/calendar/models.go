package calendar

import "github.com/m04kA/SMC-ConsoleRental/internal/service/availability/models"

// BlockDateRequest HTTP запрос блокировки даты; без consoleId блокируются все консоли
type BlockDateRequest struct {
	ConsoleID *string `json:"consoleId,omitempty"`
	Date      string  `json:"date" validate:"required"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// HolidayRequest HTTP запрос добавления праздника
type HolidayRequest struct {
	Date    string `json:"date" validate:"required"`
	Name    string `json:"name" validate:"required,max=100"`
	Working bool   `json:"working"`
}

// UpdateSettingsRequest HTTP запрос изменения рабочих дней и слотов
type UpdateSettingsRequest struct {
	WorkingDays []int    `json:"workingDays" validate:"required,min=1,dive,min=1,max=7"`
	TimeSlots   []string `json:"timeSlots" validate:"required,min=1"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest() *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		WorkingDays: r.WorkingDays,
		TimeSlots:   r.TimeSlots,
	}
}
