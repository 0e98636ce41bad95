package update_settings

import "github.com/m04kA/SMC-ConsoleRental/internal/service/settings/models"

// UpdateSettingsRequest HTTP запрос на изменение настроек; не указанные поля не меняются
type UpdateSettingsRequest struct {
	AdminChatID          *int64 `json:"adminChatId,omitempty"`
	RequireApproval      *bool  `json:"requireApproval,omitempty"`
	NotificationsEnabled *bool  `json:"notificationsEnabled,omitempty"`
	MaxRentalHours       *int   `json:"maxRentalHours,omitempty" validate:"omitempty,min=1,max=720"`
	ReminderHours        *int   `json:"reminderHours,omitempty" validate:"omitempty,min=0"`
	TempHoldMinutes      *int   `json:"tempHoldMinutes,omitempty" validate:"omitempty,min=1,max=1440"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest() *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		AdminChatID:          r.AdminChatID,
		RequireApproval:      r.RequireApproval,
		NotificationsEnabled: r.NotificationsEnabled,
		MaxRentalHours:       r.MaxRentalHours,
		ReminderHours:        r.ReminderHours,
		TempHoldMinutes:      r.TempHoldMinutes,
	}
}
