package models

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// UpdateSettingsRequest запрос на изменение настроек проката
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	AdminChatID          *int64 `json:"adminChatId,omitempty"`
	RequireApproval      *bool  `json:"requireApproval,omitempty"`
	NotificationsEnabled *bool  `json:"notificationsEnabled,omitempty"`
	MaxRentalHours       *int   `json:"maxRentalHours,omitempty"`
	ReminderHours        *int   `json:"reminderHours,omitempty"`
	TempHoldMinutes      *int   `json:"tempHoldMinutes,omitempty"`
}

// SettingsResponse настройки проката
type SettingsResponse struct {
	AdminChatID          int64      `json:"adminChatId"`
	RequireApproval      bool       `json:"requireApproval"`
	NotificationsEnabled bool       `json:"notificationsEnabled"`
	MaxRentalHours       int        `json:"maxRentalHours"`
	ReminderHours        int        `json:"reminderHours"`
	TempHoldMinutes      int        `json:"tempHoldMinutes"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.AdminSettings) *SettingsResponse {
	resp := &SettingsResponse{
		AdminChatID:          s.AdminChatID,
		RequireApproval:      s.RequireApproval,
		NotificationsEnabled: s.NotificationsEnabled,
		MaxRentalHours:       s.MaxRentalHours,
		ReminderHours:        s.ReminderHours,
		TempHoldMinutes:      s.TempHoldMinutes,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}
