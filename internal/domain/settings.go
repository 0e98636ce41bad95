package domain

import "time"

// AdminSettings бизнес-настройки проката
type AdminSettings struct {
	AdminChatID          int64
	RequireApproval      bool
	NotificationsEnabled bool
	MaxRentalHours       int
	ReminderHours        int
	TempHoldMinutes      int
	UpdatedAt            time.Time
}

// DefaultAdminSettings настройки по умолчанию
func DefaultAdminSettings() *AdminSettings {
	return &AdminSettings{
		RequireApproval:      DefaultRequireApproval,
		NotificationsEnabled: true,
		MaxRentalHours:       DefaultMaxRentalHours,
		ReminderHours:        DefaultReminderHours,
		TempHoldMinutes:      DefaultTempHoldMinutes,
	}
}

// TempHoldTTL время жизни временного удержания консоли
func (s *AdminSettings) TempHoldTTL() time.Duration {
	if s.TempHoldMinutes <= 0 {
		return DefaultTempHoldMinutes * time.Minute
	}
	return time.Duration(s.TempHoldMinutes) * time.Minute
}
