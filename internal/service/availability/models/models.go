package models

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// DayInfoResponse статус дня календаря
type DayInfoResponse struct {
	Date              string  `json:"date"`
	Status            string  `json:"status"`
	Label             string  `json:"label"`
	HolidayName       *string `json:"holidayName,omitempty"`
	ReservationsCount int     `json:"reservationsCount"`
	HasDiscount       bool    `json:"hasDiscount"`
}

// MonthPreviewResponse календарь месяца с легендой статусов
type MonthPreviewResponse struct {
	Year      int                `json:"year"`
	Month     int                `json:"month"`
	ConsoleID *string            `json:"consoleId,omitempty"`
	Days      []*DayInfoResponse `json:"days"`
	Legend    map[string]string  `json:"legend"`
}

// ReserveSlotRequest запрос на бронирование слота
type ReserveSlotRequest struct {
	ConsoleID     string
	UserID        int64
	Date          time.Time
	TimeSlot      string
	DurationHours int
	Notes         *string
}

// ReservationResponse данные бронирования слота
type ReservationResponse struct {
	ID            string    `json:"id"`
	ConsoleID     string    `json:"consoleId"`
	UserID        int64     `json:"userId"`
	Date          string    `json:"date"`
	TimeSlot      string    `json:"timeSlot"`
	DurationHours int       `json:"durationHours"`
	Status        string    `json:"status"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AvailableSlotsResponse свободные слоты консоли на дату
type AvailableSlotsResponse struct {
	ConsoleID   string   `json:"consoleId"`
	Date        string   `json:"date"`
	DayStatus   string   `json:"dayStatus"`
	Slots       []string `json:"slots"`
	HeldByOther bool     `json:"heldByOther"`
}

// BlockedDateResponse заблокированная дата
type BlockedDateResponse struct {
	ConsoleID *string `json:"consoleId,omitempty"`
	Date      string  `json:"date"`
	Reason    *string `json:"reason,omitempty"`
}

// HolidayResponse праздничный день
type HolidayResponse struct {
	Date    string `json:"date"`
	Name    string `json:"name"`
	Working bool   `json:"working"`
}

// SettingsResponse рабочие дни и каталог слотов
type SettingsResponse struct {
	WorkingDays []int    `json:"workingDays"`
	TimeSlots   []string `json:"timeSlots"`
}

// UpdateSettingsRequest запрос на изменение рабочих дней и слотов
type UpdateSettingsRequest struct {
	WorkingDays []int
	TimeSlots   []string
}

// TempReservationResponse временное удержание консоли
type TempReservationResponse struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ConsoleID string    `json:"consoleId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// FromDomainDayInfo конвертирует domain.DayInfo в DayInfoResponse
func FromDomainDayInfo(info *domain.DayInfo) *DayInfoResponse {
	return &DayInfoResponse{
		Date:              info.Date.Format(domain.DateFormat),
		Status:            string(info.Status),
		Label:             domain.DayStatusLabels[info.Status],
		HolidayName:       info.HolidayName,
		ReservationsCount: info.ReservationsCount,
		HasDiscount:       info.HasDiscount,
	}
}

// Legend подписи всех статусов дня
func Legend() map[string]string {
	legend := make(map[string]string, len(domain.DayStatusLabels))
	for status, label := range domain.DayStatusLabels {
		legend[string(status)] = label
	}
	return legend
}

// FromDomainReservation конвертирует domain.SlotReservation в ReservationResponse
func FromDomainReservation(r *domain.SlotReservation) *ReservationResponse {
	return &ReservationResponse{
		ID:            r.ID,
		ConsoleID:     r.ConsoleID,
		UserID:        r.UserID,
		Date:          r.Date.Format(domain.DateFormat),
		TimeSlot:      r.TimeSlot.String(),
		DurationHours: r.DurationHours,
		Status:        string(r.Status),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
	}
}

// FromDomainBlockedDates конвертирует список блокировок
func FromDomainBlockedDates(blocks []*domain.BlockedDate) []*BlockedDateResponse {
	result := make([]*BlockedDateResponse, 0, len(blocks))
	for _, b := range blocks {
		result = append(result, &BlockedDateResponse{
			ConsoleID: b.ConsoleID,
			Date:      b.Date.Format(domain.DateFormat),
			Reason:    b.Reason,
		})
	}
	return result
}

// FromDomainHolidays конвертирует список праздников
func FromDomainHolidays(holidays []*domain.Holiday) []*HolidayResponse {
	result := make([]*HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		result = append(result, &HolidayResponse{
			Date:    h.Date.Format(domain.DateFormat),
			Name:    h.Name,
			Working: h.Working,
		})
	}
	return result
}

// FromDomainSettings конвертирует domain.CalendarSettings в SettingsResponse
func FromDomainSettings(s *domain.CalendarSettings) *SettingsResponse {
	slots := make([]string, 0, len(s.TimeSlots))
	for _, ts := range s.TimeSlots {
		slots = append(slots, ts.String())
	}
	return &SettingsResponse{WorkingDays: s.WorkingDays, TimeSlots: slots}
}

// FromDomainTempReservation конвертирует domain.TempReservation в TempReservationResponse
func FromDomainTempReservation(t *domain.TempReservation) *TempReservationResponse {
	return &TempReservationResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		ConsoleID: t.ConsoleID,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
	}
}
