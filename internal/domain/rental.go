package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RentalStatus represents the status of a rental
type RentalStatus string

const (
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalReturned  RentalStatus = "returned"
)

// ReturnCondition состояние консоли при возврате
type ReturnCondition string

const (
	ConditionExcellent    ReturnCondition = "excellent"
	ConditionMinorDefects ReturnCondition = "minor_defects"
	ConditionDamaged      ReturnCondition = "damaged"
	ConditionLost         ReturnCondition = "lost"
)

// IsValidReturnCondition проверяет значение состояния при возврате
func IsValidReturnCondition(c ReturnCondition) bool {
	switch c {
	case ConditionExcellent, ConditionMinorDefects, ConditionDamaged, ConditionLost:
		return true
	}
	return false
}

// ItemCondition переводит состояние при возврате в класс для рейтинга дисциплины
func (c ReturnCondition) ItemCondition() ItemCondition {
	switch c {
	case ConditionExcellent:
		return ItemPerfect
	case ConditionMinorDefects:
		return ItemMinorDefects
	default:
		return ItemMajorDefects
	}
}

// Location геопозиция клиента
type Location struct {
	Latitude  float64
	Longitude float64
}

// ReturnInfo результат приёмки консоли администратором
type ReturnInfo struct {
	Condition       ReturnCondition `json:"condition"`
	AdminComment    string          `json:"admin_comment,omitempty"`
	Photos          []string        `json:"return_photos,omitempty"`
	ClientConfirmed bool            `json:"client_confirmed"`
	ClientSignature *string         `json:"client_signature,omitempty"`
	RecordedBy      string          `json:"recorded_by,omitempty"`
	RecordedByID    int64           `json:"recorded_by_id"`
	ReturnDate      time.Time       `json:"return_date"`
}

// Value реализует driver.Valuer (jsonb)
func (r ReturnInfo) Value() (driver.Value, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan реализует sql.Scanner (jsonb)
func (r *ReturnInfo) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("domain.ReturnInfo: unsupported scan type %T", src)
	}
	return json.Unmarshal(data, r)
}

// Rental represents a console rental
type Rental struct {
	ID              string
	UserID          int64
	ConsoleID       string
	RequestID       *string
	StartTime       time.Time
	EndTime         *time.Time
	ExpectedEndTime *time.Time
	SelectedHours   *int
	ExpectedCost    float64
	DiscountID      *string
	DiscountAmount  float64
	TotalCost       float64
	Status          RentalStatus
	Location        *Location
	ReturnInfo      *ReturnInfo
	RatingID        *string
	RatedAt         *time.Time
	ReminderSentAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive returns true if the rental currently holds its console
func (r *Rental) IsActive() bool {
	return r.Status == RentalActive
}

// IsFinished returns true if the rental was completed or returned
func (r *Rental) IsFinished() bool {
	return r.Status == RentalCompleted || r.Status == RentalReturned
}

// CanRecordReturn returns true if return info may be attached
func (r *Rental) CanRecordReturn() bool {
	return r.Status == RentalActive || r.Status == RentalCompleted
}

// IsAwaitingRating returns true if an admin still has to rate the rental manually
func (r *Rental) IsAwaitingRating() bool {
	return r.IsFinished() && r.RatingID == nil
}

// OccupiesDate проверяет, занимает ли аренда консоль в указанный день
// Период от даты начала до ожидаемой даты окончания включительно,
// без ожидаемого окончания занят только день начала
func (r *Rental) OccupiesDate(date time.Time) bool {
	day := DateOnly(date.In(r.StartTime.Location()))
	start := DateOnly(r.StartTime)
	if r.ExpectedEndTime == nil {
		return day.Equal(start)
	}
	end := DateOnly(r.ExpectedEndTime.In(r.StartTime.Location()))
	return !day.Before(start) && !day.After(end)
}

// Timing класс своевременности возврата в момент at относительно ожидаемого окончания
// Без ожидаемого окончания возврат считается своевременным
func (r *Rental) Timing(at time.Time) ReturnTiming {
	if r.ExpectedEndTime == nil {
		return TimingOnTime
	}
	late := at.Sub(*r.ExpectedEndTime)
	switch {
	case late <= 0:
		return TimingOnTime
	case late <= 24*time.Hour:
		return TimingLate1To24h
	default:
		return TimingLateOver24h
	}
}

// BillableHours количество оплачиваемых часов: минимум 1,
// неполные часы сверх первого не округляются вверх
func BillableHours(start, end time.Time) int {
	hours := int(end.Sub(start).Seconds() / 3600)
	if hours < 1 {
		return 1
	}
	return hours
}

// HoursLabel длительность аренды для сообщений; nil означает аренду без срока
func HoursLabel(hours *int) string {
	if hours == nil {
		return "без ограничения"
	}
	return strconv.Itoa(*hours)
}
