package domain

import (
	"math"
	"time"
)

// DiscountType тип скидки
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount скидка на аренду конкретной консоли в период
type Discount struct {
	ID          string
	ConsoleID   string
	Type        DiscountType
	Value       float64
	StartDate   time.Time
	EndDate     time.Time
	MinHours    int
	Active      bool
	Description *string
	CreatedAt   time.Time
}

// IsActiveAt returns true if the discount applies at the given instant
func (d *Discount) IsActiveAt(at time.Time) bool {
	return d.Active && !at.Before(d.StartDate) && !at.After(d.EndDate)
}

// CoversDate returns true if the discount applies on the given day (date-only comparison)
func (d *Discount) CoversDate(date time.Time) bool {
	day := DateOnly(date)
	return d.Active &&
		!day.Before(DateOnly(d.StartDate.In(date.Location()))) &&
		!day.After(DateOnly(d.EndDate.In(date.Location())))
}

// AppliesToHours returns true if the rental duration reaches the discount threshold
func (d *Discount) AppliesToHours(hours int) bool {
	return hours >= d.MinHours
}

// Amount размер скидки для базовой стоимости, округленный до целой денежной единицы
// Фиксированная скидка не превышает базовую стоимость
func (d *Discount) Amount(base float64) float64 {
	if base <= 0 {
		return 0
	}
	var amount float64
	switch d.Type {
	case DiscountPercentage:
		amount = base * d.Value / 100
	case DiscountFixed:
		amount = math.Min(d.Value, base)
	}
	amount = math.Round(amount)
	if amount > base {
		amount = base
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// IsValidDiscountType проверяет тип скидки
func IsValidDiscountType(t DiscountType) bool {
	return t == DiscountPercentage || t == DiscountFixed
}
