package models

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// CreateDiscountRequest запрос на создание скидки
type CreateDiscountRequest struct {
	ConsoleID   string    `json:"consoleId"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	MinHours    int       `json:"minHours"`
	Description *string   `json:"description,omitempty"`
}

// DiscountResponse данные скидки
type DiscountResponse struct {
	ID          string    `json:"id"`
	ConsoleID   string    `json:"consoleId"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	MinHours    int       `json:"minHours"`
	Active      bool      `json:"active"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PriceQuote расчет стоимости с учетом скидки
type PriceQuote struct {
	Hours          int               `json:"hours"`
	BaseCost       float64           `json:"baseCost"`
	DiscountAmount float64           `json:"discountAmount"`
	FinalCost      float64           `json:"finalCost"`
	Discount       *DiscountResponse `json:"discount,omitempty"`
}

// FromDomainDiscount конвертирует domain.Discount в DiscountResponse
func FromDomainDiscount(d *domain.Discount) *DiscountResponse {
	if d == nil {
		return nil
	}
	return &DiscountResponse{
		ID:          d.ID,
		ConsoleID:   d.ConsoleID,
		Type:        string(d.Type),
		Value:       d.Value,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		MinHours:    d.MinHours,
		Active:      d.Active,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
	}
}

// FromDomainDiscounts конвертирует список скидок
func FromDomainDiscounts(list []*domain.Discount) []*DiscountResponse {
	result := make([]*DiscountResponse, 0, len(list))
	for _, d := range list {
		result = append(result, FromDomainDiscount(d))
	}
	return result
}
