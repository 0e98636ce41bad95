package quote_price

import (
	"math"

	discountModels "github.com/m04kA/SMC-ConsoleRental/internal/service/discounts/models"
)

// Request запрос расчета стоимости
type Request struct {
	ConsoleID string
	Hours     int
	UserID    *int64 // клиент, для которого показывается скидка уровня
}

// TierQuote скидка уровня клиента
// Со скидкой консоли не суммируется, показывается отдельно от базовой стоимости
type TierQuote struct {
	Status          string  `json:"status"`
	StatusName      string  `json:"statusName"`
	DiscountPercent int     `json:"discountPercent"`
	DiscountAmount  float64 `json:"discountAmount"`
	FinalCost       float64 `json:"finalCost"`
}

// Response расчет стоимости аренды
type Response struct {
	ConsoleID      string                           `json:"consoleId"`
	Hours          int                              `json:"hours"`
	PricePerHour   float64                          `json:"pricePerHour"`
	BaseCost       float64                          `json:"baseCost"`
	DiscountAmount float64                          `json:"discountAmount"`
	FinalCost      float64                          `json:"finalCost"`
	Discount       *discountModels.DiscountResponse `json:"discount,omitempty"`
	Tier           *TierQuote                       `json:"tier,omitempty"`
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
