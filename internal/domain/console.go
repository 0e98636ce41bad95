package domain

import "time"

// ConsoleStatus состояние консоли
type ConsoleStatus string

const (
	ConsoleAvailable ConsoleStatus = "available"
	ConsoleRented    ConsoleStatus = "rented"
)

// Console represents a rentable console unit
type Console struct {
	ID             string
	Name           string
	Model          string
	Games          []string
	RentalPrice    float64  // цена за час
	SalePrice      *float64 // цена продажи (опционально)
	Status         ConsoleStatus
	PhotoPath      *string
	ShowPhotoInBot bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAvailable returns true if the console can be rented right now
func (c *Console) IsAvailable() bool {
	return c.Status == ConsoleAvailable
}

// CostForHours стоимость аренды без скидок
func (c *Console) CostForHours(hours int) float64 {
	return float64(hours) * c.RentalPrice
}

// IsValidConsoleStatus проверяет значение статуса
func IsValidConsoleStatus(s ConsoleStatus) bool {
	return s == ConsoleAvailable || s == ConsoleRented
}
