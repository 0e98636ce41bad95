package models

import (
	"time"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// CreateConsoleRequest запрос на добавление консоли
type CreateConsoleRequest struct {
	Name           string
	Model          string
	Games          []string
	RentalPrice    float64
	SalePrice      *float64
	PhotoPath      *string
	ShowPhotoInBot bool
}

// ConsoleResponse ответ с данными консоли
type ConsoleResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Model          string    `json:"model"`
	Games          []string  `json:"games"`
	RentalPrice    float64   `json:"rentalPrice"`
	SalePrice      *float64  `json:"salePrice,omitempty"`
	Status         string    `json:"status"`
	PhotoPath      *string   `json:"photoPath,omitempty"`
	ShowPhotoInBot bool      `json:"showPhotoInBot"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ConsoleListResponse ответ со списком консолей
type ConsoleListResponse struct {
	Consoles []ConsoleResponse `json:"consoles"`
}

// ReconcileResult результат сверки статусов консолей с активными арендами
type ReconcileResult struct {
	Checked         int      `json:"checked"`
	MarkedRented    []string `json:"markedRented"`
	MarkedAvailable []string `json:"markedAvailable"`
}

// Fixed количество исправленных консолей
func (r *ReconcileResult) Fixed() int {
	return len(r.MarkedRented) + len(r.MarkedAvailable)
}

// FromDomainConsole конвертирует domain модель в DTO
func FromDomainConsole(c *domain.Console) *ConsoleResponse {
	if c == nil {
		return nil
	}

	games := c.Games
	if games == nil {
		games = []string{}
	}

	return &ConsoleResponse{
		ID:             c.ID,
		Name:           c.Name,
		Model:          c.Model,
		Games:          games,
		RentalPrice:    c.RentalPrice,
		SalePrice:      c.SalePrice,
		Status:         string(c.Status),
		PhotoPath:      c.PhotoPath,
		ShowPhotoInBot: c.ShowPhotoInBot,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// FromDomainConsoleList конвертирует список консолей
func FromDomainConsoleList(consoles []*domain.Console) *ConsoleListResponse {
	resp := &ConsoleListResponse{
		Consoles: make([]ConsoleResponse, 0, len(consoles)),
	}
	for _, c := range consoles {
		resp.Consoles = append(resp.Consoles, *FromDomainConsole(c))
	}
	return resp
}
