package end_rental

import "github.com/m04kA/SMC-ConsoleRental/internal/service/rentals/models"

// Request модель запроса на завершение аренды
type Request struct {
	RentalID string
	CallerID int64
	IsAdmin  bool // администратор может завершить любую аренду
}

// Response завершенная аренда и количество оплаченных часов
type Response struct {
	Rental      *models.RentalResponse `json:"rental"`
	BilledHours int                    `json:"billedHours"`
}
