package book_console

import bookConsole "github.com/m04kA/SMC-ConsoleRental/internal/usecase/book_console"

// BookConsoleRequest HTTP запрос на прямую аренду
// Без hours аренда открывается без срока
type BookConsoleRequest struct {
	ConsoleID string `json:"consoleId" validate:"required"`
	Hours     *int   `json:"hours,omitempty" validate:"omitempty,min=1"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *BookConsoleRequest) ToUseCaseRequest(userID int64) *bookConsole.Request {
	return &bookConsole.Request{
		UserID:        userID,
		ConsoleID:     r.ConsoleID,
		SelectedHours: r.Hours,
	}
}
