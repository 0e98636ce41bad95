package book_console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ConsoleID) == "" {
		return fmt.Errorf("%w: consoleID is required", ErrInvalidInput)
	}

	if req.SelectedHours != nil && *req.SelectedHours < domain.MinRentalHours {
		return fmt.Errorf("%w: at least %d hour is required", ErrInvalidInput, domain.MinRentalHours)
	}

	return nil
}

// validateHours проверяет длительность по лимиту из настроек
// Аренда без срока лимитом не ограничивается
func validateHours(hours *int, settings *domain.AdminSettings) error {
	if hours != nil && *hours > settings.MaxRentalHours {
		return fmt.Errorf("%w: rental is limited to %d hours", ErrInvalidInput, settings.MaxRentalHours)
	}
	return nil
}

// formatHours длительность для логов
func formatHours(hours *int) string {
	if hours == nil {
		return "open"
	}
	return strconv.Itoa(*hours)
}

// checkUser проверяет, что клиент может арендовать
func checkUser(user *domain.User) error {
	if !user.CanRent() {
		return ErrUserBanned
	}
	return nil
}
