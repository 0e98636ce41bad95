package quote_price

import (
	"fmt"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ConsoleID == "" {
		return fmt.Errorf("%w: consoleID is required", ErrInvalidInput)
	}

	if req.Hours < domain.MinRentalHours || req.Hours > domain.MaxRentalHoursLimit {
		return fmt.Errorf("%w: hours must be between %d and %d", ErrInvalidInput, domain.MinRentalHours, domain.MaxRentalHoursLimit)
	}

	if req.UserID != nil && *req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	return nil
}
