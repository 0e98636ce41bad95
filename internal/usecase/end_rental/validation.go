package end_rental

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.RentalID) == "" {
		return fmt.Errorf("%w: rentalID is required", ErrInvalidInput)
	}

	if !req.IsAdmin && req.CallerID <= 0 {
		return fmt.Errorf("%w: callerID must be positive", ErrInvalidInput)
	}

	return nil
}

// checkRental проверяет, что вызывающий может завершить аренду
func checkRental(rental *domain.Rental, req *Request) error {
	if !req.IsAdmin && rental.UserID != req.CallerID {
		return ErrNotOwner
	}

	if !rental.IsActive() {
		return ErrAlreadyEnded
	}

	return nil
}
