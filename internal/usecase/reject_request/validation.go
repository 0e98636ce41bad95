package reject_request

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-ConsoleRental/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.RequestID) == "" {
		return fmt.Errorf("%w: requestID is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxReasonLength)
	}

	return nil
}
