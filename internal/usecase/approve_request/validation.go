package approve_request

import (
	"fmt"
	"strings"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.RequestID) == "" {
		return fmt.Errorf("%w: requestID is required", ErrInvalidInput)
	}
	return nil
}
