package confirm_location

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Latitude < -90 || req.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrInvalidInput)
	}

	if req.Longitude < -180 || req.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrInvalidInput)
	}

	return nil
}
