package rentals

import "errors"

var (
	// ErrRentalNotFound возвращается, когда аренда не найдена
	ErrRentalNotFound = errors.New("rentals: rental not found")

	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("rentals: rental request not found")

	// ErrAccessDenied возвращается, когда клиент запрашивает чужую аренду
	ErrAccessDenied = errors.New("rentals: access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("rentals: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rentals: internal error")
)
