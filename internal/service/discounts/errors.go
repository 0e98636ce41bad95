package discounts

import "errors"

var (
	// ErrDiscountNotFound возвращается, когда скидка не найдена
	ErrDiscountNotFound = errors.New("discounts: discount not found")

	// ErrConsoleNotFound возвращается, когда консоль скидки не найдена
	ErrConsoleNotFound = errors.New("discounts: console not found")

	// ErrInvalidInput возвращается при некорректных параметрах скидки
	ErrInvalidInput = errors.New("discounts: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("discounts: internal error")
)
