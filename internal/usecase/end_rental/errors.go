package end_rental

import "errors"

var (
	// ErrRentalNotFound возвращается, когда аренда не найдена
	ErrRentalNotFound = errors.New("end_rental: rental not found")

	// ErrAlreadyEnded возвращается, когда аренда уже завершена
	ErrAlreadyEnded = errors.New("end_rental: rental already ended")

	// ErrNotOwner возвращается, когда клиент завершает чужую аренду
	ErrNotOwner = errors.New("end_rental: rental belongs to another user")

	// ErrConsoleBusy возвращается, когда консоль занята другой операцией дольше таймаута
	ErrConsoleBusy = errors.New("end_rental: console is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("end_rental: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("end_rental: internal error")
)
