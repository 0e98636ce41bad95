package get_available_slots

import "errors"

var (
	// ErrConsoleNotFound возвращается, когда консоль не найдена
	ErrConsoleNotFound = errors.New("get_available_slots: console not found")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("get_available_slots: date is in the past")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта бронирования клиента
	ErrDateTooFarInFuture = errors.New("get_available_slots: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
