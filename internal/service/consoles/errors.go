package consoles

import "errors"

var (
	// ErrConsoleNotFound возвращается, когда консоль не найдена
	ErrConsoleNotFound = errors.New("consoles: console not found")

	// ErrConsoleRented возвращается при удалении консоли с активной арендой
	ErrConsoleRented = errors.New("consoles: console has an active rental")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("consoles: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("consoles: internal error")
)
