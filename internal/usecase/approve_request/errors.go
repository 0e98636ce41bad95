package approve_request

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("approve_request: request not found")

	// ErrInvalidTransition возвращается, когда заявка уже рассмотрена
	ErrInvalidTransition = errors.New("approve_request: request is not pending")

	// ErrConsoleNotFound возвращается, когда консоль заявки удалена
	ErrConsoleNotFound = errors.New("approve_request: console not found")

	// ErrConsoleUnavailable возвращается, когда консоль уже в аренде
	ErrConsoleUnavailable = errors.New("approve_request: console is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("approve_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("approve_request: internal error")
)
