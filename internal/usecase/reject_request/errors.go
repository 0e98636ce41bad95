package reject_request

import "errors"

var (
	// ErrRequestNotFound возвращается, когда заявка не найдена
	ErrRequestNotFound = errors.New("reject_request: request not found")

	// ErrInvalidTransition возвращается, когда заявка уже рассмотрена
	ErrInvalidTransition = errors.New("reject_request: request is not pending")

	// ErrConsoleBusy возвращается, когда консоль занята другой операцией дольше таймаута
	ErrConsoleBusy = errors.New("reject_request: console is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reject_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reject_request: internal error")
)
