package submit_request

import "errors"

var (
	// ErrConsoleNotFound возвращается, когда консоль не найдена
	ErrConsoleNotFound = errors.New("submit_request: console not found")

	// ErrConsoleUnavailable возвращается, когда консоль уже в аренде
	ErrConsoleUnavailable = errors.New("submit_request: console is not available")

	// ErrConsoleHeld возвращается, когда консоль временно удерживается другим клиентом
	ErrConsoleHeld = errors.New("submit_request: console is held by another user")

	// ErrUserNotFound возвращается, когда клиент не зарегистрирован
	ErrUserNotFound = errors.New("submit_request: user not found")

	// ErrUserBanned возвращается для заблокированного клиента
	ErrUserBanned = errors.New("submit_request: user is banned")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_request: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_request: internal error")
)
