package book_console

import "errors"

var (
	// ErrConsoleNotFound возвращается, когда консоль не найдена
	ErrConsoleNotFound = errors.New("book_console: console not found")

	// ErrConsoleUnavailable возвращается, когда консоль уже в аренде
	ErrConsoleUnavailable = errors.New("book_console: console is not available")

	// ErrConsoleHeld возвращается, когда консоль временно удерживается другим клиентом
	ErrConsoleHeld = errors.New("book_console: console is held by another user")

	// ErrUserNotFound возвращается, когда клиент не зарегистрирован
	ErrUserNotFound = errors.New("book_console: user not found")

	// ErrUserBanned возвращается для заблокированного клиента
	ErrUserBanned = errors.New("book_console: user is banned")

	// ErrApprovalRequired возвращается, когда прямое бронирование выключено настройками
	ErrApprovalRequired = errors.New("book_console: rentals require admin approval")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_console: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_console: internal error")
)
