package confirm_location

import "errors"

var (
	// ErrUserNotFound возвращается, когда клиент не найден
	ErrUserNotFound = errors.New("confirm_location: user not found")

	// ErrNoPendingVerification возвращается, когда клиент не ожидает отправки геопозиции
	ErrNoPendingVerification = errors.New("confirm_location: no rental awaits location")

	// ErrRentalNotFound возвращается, когда аренда проверки не найдена
	ErrRentalNotFound = errors.New("confirm_location: rental not found")

	// ErrInvalidTransition возвращается, когда аренда уже завершена
	ErrInvalidTransition = errors.New("confirm_location: rental is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_location: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_location: internal error")
)
