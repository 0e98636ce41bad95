package record_return

import "errors"

var (
	// ErrRentalNotFound возвращается, когда аренда не найдена
	ErrRentalNotFound = errors.New("record_return: rental not found")

	// ErrInvalidTransition возвращается, когда возврат уже принят
	ErrInvalidTransition = errors.New("record_return: return already recorded")

	// ErrConsoleBusy возвращается, когда консоль занята другой операцией дольше таймаута
	ErrConsoleBusy = errors.New("record_return: console is busy")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("record_return: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("record_return: internal error")
)
