package availability

import "errors"

var (
	// ErrConsoleNotFound возвращается, когда консоль не найдена
	ErrConsoleNotFound = errors.New("availability: console not found")

	// ErrDateUnavailable возвращается, когда на дату нельзя бронировать
	ErrDateUnavailable = errors.New("availability: date is not available")

	// ErrSlotTaken возвращается, когда слот уже забронирован
	ErrSlotTaken = errors.New("availability: slot already reserved")

	// ErrAlreadyBlocked возвращается при повторной блокировке даты
	ErrAlreadyBlocked = errors.New("availability: date already blocked")

	// ErrNotBlocked возвращается при снятии несуществующей блокировки
	ErrNotBlocked = errors.New("availability: date is not blocked")

	// ErrHolidayExists возвращается, когда праздник на дату уже задан
	ErrHolidayExists = errors.New("availability: holiday already exists")

	// ErrHolidayNotFound возвращается, когда праздник не найден
	ErrHolidayNotFound = errors.New("availability: holiday not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
