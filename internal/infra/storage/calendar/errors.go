package calendar

import "errors"

var (
	// ErrAlreadyBlocked возвращается при повторной блокировке даты
	ErrAlreadyBlocked = errors.New("calendar.repository: date already blocked")

	// ErrHolidayExists возвращается, когда праздник на дату уже задан
	ErrHolidayExists = errors.New("calendar.repository: holiday already exists")

	// ErrHolidayNotFound возвращается, когда праздник не найден
	ErrHolidayNotFound = errors.New("calendar.repository: holiday not found")

	// ErrSlotTaken возвращается, когда слот уже забронирован
	ErrSlotTaken = errors.New("calendar.repository: slot already reserved")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("calendar.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("calendar.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("calendar.repository: failed to scan row")
)
