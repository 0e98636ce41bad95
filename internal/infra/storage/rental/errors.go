package rental

import "errors"

var (
	// ErrRentalNotFound возвращается, когда аренда не найдена
	ErrRentalNotFound = errors.New("rental.repository: rental not found")

	// ErrConsoleBusy возвращается, когда у консоли уже есть активная аренда
	ErrConsoleBusy = errors.New("rental.repository: console already has an active rental")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rental.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rental.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rental.repository: failed to scan row")
)
