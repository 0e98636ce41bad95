package console

import "errors"

var (
	// ErrConsoleNotFound возвращается, когда консоль не найдена
	ErrConsoleNotFound = errors.New("console.repository: console not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("console.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("console.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("console.repository: failed to scan row")
)
