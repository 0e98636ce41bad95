package discount

import "errors"

var (
	// ErrDiscountNotFound возвращается, когда скидка не найдена
	ErrDiscountNotFound = errors.New("discount.repository: discount not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("discount.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("discount.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("discount.repository: failed to scan row")
)
