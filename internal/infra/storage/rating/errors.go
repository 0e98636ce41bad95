package rating

import "errors"

var (
	// ErrAlreadyRated возвращается, когда аренда уже оценена вручную
	ErrAlreadyRated = errors.New("rating.repository: rental already rated")

	// ErrRatingNotFound возвращается, когда рейтинг пользователя еще не рассчитан
	ErrRatingNotFound = errors.New("rating.repository: rating not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rating.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rating.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rating.repository: failed to scan row")
)
