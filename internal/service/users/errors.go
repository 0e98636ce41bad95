package users

import "errors"

var (
	// ErrUserNotFound возвращается, когда клиент не найден
	ErrUserNotFound = errors.New("users: user not found")

	// ErrUserExists возвращается при повторной регистрации
	ErrUserExists = errors.New("users: user already registered")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("users: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
