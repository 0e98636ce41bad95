package telegram

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("telegram client: internal error")

	// ErrInvalidChat возвращается при отправке без получателя
	ErrInvalidChat = errors.New("telegram client: invalid chat id")

	// ErrRejected возвращается, когда Telegram отклонил сообщение
	// (бот заблокирован пользователем, чат не найден)
	ErrRejected = errors.New("telegram client: message rejected")
)
