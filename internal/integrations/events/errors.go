package events

import "errors"

var (
	// ErrMarshal возвращается, когда событие не удалось сериализовать
	ErrMarshal = errors.New("events publisher: marshal event")

	// ErrSend возвращается, когда брокер не принял сообщение
	ErrSend = errors.New("events publisher: send message")
)
