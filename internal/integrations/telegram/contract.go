package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Sender часть tgbotapi.BotAPI, которой пользуется клиент
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
