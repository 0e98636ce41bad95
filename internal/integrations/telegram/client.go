package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram ограничивает бота примерно 30 сообщениями в секунду
const (
	DefaultMessagesPerSecond = 25
	defaultBurst             = 5
)

// Client отправляет уведомления клиентам и администратору через Telegram бота
type Client struct {
	sender  Sender
	limiter *rate.Limiter
	log     Logger
}

// NewClient авторизует бота по токену
func NewClient(token string, messagesPerSecond float64, log Logger) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to authorize bot: %v", ErrInternal, err)
	}

	log.Info("Telegram bot authorized: username=%s", bot.Self.UserName)
	return NewClientWithSender(bot, messagesPerSecond, log), nil
}

// NewClientWithSender создает клиент поверх готового отправителя
func NewClientWithSender(sender Sender, messagesPerSecond float64, log Logger) *Client {
	if messagesPerSecond <= 0 {
		messagesPerSecond = DefaultMessagesPerSecond
	}
	return &Client{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(messagesPerSecond), defaultBurst),
		log:     log,
	}
}

// SendMessage отправляет текстовое сообщение в чат
// Telegram ID клиента совпадает с ID его личного чата с ботом
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if chatID == 0 {
		return ErrInvalidChat
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrInternal, err)
	}

	if _, err := c.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		var apiErr *tgbotapi.Error
		if errors.As(err, &apiErr) {
			c.log.Warn("Telegram rejected message for chat_id=%d: code=%d, %s", chatID, apiErr.Code, apiErr.Message)
			return fmt.Errorf("%w: code=%d: %s", ErrRejected, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("%w: failed to send message: %v", ErrInternal, err)
	}

	return nil
}

// Nop заглушка для запуска без токена бота
type Nop struct {
	log Logger
}

func NewNop(log Logger) *Nop {
	return &Nop{log: log}
}

func (n *Nop) SendMessage(_ context.Context, chatID int64, text string) error {
	n.log.Info("Telegram disabled, message dropped: chat_id=%d, text=%q", chatID, text)
	return nil
}
