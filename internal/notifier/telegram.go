package notifier

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends each notification as a message to one chat. The bot client
// is created on the first delivery, so building a Telegram never touches the
// network.
type Telegram struct {
	token    string
	endpoint string
	chatID   int64

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	return NewTelegramWithEndpoint(token, tgbotapi.APIEndpoint, chatID)
}

// NewTelegramWithEndpoint talks to a custom Bot API endpoint, a format string
// taking the token and the method name.
func NewTelegramWithEndpoint(token, endpoint string, chatID int64) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("telegram bot token is not configured")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is not configured")
	}
	return &Telegram{token: token, endpoint: endpoint, chatID: chatID}, nil
}

// client connects on first use. A failed connection is retried on the next
// delivery.
func (t *Telegram) client() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(t.token, t.endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	t.bot = bot
	return bot, nil
}

func (t *Telegram) Deliver(ctx context.Context, title, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := t.client()
	if err != nil {
		return err
	}

	text := fmt.Sprintf("<b>%s</b>\n%s", html.EscapeString(title), html.EscapeString(body))
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}
