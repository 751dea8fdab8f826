// Package channels holds the senders the delivery processor pushes messages through.
package channels

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	flowmodels "delivery_marketplace/internal/api/orderflow/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends messages through the Bot API.
type Telegram struct {
	bot *tgbotapi.BotAPI
}

// NewTelegram authenticates the bot with getMe. endpoint is a Bot API URL pattern such as
// tgbotapi.APIEndpoint; empty means the public API.
func NewTelegram(token, endpoint string, timeout time.Duration) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: bot}, nil
}

// Username is the bot's @username.
func (t *Telegram) Username() string {
	return t.bot.Self.UserName
}

// Message builds the sendMessage call for recipient. Numeric ids address any chat;
// @usernames address public groups and channels.
func Message(destinationType, recipient, text string) (tgbotapi.MessageConfig, error) {
	recipient = strings.TrimSpace(recipient)
	if id, err := strconv.ParseInt(recipient, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text), nil
	}
	if destinationType == flowmodels.DestinationTelegramUser {
		return tgbotapi.MessageConfig{}, fmt.Errorf("telegram user %q: bots can only message users by numeric id", recipient)
	}
	if recipient == "" || recipient == "@" {
		return tgbotapi.MessageConfig{}, fmt.Errorf("empty telegram recipient")
	}
	if !strings.HasPrefix(recipient, "@") {
		recipient = "@" + recipient
	}
	return tgbotapi.NewMessageToChannel(recipient, text), nil
}

// Send implements delivery.Sender.
func (t *Telegram) Send(ctx context.Context, destinationType, recipient, text string) error {
	msg, err := Message(destinationType, recipient, text)
	if err != nil {
		return err
	}
	msg.DisableWebPagePreview = true
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send to %s: %w", recipient, err)
	}
	return nil
}
