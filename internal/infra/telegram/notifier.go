// Package telegram pushes pipeline digests through the Telegram bot API.
package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/homeant/todify/internal/pkg/config"
)

// Notifier sends messages to one chat. A disabled notifier drops messages
// silently so callers never need to branch on configuration.
type Notifier struct {
	http    *resty.Client
	chatID  string
	enabled bool
}

// NewNotifier creates the notifier from config.
func NewNotifier(cfg config.TelegramConfig) *Notifier {
	http := resty.New().
		SetBaseURL(fmt.Sprintf("https://api.telegram.org/bot%s", cfg.BotToken)).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(time.Second)

	return &Notifier{
		http:    http,
		chatID:  cfg.ChatID,
		enabled: cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != "",
	}
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage sends one markdown-formatted message.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	if !n.enabled {
		log.Debug().Msg("Telegram notifier disabled, dropping message")
		return nil
	}

	var out sendMessageResponse
	resp, err := n.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"chat_id":    n.chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		SetResult(&out).
		SetError(&out).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	if resp.IsError() || !out.OK {
		return fmt.Errorf("send telegram message: %s", out.Description)
	}

	return nil
}
