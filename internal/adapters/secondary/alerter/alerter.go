package alerter

import (
	"context"
	"fmt"

	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client клиент для отправки алертов в служебный Telegram-чат.
// Использует отдельного бота, чтобы не зависеть от основного
type Client struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *slog.Logger
}

// NewClient создаёт новый клиент для отправки алертов
func NewClient(cfg *Config, log *slog.Logger) (*Client, error) {
	if cfg == nil || cfg.BotToken == "" {
		return nil, fmt.Errorf("alerter is not configured")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create alerter bot: %w", err)
	}

	return &Client{
		bot:    bot,
		chatID: cfg.ChatID,
		log:    log,
	}, nil
}

// SendAlert отправляет алерт в Telegram-чат
func (c *Client) SendAlert(ctx context.Context, message string) error {
	if c == nil || c.bot == nil {
		return fmt.Errorf("alerter client is not initialized")
	}

	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = tgbotapi.ModeMarkdown

	if _, err := c.bot.Send(msg); err != nil {
		c.log.Warn("failed to send alert",
			"error", err,
			"chat_id", c.chatID,
		)
		return fmt.Errorf("failed to send alert: %w", err)
	}

	c.log.Debug("alert sent successfully", "chat_id", c.chatID)
	return nil
}
