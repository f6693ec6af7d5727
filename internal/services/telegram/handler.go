package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	greetingText      = "Привет!\nБот работает"
	payUsageText      = "Usage: /pay <amount> [currency]"
	createFailedText  = "Failed to create the payment. Please try again."
	paymentLinkFormat = "Your payment link: %s"
)

func (s *Service) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	msg := update.Message

	switch {
	case msg.IsCommand() && msg.Command() == "start":
		s.reply(msg.Chat.ID, greetingText)

	case msg.IsCommand() && msg.Command() == "pay":
		s.handlePay(ctx, msg)

	default:
		// Эхо на всё остальное
		s.reply(msg.Chat.ID, msg.Text)
	}
}

// handlePay создаёт платёж, отдаёт пользователю ссылку и запускает
// отслеживание платежа в отдельной горутине
func (s *Service) handlePay(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		s.reply(msg.Chat.ID, payUsageText)
		return
	}

	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil || amount <= 0 {
		s.reply(msg.Chat.ID, payUsageText)
		return
	}

	currency := s.cfg.DefaultCurrency
	if len(args) > 1 {
		currency = strings.ToUpper(args[1])
	}

	payment, err := s.payments.CreatePayment(ctx, amount, currency, msg.From.ID)
	if err != nil {
		s.log.Error("failed to create payment",
			"error", err,
			"account_id", msg.From.ID,
			"amount", amount,
		)
		s.reply(msg.Chat.ID, createFailedText)
		return
	}

	s.replyf(msg.Chat.ID, paymentLinkFormat, payment.Link)

	go s.payments.Watch(ctx, payment)
}
