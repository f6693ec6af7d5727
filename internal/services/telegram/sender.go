package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
)

// NotifyPaymentSucceeded сообщает пользователю об успешной оплате
func (s *Service) NotifyPaymentSucceeded(ctx context.Context, payment *domain.Payment) error {
	text := fmt.Sprintf("The payment %s was successful.\nThe amount: %v.",
		payment.Number, payment.Amount)
	return s.send(payment.AccountID, text)
}

// NotifyPaymentFailed сообщает пользователю о неуспешном платеже с причиной отмены
func (s *Service) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) error {
	text := fmt.Sprintf("The payment %s was made with an error.\nThe amount of %v has not been credited.\nReason: %s",
		payment.Number, payment.Amount, payment.CancelReason)
	return s.send(payment.AccountID, text)
}

// NotifyPaymentError общий путь "что-то пошло не так"
func (s *Service) NotifyPaymentError(ctx context.Context, accountID int64) error {
	return s.send(accountID, "Something went wrong with your payment. Please contact support.")
}

func (s *Service) send(chatID int64, text string) error {
	if _, err := s.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (s *Service) reply(chatID int64, text string) {
	if err := s.send(chatID, text); err != nil {
		s.log.Error("failed to reply", "error", err, "chat_id", chatID)
	}
}

func (s *Service) replyf(chatID int64, format string, args ...interface{}) {
	s.reply(chatID, fmt.Sprintf(format, args...))
}
