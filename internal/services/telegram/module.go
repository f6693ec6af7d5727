package telegram

import (
	"context"
	"fmt"

	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/usecase"
)

type Config struct {
	Token           string `envconfig:"TOKEN" required:"true"`
	UpdateTimeout   int    `envconfig:"UPDATE_TIMEOUT" default:"60"`
	DefaultCurrency string `envconfig:"DEFAULT_CURRENCY" default:"USD"`
}

// Service фронтенд бота: принимает команды, отдаёт ссылку на оплату
// и отчитывается о терминальных исходах платежей (реализует INotifierService)
type Service struct {
	bot      *tgbotapi.BotAPI
	payments usecase.IPaymentUseCase
	cfg      *Config
	log      *slog.Logger
}

func New(bot *tgbotapi.BotAPI, cfg *Config, log *slog.Logger) *Service {
	return &Service{
		bot: bot,
		cfg: cfg,
		log: log,
	}
}

// SetPaymentUseCase устанавливает payment use case после создания
// (use case и сервис ссылаются друг на друга через порты)
func (s *Service) SetPaymentUseCase(payments usecase.IPaymentUseCase) {
	s.payments = payments
}

// Run запускает long polling обновлений Telegram.
// Блокируется до отмены контекста
func (s *Service) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = s.cfg.UpdateTimeout

	updates := s.bot.GetUpdatesChan(u)

	s.log.Info("telegram bot started", "username", s.bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			s.bot.StopReceivingUpdates()
			s.log.Info("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram updates channel closed")
			}
			s.handleUpdate(ctx, update)
		}
	}
}
