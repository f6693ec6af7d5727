package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/pkg/metrics"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/cache"
	paymentPort "github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/payment"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/service"
)

const orderDescription = "Top up your account"

type Config struct {
	// Итоговое время ожидания платежа = Delay * MaxAttempts
	Delay       time.Duration `envconfig:"DELAY" default:"3s"`
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" default:"100"`
}

// Service владеет жизненным циклом платежа: создание заказа, цикл опроса,
// терминальное разрешение и принудительная отмена
type Service struct {
	Provider paymentPort.IPaymentProvider
	Notifier service.INotifierService
	Alerter  service.IAlerterService // может быть nil
	Tracker  cache.Cache             // может быть nil
	Metrics  *metrics.Metrics
	Cfg      *Config
	Log      *slog.Logger
}

func New(
	provider paymentPort.IPaymentProvider,
	notifier service.INotifierService,
	alerter service.IAlerterService,
	tracker cache.Cache,
	m *metrics.Metrics,
	cfg *Config,
	log *slog.Logger,
) *Service {
	return &Service{
		Provider: provider,
		Notifier: notifier,
		Alerter:  alerter,
		Tracker:  tracker,
		Metrics:  m,
		Cfg:      cfg,
		Log:      log,
	}
}

// CreatePayment создаёт заказ в шлюзе и возвращает платёж со ссылкой на оплату.
// Любая ошибка фатальна для этой попытки создания и не ретраится
func (s *Service) CreatePayment(ctx context.Context, amount float64, currency string, accountID int64) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, domain.WrapCreatePaymentError(fmt.Errorf("amount must be positive, got %v", amount))
	}
	if currency == "" {
		return nil, domain.WrapCreatePaymentError(fmt.Errorf("currency is required"))
	}

	order, err := s.Provider.CreateOrder(ctx, paymentPort.CreateOrderRequest{
		Amount:      amount,
		Currency:    currency,
		Description: orderDescription,
		AccountID:   accountID,
	})
	if err != nil {
		s.Log.Error("failed to create order",
			"error", err,
			"account_id", accountID,
			"amount", amount,
		)
		return nil, domain.WrapCreatePaymentError(err)
	}

	payment := &domain.Payment{
		ID:         uuid.New(),
		ProviderID: order.ID,
		AccountID:  accountID,
		Amount:     amount,
		Currency:   currency,
		Link:       order.URL,
		Number:     order.Number,
		Status:     domain.PaymentStatusCreated,
		CreatedAt:  time.Now(),
	}

	s.Metrics.PaymentsCreated.Inc()
	s.trackPayment(ctx, payment)

	s.Log.Info("payment created",
		"payment_id", payment.ID,
		"number", payment.Number,
		"account_id", accountID,
		"amount", amount,
		"currency", currency,
	)

	return payment, nil
}

// WaitForPayment опрашивает шлюз раз в Delay до MaxAttempts раз, пока платёж
// не дойдёт до терминального статуса. Обычные исходы опроса (успех, отказ,
// таймаут) — нормальные возвраты; ошибка возвращается только вместе с платежом,
// когда принудительная отмена не подтвердилась шлюзом.
// Повторный вызов на уже терминальном платеже ничего не опрашивает и не отменяет
func (s *Service) WaitForPayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	if payment.IsTerminal() {
		return payment, nil
	}

	s.Log.Info("starting to poll payment",
		"number", payment.Number,
		"max_attempts", s.Cfg.MaxAttempts,
		"delay", s.Cfg.Delay,
	)

	for attempt := 1; attempt <= s.Cfg.MaxAttempts; attempt++ {
		status, err := s.Provider.FindOrder(ctx, payment.Number)
		s.Metrics.PollAttempts.Inc()

		switch {
		case errors.Is(err, domain.ErrOrderNotStarted):
			// Пользователь ещё не ввёл данные карты, статус не трогаем
			s.Log.Debug("order has no model yet",
				"number", payment.Number,
				"attempt", attempt,
			)

		case err != nil:
			// Транзиентная ошибка шлюза тратит попытку, но не прерывает цикл
			s.Metrics.GatewayErrors.Inc()
			s.Log.Warn("transient gateway error while polling",
				"error", err,
				"number", payment.Number,
				"attempt", attempt,
			)

		default:
			if done := s.applyOrderStatus(ctx, payment, status, attempt); done {
				return payment, nil
			}
		}

		if attempt < s.Cfg.MaxAttempts {
			if err := s.sleep(ctx); err != nil {
				return s.cancelPayment(ctx, payment, domain.PaymentStatusCancelled, domain.CancelReasonShutdown)
			}
		}
	}

	s.Log.Error("too much attempts for payment", "number", payment.Number)
	return s.cancelPayment(ctx, payment, domain.PaymentStatusTimedOut, domain.CancelReasonMaxAttempts)
}

// Watch ждёт терминального статуса платежа и отчитывается о результате.
// Запускается отдельной горутиной на каждый платёж: циклы разных платежей независимы
func (s *Service) Watch(ctx context.Context, payment *domain.Payment) {
	resolved, err := s.WaitForPayment(ctx, payment)
	if err != nil && !errors.Is(err, domain.ErrCancelNotConfirmed) {
		s.Log.Error("payment polling failed", "error", err, "number", payment.Number)
	}

	switch resolved.Status {
	case domain.PaymentStatusSucceeded:
		if err := s.Notifier.NotifyPaymentSucceeded(ctx, resolved); err != nil {
			s.Log.Error("failed to notify about successful payment", "error", err, "number", resolved.Number)
		}

	case domain.PaymentStatusFailed, domain.PaymentStatusTimedOut, domain.PaymentStatusCancelled:
		if err := s.Notifier.NotifyPaymentFailed(ctx, resolved); err != nil {
			s.Log.Error("failed to notify about failed payment", "error", err, "number", resolved.Number)
		}

	default:
		s.Log.Error("payment resolved without terminal status",
			"number", resolved.Number,
			"status", resolved.Status,
		)
		if err := s.Notifier.NotifyPaymentError(ctx, resolved.AccountID); err != nil {
			s.Log.Error("failed to notify about payment error", "error", err, "number", resolved.Number)
		}
	}
}

// applyOrderStatus интерпретирует код статуса из шлюза.
// Возвращает true, когда платёж дорешался до терминального статуса
func (s *Service) applyOrderStatus(ctx context.Context, payment *domain.Payment, status *paymentPort.OrderStatus, attempt int) bool {
	switch status.StatusCode {
	case domain.OrderStatusCompleted:
		payment.Status = domain.PaymentStatusSucceeded
		s.finishPayment(ctx, payment)
		s.Log.Info("payment was successful", "number", payment.Number, "attempt", attempt)
		return true

	case domain.OrderStatusDeclined:
		payment.Status = domain.PaymentStatusFailed
		payment.CancelReason = status.Reason
		s.finishPayment(ctx, payment)
		s.Log.Info("payment was unsuccessful",
			"number", payment.Number,
			"reason", payment.CancelReason,
			"attempt", attempt,
		)
		return true

	case domain.OrderStatusAwaiting:
		// Транзиентный статус, на следующей итерации может смениться
		payment.Status = domain.PaymentStatusPending
		s.Log.Info("payment is pending", "number", payment.Number, "attempt", attempt)
		return false

	default:
		// Неизвестный код: для цикла это pending, но операторы должны увидеть
		s.Metrics.AnomalousStatuses.Inc()
		s.Log.Warn("gateway returned unknown status code",
			"status_code", status.StatusCode,
			"number", payment.Number,
			"attempt", attempt,
		)
		s.alert(ctx, fmt.Sprintf("⚠️ *Unknown payment status*\n\n*Number:* %s\n*StatusCode:* %d",
			payment.Number, status.StatusCode))
		return false
	}
}

// cancelPayment отменяет заказ на стороне шлюза и присваивает терминальный статус.
// Отмена делается до присвоения статуса, чтобы заказ нельзя было оплатить,
// когда бот его уже не ждёт
func (s *Service) cancelPayment(ctx context.Context, payment *domain.Payment, status domain.PaymentStatus, reason string) (*domain.Payment, error) {
	payment.CancelReason = reason

	// После shutdown родительский контекст уже мёртв, а отмену доставить надо
	cancelCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		cancelCtx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}

	cancelErr := s.Provider.CancelOrder(cancelCtx, payment.ProviderID)

	payment.Status = status
	s.finishPayment(ctx, payment)

	if cancelErr != nil {
		s.Metrics.CancelFailures.Inc()
		s.Log.Error("failed to cancel order, gateway may still complete it",
			"error", cancelErr,
			"number", payment.Number,
			"order_id", payment.ProviderID,
		)
		s.alert(ctx, fmt.Sprintf("⚠️ *Order cancellation failed*\n\n*Number:* %s\n*Error:* %s",
			payment.Number, cancelErr.Error()))
		return payment, fmt.Errorf("%w: %s", domain.ErrCancelNotConfirmed, cancelErr)
	}

	s.Log.Info("order cancelled",
		"number", payment.Number,
		"status", payment.Status,
		"reason", reason,
	)
	return payment, nil
}

// finishPayment фиксирует терминальный переход в метриках и трекере
func (s *Service) finishPayment(ctx context.Context, payment *domain.Payment) {
	s.Metrics.PaymentOutcomes.WithLabelValues(string(payment.Status)).Inc()
	s.trackPayment(ctx, payment)
}

func (s *Service) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.Cfg.Delay):
		return nil
	}
}

func (s *Service) alert(ctx context.Context, message string) {
	if s.Alerter == nil {
		return
	}
	if err := s.Alerter.SendAlert(ctx, message); err != nil {
		s.Log.Error("failed to send alert", "error", err)
	}
}
