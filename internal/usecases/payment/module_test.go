package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/pkg/metrics"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/cache"
	paymentPort "github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/payment"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/usecases/payment"
)

type fakeProvider struct {
	createOrderFn func(ctx context.Context, req paymentPort.CreateOrderRequest) (*paymentPort.Order, error)
	findOrderFn   func(ctx context.Context, invoiceID string) (*paymentPort.OrderStatus, error)
	cancelOrderFn func(ctx context.Context, orderID string) error

	createCalls int
	findCalls   int
	cancelCalls int
}

func (f *fakeProvider) CreateOrder(ctx context.Context, req paymentPort.CreateOrderRequest) (*paymentPort.Order, error) {
	f.createCalls++
	return f.createOrderFn(ctx, req)
}

func (f *fakeProvider) FindOrder(ctx context.Context, invoiceID string) (*paymentPort.OrderStatus, error) {
	f.findCalls++
	return f.findOrderFn(ctx, invoiceID)
}

func (f *fakeProvider) CancelOrder(ctx context.Context, orderID string) error {
	f.cancelCalls++
	if f.cancelOrderFn == nil {
		return nil
	}
	return f.cancelOrderFn(ctx, orderID)
}

type fakeNotifier struct {
	succeededCalls int
	failedCalls    int
	errorCalls     int

	lastPayment *domain.Payment
}

func (f *fakeNotifier) NotifyPaymentSucceeded(_ context.Context, p *domain.Payment) error {
	f.succeededCalls++
	f.lastPayment = p
	return nil
}

func (f *fakeNotifier) NotifyPaymentFailed(_ context.Context, p *domain.Payment) error {
	f.failedCalls++
	f.lastPayment = p
	return nil
}

func (f *fakeNotifier) NotifyPaymentError(_ context.Context, _ int64) error {
	f.errorCalls++
	return nil
}

type fakeAlerter struct {
	alerts []string
}

func (f *fakeAlerter) SendAlert(_ context.Context, message string) error {
	f.alerts = append(f.alerts, message)
	return nil
}

func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(provider *fakeProvider, notifier *fakeNotifier, cfg *payment.Config) *payment.Service {
	if cfg == nil {
		cfg = &payment.Config{Delay: 0, MaxAttempts: 5}
	}
	return payment.New(
		provider,
		notifier,
		nil,
		nil,
		metrics.New(prometheus.NewRegistry()),
		cfg,
		noopLogger(),
	)
}

func newPendingPayment() *domain.Payment {
	return &domain.Payment{
		ProviderID: "order-1",
		AccountID:  42,
		Amount:     100,
		Currency:   "USD",
		Link:       "https://orders.example/pay/1",
		Number:     "7",
		Status:     domain.PaymentStatusCreated,
		CreatedAt:  time.Now(),
	}
}

// statusSequence отдаёт статусы по порядку, последний повторяется
func statusSequence(codes ...int) func(context.Context, string) (*paymentPort.OrderStatus, error) {
	i := 0
	return func(context.Context, string) (*paymentPort.OrderStatus, error) {
		code := codes[len(codes)-1]
		if i < len(codes) {
			code = codes[i]
			i++
		}
		return &paymentPort.OrderStatus{StatusCode: code}, nil
	}
}

func TestCreatePayment_ReturnsPaymentWithLink(t *testing.T) {
	provider := &fakeProvider{
		createOrderFn: func(_ context.Context, req paymentPort.CreateOrderRequest) (*paymentPort.Order, error) {
			assert.Equal(t, 100.0, req.Amount)
			assert.Equal(t, "USD", req.Currency)
			assert.Equal(t, int64(42), req.AccountID)
			return &paymentPort.Order{ID: "order-1", URL: "https://orders.example/pay/1", Number: "7"}, nil
		},
	}
	svc := newTestService(provider, &fakeNotifier{}, nil)

	p, err := svc.CreatePayment(context.Background(), 100, "USD", 42)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCreated, p.Status)
	assert.Equal(t, "order-1", p.ProviderID)
	assert.Equal(t, "https://orders.example/pay/1", p.Link)
	assert.Equal(t, "7", p.Number)
	assert.Equal(t, int64(42), p.AccountID)
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreatePayment_RejectsInvalidInput(t *testing.T) {
	provider := &fakeProvider{}
	svc := newTestService(provider, &fakeNotifier{}, nil)

	_, err := svc.CreatePayment(context.Background(), 0, "USD", 42)
	require.Error(t, err)
	assert.True(t, domain.IsCreatePaymentError(err))

	_, err = svc.CreatePayment(context.Background(), -5, "USD", 42)
	require.Error(t, err)
	assert.True(t, domain.IsCreatePaymentError(err))

	_, err = svc.CreatePayment(context.Background(), 100, "", 42)
	require.Error(t, err)
	assert.True(t, domain.IsCreatePaymentError(err))

	// До шлюза невалидный запрос дойти не должен
	assert.Equal(t, 0, provider.createCalls)
}

func TestCreatePayment_WrapsGatewayError(t *testing.T) {
	provider := &fakeProvider{
		createOrderFn: func(context.Context, paymentPort.CreateOrderRequest) (*paymentPort.Order, error) {
			return nil, domain.NewGatewayError("create order", fmt.Errorf("boom"))
		},
	}
	svc := newTestService(provider, &fakeNotifier{}, nil)

	p, err := svc.CreatePayment(context.Background(), 100, "USD", 42)

	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, domain.IsCreatePaymentError(err))
	assert.True(t, domain.IsGatewayError(err))
}

func TestWaitForPayment_SucceedsOnFirstAttempt(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(domain.OrderStatusCompleted),
	}
	svc := newTestService(provider, &fakeNotifier{}, nil)
	p := newPendingPayment()

	resolved, err := svc.WaitForPayment(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, resolved.Status)
	assert.Equal(t, 1, provider.findCalls)
	assert.Equal(t, 0, provider.cancelCalls)
}

func TestWaitForPayment_DeclinedKeepsGatewayReason(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: func(context.Context, string) (*paymentPort.OrderStatus, error) {
			return &paymentPort.OrderStatus{
				StatusCode: domain.OrderStatusDeclined,
				Reason:     "InsufficientFunds",
			}, nil
		},
	}
	svc := newTestService(provider, &fakeNotifier{}, nil)

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, resolved.Status)
	assert.Equal(t, "InsufficientFunds", resolved.CancelReason)
	assert.Equal(t, 0, provider.cancelCalls)
}

func TestWaitForPayment_PendingThenSucceeds(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(
			domain.OrderStatusAwaiting,
			domain.OrderStatusAwaiting,
			domain.OrderStatusCompleted,
		),
	}
	svc := newTestService(provider, &fakeNotifier{}, nil)

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, resolved.Status)
	assert.Equal(t, 3, provider.findCalls)
	assert.Equal(t, 0, provider.cancelCalls)
}

func TestWaitForPayment_ExhaustsAttemptsAndCancels(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(domain.OrderStatusAwaiting),
		cancelOrderFn: func(_ context.Context, orderID string) error {
			assert.Equal(t, "order-1", orderID)
			return nil
		},
	}
	svc := newTestService(provider, &fakeNotifier{}, &payment.Config{Delay: 0, MaxAttempts: 3})

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusTimedOut, resolved.Status)
	assert.Equal(t, domain.CancelReasonMaxAttempts, resolved.CancelReason)
	assert.Equal(t, 3, provider.findCalls)
	assert.Equal(t, 1, provider.cancelCalls)
}

func TestWaitForPayment_SucceedsOnFinalAttempt(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(
			domain.OrderStatusAwaiting,
			domain.OrderStatusAwaiting,
			domain.OrderStatusCompleted,
		),
	}
	svc := newTestService(provider, &fakeNotifier{}, &payment.Config{Delay: 0, MaxAttempts: 3})

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, resolved.Status)
	assert.Equal(t, 0, provider.cancelCalls)
}

func TestWaitForPayment_NoModelDoesNotTouchStatus(t *testing.T) {
	seen := []domain.PaymentStatus{}
	p := newPendingPayment()

	provider := &fakeProvider{
		findOrderFn: func(context.Context, string) (*paymentPort.OrderStatus, error) {
			seen = append(seen, p.Status)
			return nil, domain.ErrOrderNotStarted
		},
	}
	svc := newTestService(provider, &fakeNotifier{}, &payment.Config{Delay: 0, MaxAttempts: 3})

	resolved, err := svc.WaitForPayment(context.Background(), p)

	require.NoError(t, err)
	// Пока модели нет, платёж остаётся created
	assert.Equal(t, []domain.PaymentStatus{
		domain.PaymentStatusCreated,
		domain.PaymentStatusCreated,
		domain.PaymentStatusCreated,
	}, seen)
	assert.Equal(t, domain.PaymentStatusTimedOut, resolved.Status)
}

func TestWaitForPayment_TransientErrorsConsumeAttempts(t *testing.T) {
	attempt := 0
	provider := &fakeProvider{
		findOrderFn: func(context.Context, string) (*paymentPort.OrderStatus, error) {
			attempt++
			if attempt < 3 {
				return nil, domain.NewGatewayError("find order", fmt.Errorf("http 502"))
			}
			return &paymentPort.OrderStatus{StatusCode: domain.OrderStatusCompleted}, nil
		},
	}
	svc := newTestService(provider, &fakeNotifier{}, &payment.Config{Delay: 0, MaxAttempts: 3})

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, resolved.Status)
	assert.Equal(t, 3, provider.findCalls)
}

func TestWaitForPayment_UnknownStatusCodeAlerts(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(99),
	}
	alerter := &fakeAlerter{}
	svc := newTestService(provider, &fakeNotifier{}, &payment.Config{Delay: 0, MaxAttempts: 2})
	svc.Alerter = alerter

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())

	require.NoError(t, err)
	// Неизвестный код не терминален: цикл дорабатывает до таймаута
	assert.Equal(t, domain.PaymentStatusTimedOut, resolved.Status)
	assert.NotEmpty(t, alerter.alerts)
}

func TestWaitForPayment_TerminalPaymentIsNotPolledAgain(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(domain.OrderStatusCompleted),
	}
	svc := newTestService(provider, &fakeNotifier{}, nil)
	p := newPendingPayment()
	p.Status = domain.PaymentStatusSucceeded

	resolved, err := svc.WaitForPayment(context.Background(), p)

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusSucceeded, resolved.Status)
	assert.Equal(t, 0, provider.findCalls)
	assert.Equal(t, 0, provider.cancelCalls)
}

func TestWaitForPayment_CancelFailureReturnsPaymentAndError(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(domain.OrderStatusAwaiting),
		cancelOrderFn: func(context.Context, string) error {
			return domain.NewGatewayError("cancel order", fmt.Errorf("http 500"))
		},
	}
	alerter := &fakeAlerter{}
	svc := newTestService(provider, &fakeNotifier{}, &payment.Config{Delay: 0, MaxAttempts: 2})
	svc.Alerter = alerter

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCancelNotConfirmed))
	// Платёж всё равно терминален, несмотря на неподтверждённую отмену
	require.NotNil(t, resolved)
	assert.Equal(t, domain.PaymentStatusTimedOut, resolved.Status)
	assert.Equal(t, domain.CancelReasonMaxAttempts, resolved.CancelReason)
	assert.NotEmpty(t, alerter.alerts)
}

func TestWaitForPayment_ShutdownCancelsOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	provider := &fakeProvider{}
	provider.findOrderFn = func(context.Context, string) (*paymentPort.OrderStatus, error) {
		cancel() // контекст умирает между попытками
		return nil, domain.ErrOrderNotStarted
	}
	provider.cancelOrderFn = func(cancelCtx context.Context, _ string) error {
		// Отмена должна доехать до шлюза на живом контексте
		assert.NoError(t, cancelCtx.Err())
		return nil
	}

	svc := newTestService(provider, &fakeNotifier{}, &payment.Config{Delay: time.Minute, MaxAttempts: 100})

	resolved, err := svc.WaitForPayment(ctx, newPendingPayment())

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCancelled, resolved.Status)
	assert.Equal(t, domain.CancelReasonShutdown, resolved.CancelReason)
	assert.Equal(t, 1, provider.findCalls)
	assert.Equal(t, 1, provider.cancelCalls)
}

func TestWatch_NotifiesAboutOutcome(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		wantSucceeded int
		wantFailed    int
	}{
		{name: "completed", statusCode: domain.OrderStatusCompleted, wantSucceeded: 1},
		{name: "declined", statusCode: domain.OrderStatusDeclined, wantFailed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{
				findOrderFn: statusSequence(tt.statusCode),
			}
			notifier := &fakeNotifier{}
			svc := newTestService(provider, notifier, nil)

			svc.Watch(context.Background(), newPendingPayment())

			assert.Equal(t, tt.wantSucceeded, notifier.succeededCalls)
			assert.Equal(t, tt.wantFailed, notifier.failedCalls)
			assert.Equal(t, 0, notifier.errorCalls)
		})
	}
}

func TestWatch_TimeoutNotifiesAsFailed(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(domain.OrderStatusAwaiting),
	}
	notifier := &fakeNotifier{}
	svc := newTestService(provider, notifier, &payment.Config{Delay: 0, MaxAttempts: 2})

	svc.Watch(context.Background(), newPendingPayment())

	assert.Equal(t, 1, notifier.failedCalls)
	require.NotNil(t, notifier.lastPayment)
	assert.Equal(t, domain.PaymentStatusTimedOut, notifier.lastPayment.Status)
}

func TestWaitForPayment_TracksTerminalState(t *testing.T) {
	provider := &fakeProvider{
		findOrderFn: statusSequence(domain.OrderStatusCompleted),
	}
	tracker := cache.NewInMemoryCache()
	svc := newTestService(provider, &fakeNotifier{}, nil)
	svc.Tracker = tracker

	resolved, err := svc.WaitForPayment(context.Background(), newPendingPayment())
	require.NoError(t, err)

	raw, err := tracker.Get(context.Background(), payment.TrackKey(resolved.Number))
	require.NoError(t, err)

	var tracked domain.Payment
	require.NoError(t, json.Unmarshal([]byte(raw), &tracked))
	assert.Equal(t, domain.PaymentStatusSucceeded, tracked.Status)
	assert.Equal(t, resolved.Number, tracked.Number)
}
