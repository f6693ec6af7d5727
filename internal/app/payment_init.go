package app

import (
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/pkg/metrics"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/cache"
	paymentPort "github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/payment"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/service"
	telegramService "github.com/genius-paulo/telegram-cloudpayments-polling/internal/services/telegram"
	paymentUsecase "github.com/genius-paulo/telegram-cloudpayments-polling/internal/usecases/payment"
)

// initPayment собирает payment use case и замыкает его на telegram-сервис
// (сервис шлёт команды в use case, use case отчитывается через сервис)
func (a *App) initPayment(
	provider paymentPort.IPaymentProvider,
	tgService *telegramService.Service,
	alerter service.IAlerterService,
	tracker cache.Cache,
	m *metrics.Metrics,
) *paymentUsecase.Service {
	payments := paymentUsecase.New(
		provider,
		tgService,
		alerter,
		tracker,
		m,
		a.Cfg.Poller,
		a.Log,
	)

	tgService.SetPaymentUseCase(payments)

	return payments
}
