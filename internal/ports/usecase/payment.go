package usecase

import (
	"context"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
)

// IPaymentUseCase интерфейс для работы с платежами (use case слой).
// Это единственные точки входа в ядро со стороны фронтенда
type IPaymentUseCase interface {
	// CreatePayment создаёт заказ в шлюзе и возвращает платёж со ссылкой на оплату.
	// При любой ошибке создания возвращает CreatePaymentError, ретраев нет
	CreatePayment(ctx context.Context, amount float64, currency string, accountID int64) (*domain.Payment, error)

	// WaitForPayment опрашивает шлюз до терминального статуса платежа.
	// Обычные исходы (успех, отказ, таймаут) — нормальные возвраты, не ошибки
	WaitForPayment(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)

	// Watch ждёт платёж и отчитывается о результате через notifier.
	// Запускается отдельной горутиной на каждый платёж
	Watch(ctx context.Context, payment *domain.Payment)
}
