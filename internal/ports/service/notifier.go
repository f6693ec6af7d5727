package service

import (
	"context"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
)

// INotifierService интерфейс для отчёта пользователю о терминальном исходе платежа.
// Реализуется telegram-фронтендом
type INotifierService interface {
	NotifyPaymentSucceeded(ctx context.Context, payment *domain.Payment) error
	NotifyPaymentFailed(ctx context.Context, payment *domain.Payment) error
	// NotifyPaymentError общий путь "что-то пошло не так" для аномальных исходов
	NotifyPaymentError(ctx context.Context, accountID int64) error
}
