package payment

import (
	"context"
)

// IPaymentProvider интерфейс платёжного шлюза (CloudPayments и т.д.)
// Use case зависит только от этого интерфейса, не зная деталей реализации
type IPaymentProvider interface {
	// CreateOrder создаёт заказ на оплату и возвращает ссылку для пользователя.
	// Любая ошибка транспорта, не-2xx ответ или неполное тело — GatewayError,
	// частичного успеха не бывает.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)

	// FindOrder возвращает текущий статус заказа по номеру инвойса.
	// Если пользователь ещё не открыл ссылку, шлюз отвечает без модели —
	// тогда возвращается domain.ErrOrderNotStarted, это не GatewayError.
	FindOrder(ctx context.Context, invoiceID string) (*OrderStatus, error)

	// CancelOrder отменяет заказ на стороне шлюза, чтобы его нельзя было
	// оплатить после того, как бот перестал его ждать. Best effort.
	CancelOrder(ctx context.Context, orderID string) error
}

// CreateOrderRequest запрос на создание заказа
type CreateOrderRequest struct {
	Amount      float64
	Currency    string
	Description string
	AccountID   int64
}

// Order созданный заказ: всё, что нужно для отслеживания платежа
type Order struct {
	ID     string // id заказа на стороне шлюза
	URL    string // ссылка на оплату для пользователя
	Number string // номер инвойса, ключ для FindOrder
}

// OrderStatus статус заказа по данным шлюза
type OrderStatus struct {
	StatusCode int
	Reason     string // заполнен при явном отклонении
}
