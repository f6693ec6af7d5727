package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus статус платежа в его жизненном цикле.
// Переходы только вперёд: created → pending → терминальный статус.
type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"   // заказ создан, ссылка отдана пользователю
	PaymentStatusPending   PaymentStatus = "pending"   // пользователь ввёл карту, ждём подтверждения
	PaymentStatusSucceeded PaymentStatus = "succeeded" // оплата прошла
	PaymentStatusFailed    PaymentStatus = "failed"    // шлюз явно отклонил платёж
	PaymentStatusTimedOut  PaymentStatus = "timed_out" // бот потратил все попытки опроса, заказ отменён
	PaymentStatusCancelled PaymentStatus = "cancelled" // опрос прерван (shutdown), заказ отменён
)

// IsTerminal сообщает, что из статуса больше нет переходов
func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusTimedOut, PaymentStatusCancelled:
		return true
	}
	return false
}

// Коды статусов заказа в CloudPayments
const (
	OrderStatusAwaiting  = 1 // в платёж перешли и ввели карту, но не подтвердили
	OrderStatusCompleted = 2 // платёж прошёл успешно
	OrderStatusDeclined  = 5 // платёж явно отклонён
)

// Причины отмены с нашей стороны
const (
	CancelReasonMaxAttempts = "max attempts exceeded"
	CancelReasonShutdown    = "shutdown"
)

// Payment одна попытка пополнения баланса.
// Все поля кроме Status и CancelReason заполняются при создании и дальше не меняются;
// Status и CancelReason мутирует только payment use case.
type Payment struct {
	ID           uuid.UUID     `json:"id"`
	ProviderID   string        `json:"provider_id"` // id заказа на стороне шлюза
	AccountID    int64         `json:"account_id"`  // telegram user id
	Amount       float64       `json:"amount"`
	Currency     string        `json:"currency"`
	Link         string        `json:"link"`   // ссылка, по которой пользователь платит
	Number       string        `json:"number"` // номер инвойса, ключ для опроса
	Status       PaymentStatus `json:"status"`
	CancelReason string        `json:"cancel_reason,omitempty"` // только для неуспешных терминальных статусов
	CreatedAt    time.Time     `json:"created_at"`
}

// IsTerminal сообщает, что платёж дорешался до конца
func (p *Payment) IsTerminal() bool {
	return p.Status.IsTerminal()
}
