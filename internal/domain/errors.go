package domain

import (
	"errors"
	"fmt"
)

// ErrOrderNotStarted шлюз ответил без модели заказа: пользователь ещё не открыл
// ссылку и не ввёл данные карты. Это не ошибка транспорта, платёж просто ждём дальше.
var ErrOrderNotStarted = errors.New("order not started by user")

// ErrCancelNotConfirmed принудительная отмена после исчерпания попыток не дошла
// до шлюза. Платёж всё равно считается timed_out, но гарантия отмены ослаблена.
var ErrCancelNotConfirmed = errors.New("order cancellation not confirmed by gateway")

// GatewayError ошибка обращения к платёжному шлюзу: транспорт, не-2xx ответ
// или тело, которое не удалось разобрать. Во время опроса считается транзиентной.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

func NewGatewayError(op string, err error) error {
	return &GatewayError{Op: op, Err: err}
}

func IsGatewayError(err error) bool {
	var gatewayErr *GatewayError
	return errors.As(err, &gatewayErr)
}

// CreatePaymentError ошибка создания платежа, прокидывается наверх в бота.
// Создание не ретраится: пользователь должен запросить платёж заново.
type CreatePaymentError struct {
	Err error
}

func (e *CreatePaymentError) Error() string {
	return fmt.Sprintf("create payment: %v", e.Err)
}

func (e *CreatePaymentError) Unwrap() error {
	return e.Err
}

func WrapCreatePaymentError(err error) error {
	if err == nil {
		return nil
	}
	return &CreatePaymentError{Err: err}
}

func IsCreatePaymentError(err error) bool {
	var createErr *CreatePaymentError
	return errors.As(err, &createErr)
}
