package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
)

func TestPaymentStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status domain.PaymentStatus
		want   bool
	}{
		{domain.PaymentStatusCreated, false},
		{domain.PaymentStatusPending, false},
		{domain.PaymentStatusSucceeded, true},
		{domain.PaymentStatusFailed, true},
		{domain.PaymentStatusTimedOut, true},
		{domain.PaymentStatusCancelled, true},
		{domain.PaymentStatus("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestGatewayError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := domain.NewGatewayError("find order", inner)

	assert.True(t, domain.IsGatewayError(err))
	assert.True(t, errors.Is(err, inner))
	assert.Contains(t, err.Error(), "find order")
}

func TestCreatePaymentError_Wrap(t *testing.T) {
	assert.Nil(t, domain.WrapCreatePaymentError(nil))

	inner := domain.NewGatewayError("create order", fmt.Errorf("http 500"))
	err := domain.WrapCreatePaymentError(inner)

	assert.True(t, domain.IsCreatePaymentError(err))
	// Обёртка не прячет природу ошибки шлюза
	assert.True(t, domain.IsGatewayError(err))
}
