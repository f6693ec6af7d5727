package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
)

const trackKeyPrefix = "payment:"

// TrackKey ключ платежа в кэше для HTTP-ручки статуса
func TrackKey(number string) string {
	return trackKeyPrefix + number
}

// trackPayment кладёт актуальное состояние платежа в кэш.
// TTL с запасом в один Delay, чтобы последний статус был виден после таймаута.
// Трекинг не влияет на жизненный цикл: ошибки только логируются
func (s *Service) trackPayment(ctx context.Context, payment *domain.Payment) {
	if s.Tracker == nil {
		return
	}

	data, err := json.Marshal(payment)
	if err != nil {
		s.Log.Warn("failed to marshal payment for tracking", "error", err, "number", payment.Number)
		return
	}

	ttl := s.Cfg.Delay*time.Duration(s.Cfg.MaxAttempts) + s.Cfg.Delay
	if err := s.Tracker.Set(ctx, TrackKey(payment.Number), string(data), ttl); err != nil {
		s.Log.Warn("failed to track payment", "error", err, "number", payment.Number)
	}
}
