package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "topup_bot"

// Metrics счётчики цикла опроса платежей
type Metrics struct {
	PaymentsCreated   prometheus.Counter
	PollAttempts      prometheus.Counter
	PaymentOutcomes   *prometheus.CounterVec
	GatewayErrors     prometheus.Counter
	AnomalousStatuses prometheus.Counter
	CancelFailures    prometheus.Counter
}

// New регистрирует метрики в переданном Registerer
// (в тестах можно передать prometheus.NewRegistry())
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PaymentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "created_total",
			Help:      "Total number of payments created",
		}),
		PollAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "poll_attempts_total",
			Help:      "Total number of gateway poll attempts",
		}),
		PaymentOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "outcomes_total",
			Help:      "Terminal payment outcomes by status",
		}, []string{"status"}),
		GatewayErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "gateway_errors_total",
			Help:      "Transient gateway errors during polling",
		}),
		AnomalousStatuses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "anomalous_status_total",
			Help:      "Unrecognized status codes returned by the gateway",
		}),
		CancelFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "cancel_failures_total",
			Help:      "Forced order cancellations that the gateway did not confirm",
		}),
	}
}
