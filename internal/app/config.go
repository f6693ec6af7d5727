package app

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	server "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/primary/http"
	alerterAdapter "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/secondary/alerter"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/secondary/cloudpayments"
	redisAdapter "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/secondary/storage/redis"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/pkg/logger"
	telegramService "github.com/genius-paulo/telegram-cloudpayments-polling/internal/services/telegram"
	paymentUsecase "github.com/genius-paulo/telegram-cloudpayments-polling/internal/usecases/payment"
)

type Config struct {
	Log           *logger.Config          `envconfig:"LOG"`
	Server        *server.Config          `envconfig:"APISERVER"`
	Telegram      *telegramService.Config `envconfig:"TELEGRAM"`
	CloudPayments *cloudpayments.Config   `envconfig:"CLOUDPAYMENTS"`
	Poller        *paymentUsecase.Config  `envconfig:"POLLER"`
	Cache         CacheConfig             `envconfig:"CACHE"`
	Redis         *redisAdapter.Config    `envconfig:"REDIS"`
	Alerter       *alerterAdapter.Config  `envconfig:"ALERTER"`
}

// CacheConfig выбор реализации кэша для трекинга платежей
type CacheConfig struct {
	Kind string `envconfig:"KIND" default:"inmemory"` // inmemory или redis
}

func NewEnvConfig(envPrefix string) (*Config, error) {
	cfg := &Config{}

	_ = godotenv.Load("deployments/local/.env")

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
