package app

import (
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"

	server "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/primary/http"
	healthcheckController "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/primary/http/controllers/healthcheck"
	metricsController "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/primary/http/controllers/metrics"
	paymentsController "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/primary/http/controllers/payments"
	alerterAdapter "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/secondary/alerter"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/secondary/cloudpayments"
	redisAdapter "github.com/genius-paulo/telegram-cloudpayments-polling/internal/adapters/secondary/storage/redis"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/pkg/metrics"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/cache"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/service"
	alerterService "github.com/genius-paulo/telegram-cloudpayments-polling/internal/services/alerter"
	telegramService "github.com/genius-paulo/telegram-cloudpayments-polling/internal/services/telegram"
	paymentUsecase "github.com/genius-paulo/telegram-cloudpayments-polling/internal/usecases/payment"
)

type Dependencies struct {
	HTTPServer      *http.Server
	TelegramService *telegramService.Service
	Payments        *paymentUsecase.Service
	Cache           cache.Cache
	Metrics         *metrics.Metrics
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies() (*Dependencies, error) {
	m := metrics.New(prometheus.DefaultRegisterer)

	tracker, err := a.initCache()
	if err != nil {
		return nil, fmt.Errorf("failed to init cache: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(a.Cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	tgService := telegramService.New(bot, a.Cfg.Telegram, a.Log)

	provider := cloudpayments.NewClient(a.Cfg.CloudPayments, a.Log)
	alerter := a.initAlerter()

	payments := a.initPayment(provider, tgService, alerter, tracker, m)

	httpServer := a.initHTTP(tracker)

	return &Dependencies{
		HTTPServer:      httpServer,
		TelegramService: tgService,
		Payments:        payments,
		Cache:           tracker,
		Metrics:         m,
	}, nil
}

// initCache инициализирует кэш для трекинга платежей.
// По умолчанию in-memory, Redis включается через конфиг
func (a *App) initCache() (cache.Cache, error) {
	switch a.Cfg.Cache.Kind {
	case "redis":
		redisClient, err := a.Cfg.Redis.NewConnection()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.Log.Info("redis cache connected successfully")
		return redisAdapter.NewClient(redisClient), nil
	case "inmemory", "":
		return cache.NewInMemoryCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache kind: %s", a.Cfg.Cache.Kind)
	}
}

// initAlerter инициализирует алертер (опциональный: без токена алерты отключены)
func (a *App) initAlerter() service.IAlerterService {
	if a.Cfg.Alerter == nil || a.Cfg.Alerter.BotToken == "" {
		a.Log.Info("alerter is not configured, alerts disabled")
		return nil
	}

	client, err := alerterAdapter.NewClient(a.Cfg.Alerter, a.Log)
	if err != nil {
		a.Log.Warn("failed to init alerter, continuing without alerts", "error", err)
		return nil
	}

	return alerterService.New(client)
}

// initHTTP собирает HTTP-сервер со служебными ручками
func (a *App) initHTTP(tracker cache.Cache) *http.Server {
	healthCheck := healthcheckController.New(tracker, a.Log)
	paymentsCtrl := paymentsController.New(tracker, a.Log)
	metricsCtrl := metricsController.New()

	return server.NewHTTPServer(a.Cfg.Server, a.Log, healthCheck, paymentsCtrl, metricsCtrl)
}
