package healthcheckController

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/cache"
)

type HealthCheckController struct {
	cache cache.Cache
	log   *slog.Logger
}

func New(cache cache.Cache, log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		cache: cache,
		log:   log,
	}
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(200, gin.H{
		"status":  "ok",
		"service": "topup-bot",
	})
}

// ready проверка готовности (проверяет доступность кэша)
func (c *HealthCheckController) ready(ctx *gin.Context) {
	if _, err := c.cache.Exists(ctx.Request.Context(), "readiness-probe"); err != nil {
		c.log.Error("Cache not ready", "error", err)
		ctx.JSON(503, gin.H{
			"status": "not ready",
			"error":  "cache unavailable",
		})
		return
	}

	ctx.JSON(200, gin.H{
		"status": "ready",
	})
}
