package paymentsController

import (
	"encoding/json"
	"errors"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/domain"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/ports/cache"
	"github.com/genius-paulo/telegram-cloudpayments-polling/internal/usecases/payment"
)

// PaymentsController отдаёт последнее известное состояние платежа из кэша
type PaymentsController struct {
	cache cache.Cache
	log   *slog.Logger
}

func New(cache cache.Cache, log *slog.Logger) *PaymentsController {
	return &PaymentsController{
		cache: cache,
		log:   log,
	}
}

func (c *PaymentsController) RegisterRoutes(r *gin.Engine) {
	r.GET("/payments/:number", c.getPayment)
}

func (c *PaymentsController) getPayment(ctx *gin.Context) {
	number := ctx.Param("number")

	value, err := c.cache.Get(ctx.Request.Context(), payment.TrackKey(number))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			ctx.JSON(404, gin.H{
				"error": "payment not found",
			})
			return
		}

		c.log.Error("failed to get payment from cache", "error", err, "number", number)
		ctx.JSON(500, gin.H{
			"error": "internal server error",
		})
		return
	}

	var p domain.Payment
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		c.log.Error("failed to unmarshal tracked payment", "error", err, "number", number)
		ctx.JSON(500, gin.H{
			"error": "internal server error",
		})
		return
	}

	ctx.JSON(200, p)
}
