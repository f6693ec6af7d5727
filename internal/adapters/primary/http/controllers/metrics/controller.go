package metricsController

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsController экспортирует метрики в формате Prometheus
type MetricsController struct{}

func New() *MetricsController {
	return &MetricsController{}
}

func (c *MetricsController) RegisterRoutes(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
