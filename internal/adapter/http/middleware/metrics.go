package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taskmanager/internal/core/telemetry"
	"taskmanager/pkg/config"
)

func Metrics(metrics *telemetry.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
			duration,
		)
	}
}

// Setup installs the shared middleware chain: tracing first so the logging
// and metrics layers see an active span.
func Setup(router *gin.Engine, serviceName string, metrics *telemetry.AppMetrics, logger *config.AppLogger) {
	router.Use(otelgin.Middleware(serviceName))
	router.Use(Logging(logger))

	if metrics != nil {
		router.Use(Metrics(metrics))
	}
}
