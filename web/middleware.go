package web

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cutai_http_requests_total",
	Help: "HTTP requests by route and status.",
}, []string{"method", "path", "status"})

// RequestLogger logs each request with its latency and counts it.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)))
	}
}
