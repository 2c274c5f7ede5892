package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ksivaceg/product-management-portal-backend/pkg/aws"
)

// Metrics returns a gin middleware that publishes request counts, error
// counts and latency to CloudWatch. Publishing runs off the request path so
// a slow CloudWatch call never delays the response.
func Metrics(metrics *aws.MetricsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil || !metrics.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		dims := map[string]string{
			"Path":   path,
			"Method": c.Request.Method,
			"Status": strconv.Itoa(status),
		}

		go func() {
			ctx, cancel := metricsContext()
			defer cancel()

			if err := metrics.RecordCount(ctx, aws.MetricHTTPRequests, dims); err != nil {
				zap.L().Warn("Failed to record request metric", zap.Error(err))
			}
			if status >= 500 {
				if err := metrics.RecordCount(ctx, aws.MetricHTTPErrors, dims); err != nil {
					zap.L().Warn("Failed to record error metric", zap.Error(err))
				}
			}
			if err := metrics.RecordLatency(ctx, aws.MetricHTTPLatency, latency, dims); err != nil {
				zap.L().Warn("Failed to record latency metric", zap.Error(err))
			}
		}()
	}
}

func metricsContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
