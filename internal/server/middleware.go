package server

import (
	"strconv"
	"time"

	"delivery-ops/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// requestMetrics records every request against its route pattern, so
// /api/orders/ORD-001 and /api/orders/ORD-002 share one series.
func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request().Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		return nil
	}
}

// requestLogger writes one zap entry per request.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.RequestID != "" {
				fields = append(fields, zap.String("request_id", v.RequestID))
			}
			if v.Error != nil {
				log.Error("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
