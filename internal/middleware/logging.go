package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shard-legends/cocktails-service/internal/auth"
)

// LoggingMiddleware provides request logging
type LoggingMiddleware struct {
	logger *zap.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *zap.Logger) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger: logger,
	}
}

// LogRequests logs every HTTP request with the user when known
func (m *LoggingMiddleware) LogRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("response_size", c.Writer.Size()),
		}
		if user, ok := auth.GetUserFromContext(c); ok {
			fields = append(fields, zap.String("user_email", user.Email))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			m.logger.Error("HTTP request failed", append(fields, zap.String("error_details", c.Errors.String()))...)
		case status >= 400:
			m.logger.Warn("HTTP request rejected", fields...)
		default:
			m.logger.Info("HTTP request processed", fields...)
		}
	}
}
