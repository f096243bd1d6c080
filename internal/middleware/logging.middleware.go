package middleware

import (
	"net/http"
	"time"

	"github.com/duccv/student-service/internal/constant"
	"github.com/duccv/student-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoggingMiddleware provides request logging functionality
type LoggingMiddleware struct {
	config *MiddlewareConfig
}

func NewLoggingMiddleware(config *MiddlewareConfig) *LoggingMiddleware {
	return &LoggingMiddleware{
		config: config,
	}
}

// RequestLogger logs the start and completion of every request.
// It must run after CorrelationIDMiddleware.
func (l *LoggingMiddleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.config.LoggingEnabled {
			c.Next()
			return
		}

		start := time.Now()
		requestLogger := l.createRequestLogger(c)

		requestLogger.Debug("Request started",
			zap.String("query", c.Request.URL.RawQuery),
			zap.String("referer", c.GetHeader("Referer")))

		c.Next()

		duration := time.Since(start)
		completed := logger.WithResponse(
			logger.WithUser(requestLogger, c.GetString(constant.UsernameKey)),
			c.Writer.Status(), duration)

		completed.Info("Request completed", zap.Int("size", c.Writer.Size()))

		if l.config.SlowRequestThreshold > 0 && duration > l.config.SlowRequestThreshold {
			completed.Warn("Slow request detected")
		}
	}
}

func (l *LoggingMiddleware) createRequestLogger(c *gin.Context) *zap.Logger {
	requestLogger := logger.FromContext(c.Request.Context())
	if l.config.LogUserAgent {
		requestLogger = logger.WithRequest(requestLogger, c.Request)
	} else {
		requestLogger = requestLogger.With(
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path))
	}

	if l.config.LogIPAddress {
		requestLogger = requestLogger.With(zap.String("ip", getClientIP(c)))
	}
	return requestLogger
}

// ErrorLogger logs the errors handlers attached with c.Error.
func (l *LoggingMiddleware) ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		errLogger := logger.FromContext(c.Request.Context())
		for _, err := range c.Errors {
			errLogger.Error("Request error",
				zap.Error(err.Err),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
		}
	}
}

// Recovery turns a panic into a logged 500 with the standard error body.
func (l *LoggingMiddleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		zap.L().Error("Panic recovered",
			zap.String("requestId", c.GetString(constant.RequestIDKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered),
			zap.Stack("stack"))
		c.AbortWithStatusJSON(http.StatusInternalServerError, constant.INTERNAL_SERVER_ERROR)
	})
}
