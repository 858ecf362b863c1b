package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/logger"
)

const requestIDHeader = "X-Request-Id"

// accessLog attaches a request-scoped logger carrying the request ID and
// writes one structured line per request once the handler returns.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)

		ctx := logger.WithFields(c.Request.Context(), zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		logger.Info(ctx, "Access log",
			zap.Int("status_code", c.Writer.Status()),
			zap.Float64("latency", time.Since(start).Seconds()),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.String("url", c.Request.URL.String()),
			zap.String("referer", c.Request.Referer()),
			zap.String("method", c.Request.Method),
		)
	}
}

func recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, p any) {
		logger.Error(c.Request.Context(), "captured panic", zap.Any("panic", p))
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
