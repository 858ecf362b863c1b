package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/contact"
	"github.com/ianmwanzi/portfolio/internal/logger"
	"github.com/ianmwanzi/portfolio/internal/storage"
)

const visitWriteTimeout = 5 * time.Second

// HashIP returns the first 16 hex characters of sha256(ip + salt). The raw
// address is never stored.
func HashIP(ip, salt string) string {
	sum := sha256.Sum256([]byte(ip + salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *Server) untracked(path string) bool {
	if path == s.opts.MetricsPath || path == contact.RelayPath || path == "/healthz" {
		return true
	}
	for _, prefix := range []string{"/static/", "/admin", "/api/", "/favicon"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// trackVisits records successful page views in the background. Requests
// sending "DNT: 1" are not recorded.
func (s *Server) trackVisits() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.Writer.Status() != http.StatusOK ||
			c.GetHeader("DNT") == "1" || s.untracked(path) {
			return
		}

		visit := storage.Visit{
			HashedIP:  HashIP(c.ClientIP(), s.salt),
			UserAgent: c.Request.UserAgent(),
			Path:      path,
			VisitedAt: time.Now(),
		}
		reqCtx := c.Request.Context()

		s.tracking.Add(1)
		go func() {
			defer s.tracking.Done()

			ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), visitWriteTimeout)
			defer cancel()

			if err := s.deps.Storage.RecordVisit(ctx, visit); err != nil {
				s.deps.Metrics.TrackingErrors.Inc()
				logger.Warn(ctx, "could not record visit", zap.Error(err))
			}
		}()
	}
}
