package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/logger"
	"github.com/ianmwanzi/portfolio/internal/storage"
)

const (
	adminCookie    = "admin_token"
	adminCookieAge = 24 * time.Hour

	adminVisitsLimit   = 200
	adminMessagesLimit = 100
)

func (s *Server) setupAdmin(r *gin.Engine) {
	r.GET("/admin/login", s.adminLoginPage)
	r.POST("/admin/login", s.adminLogin)
	r.GET("/admin/logout", s.adminLogout)

	admin := r.Group("/admin")
	admin.Use(s.requireAdmin())
	admin.GET("/dashboard", s.adminDashboard)
	admin.GET("/api/stats", s.adminStatsJSON)
	admin.GET("/visitors", s.adminVisitors)
	admin.GET("/messages", s.adminMessages)
	admin.GET("/messages/:id", s.adminMessage)
	admin.GET("/export/stats", s.adminExport)
	admin.POST("/privacy/purge", s.adminPurge)
}

func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin-login.html", s.pageData(c, "Admin Login", nil))
}

func (s *Server) adminLogin(c *gin.Context) {
	ctx := c.Request.Context()
	client := zap.String("client", HashIP(c.ClientIP(), s.salt))

	userOK := subtle.ConstantTimeCompare([]byte(c.PostForm("username")), []byte(s.opts.AdminUsername))
	passOK := subtle.ConstantTimeCompare([]byte(c.PostForm("password")), []byte(s.opts.AdminPassword))
	if userOK&passOK != 1 {
		logger.Warn(ctx, "failed admin login", client)
		c.HTML(http.StatusUnauthorized, "admin-login.html", s.pageData(c, "Admin Login", gin.H{
			"Error": "Invalid credentials",
		}))
		return
	}

	secure := s.opts.Environment == logger.ProductionEnvironment
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(adminCookie, s.adminToken, int(adminCookieAge.Seconds()), "/admin", "", secure, true)
	logger.Info(ctx, "admin login", client)
	c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (s *Server) adminLogout(c *gin.Context) {
	c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
	c.Redirect(http.StatusFound, "/admin/login")
}

func (s *Server) stats(c *gin.Context) (*storage.Stats, bool) {
	stats, err := s.deps.Storage.Stats(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error(c.Request.Context(), "could not load admin stats", zap.Error(err))
		return nil, false
	}
	return stats, true
}

func (s *Server) adminError(c *gin.Context, msg string) {
	c.HTML(http.StatusInternalServerError, "admin-error.html", s.pageData(c, "Admin", gin.H{"Error": msg}))
}

func (s *Server) adminDashboard(c *gin.Context) {
	stats, ok := s.stats(c)
	if !ok {
		s.adminError(c, "Failed to load statistics")
		return
	}
	c.HTML(http.StatusOK, "admin-dashboard.html", s.pageData(c, "Dashboard", gin.H{"Stats": stats}))
}

func (s *Server) adminStatsJSON(c *gin.Context) {
	stats, ok := s.stats(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) adminExport(c *gin.Context) {
	stats, ok := s.stats(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
	logger.Info(c.Request.Context(), "admin stats exported")
	c.JSON(http.StatusOK, stats)
}

func (s *Server) adminVisitors(c *gin.Context) {
	visits, err := s.deps.Storage.ListVisits(c.Request.Context(), adminVisitsLimit)
	if err != nil {
		logger.Error(c.Request.Context(), "could not list visits", zap.Error(err))
		s.adminError(c, "Failed to load visitors")
		return
	}
	c.HTML(http.StatusOK, "admin-visitors.html", s.pageData(c, "Visitors", gin.H{"Visits": visits}))
}

func (s *Server) adminMessages(c *gin.Context) {
	messages, err := s.deps.Storage.ListMessages(c.Request.Context(), adminMessagesLimit)
	if err != nil {
		logger.Error(c.Request.Context(), "could not list messages", zap.Error(err))
		s.adminError(c, "Failed to load messages")
		return
	}
	c.HTML(http.StatusOK, "admin-messages.html", s.pageData(c, "Messages", gin.H{"Messages": messages}))
}

func (s *Server) adminMessage(c *gin.Context) {
	msg, err := s.deps.Storage.GetMessage(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
	case err != nil:
		logger.Error(c.Request.Context(), "could not get message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load message"})
	default:
		c.JSON(http.StatusOK, msg)
	}
}

// adminPurge deletes visits recorded before the posted date.
func (s *Server) adminPurge(c *gin.Context) {
	var req struct {
		Before time.Time `json:"before" form:"before" time_format:"2006-01-02" time_utc:"1"`
	}
	if err := c.ShouldBind(&req); err != nil || req.Before.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "before date is required"})
		return
	}

	n, err := s.deps.Storage.PurgeVisits(c.Request.Context(), req.Before)
	if err != nil {
		logger.Error(c.Request.Context(), "could not purge visits", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge visits"})
		return
	}
	logger.Info(c.Request.Context(), "visits purged by admin", zap.Int64("deleted", n))
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
