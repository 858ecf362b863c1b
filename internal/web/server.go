// Package web serves the portfolio: the five pages, the contact form and the
// mail relay it posts to, visit tracking, the admin dashboard and the
// Prometheus endpoint.
package web

import (
	"context"
	"crypto/rand"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/config"
	"github.com/ianmwanzi/portfolio/internal/contact"
	"github.com/ianmwanzi/portfolio/internal/content"
	"github.com/ianmwanzi/portfolio/internal/logger"
	"github.com/ianmwanzi/portfolio/internal/mailer"
	"github.com/ianmwanzi/portfolio/internal/metrics"
	"github.com/ianmwanzi/portfolio/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Options holds the HTTP settings. NewOptions maps them from config.Config.
type Options struct {
	Environment string

	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MetricsPath       string

	// ContactEndpoint is the relay base URL the contact page posts to. Empty
	// means this server.
	ContactEndpoint string
	ContactTimeout  time.Duration

	AdminUsername string
	// AdminPassword disables the admin area when empty.
	AdminPassword string

	TrackingEnabled bool
	// TrackingSalt is mixed into visitor hashes. Empty means a random salt
	// per process.
	TrackingSalt string
}

func NewOptions(cfg *config.Config) Options {
	return Options{
		Environment:       cfg.Environment,
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MetricsPath:       cfg.HTTP.MetricsPath,
		ContactEndpoint:   cfg.Contact.Endpoint,
		ContactTimeout:    cfg.Contact.Timeout,
		AdminUsername:     cfg.Admin.Username,
		AdminPassword:     cfg.Admin.Password,
		TrackingEnabled:   cfg.Tracking.Enabled,
		TrackingSalt:      cfg.Tracking.Salt,
	}
}

// Deps are the collaborators the server uses.
type Deps struct {
	Content *content.Content
	Storage storage.Storage
	Mailer  mailer.Mailer
	// Metrics defaults to a fresh private registry.
	Metrics *metrics.Metrics
	// Sender overrides the relay client used by the contact page.
	Sender contact.Sender
	// HTTPClient is used by the default relay client.
	HTTPClient *http.Client
}

// Server owns the gin engine and the background visit writers.
type Server struct {
	opts Options
	deps Deps

	engine *gin.Engine
	sender contact.Sender

	adminToken string
	salt       string

	tracking sync.WaitGroup
}

func New(deps Deps, opts Options) (*Server, error) {
	if deps.Content == nil {
		return nil, errors.New("content is required")
	}
	if deps.Storage == nil {
		return nil, errors.New("storage is required")
	}
	if deps.Mailer == nil {
		return nil, errors.New("mailer is required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New(prometheus.NewRegistry())
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	s := &Server{opts: opts, deps: deps, sender: deps.Sender}
	if s.sender == nil {
		endpoint := opts.ContactEndpoint
		if endpoint == "" {
			endpoint = selfURL(opts.Addr)
		}
		s.sender = contact.NewClient(deps.HTTPClient, endpoint, opts.ContactTimeout)
	}

	var err error
	if s.salt = opts.TrackingSalt; s.salt == "" {
		if s.salt, err = randomToken(); err != nil {
			return nil, err
		}
	}
	if s.adminToken, err = randomToken(); err != nil {
		return nil, err
	}

	if s.engine, err = s.setupEngine(); err != nil {
		return nil, err
	}

	return s, nil
}

// Handler is the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// HTTPServer builds the *http.Server listening on Options.Addr.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		WriteTimeout:      s.opts.WriteTimeout,
		IdleTimeout:       s.opts.IdleTimeout,
	}
}

// Wait blocks until pending visit writes have finished.
func (s *Server) Wait() {
	s.tracking.Wait()
}

func (s *Server) setupEngine() (*gin.Engine, error) {
	tmpl, err := parseTemplates(s.deps.Content)
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("could not open static files: %w", err)
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(accessLog(), recovery())
	if s.opts.TrackingEnabled {
		r.Use(s.trackVisits())
	}

	r.StaticFS("/static", http.FS(static))
	r.GET("/healthz", s.health)
	r.GET(s.opts.MetricsPath, gin.WrapH(s.deps.Metrics.Handler()))

	s.setupPages(r)
	s.setupContact(r)
	s.setupAPI(r)
	if s.opts.AdminPassword != "" {
		s.setupAdmin(r)
	}

	r.NoRoute(s.notFound)

	return r, nil
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Server) health(c *gin.Context) {
	if p, ok := s.deps.Storage.(pinger); ok {
		if err := p.Ping(c.Request.Context()); err != nil {
			logger.Error(c.Request.Context(), "health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// selfURL turns a listen address into a URL reachable from this host.
func selfURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://127.0.0.1:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func isHTMX(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("HX-Request"), "true")
}
