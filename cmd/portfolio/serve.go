package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/config"
	"github.com/ianmwanzi/portfolio/internal/logger"
	"github.com/ianmwanzi/portfolio/internal/mailer"
	"github.com/ianmwanzi/portfolio/internal/metrics"
	"github.com/ianmwanzi/portfolio/internal/storage"
	"github.com/ianmwanzi/portfolio/internal/web"
)

// ginMode maps the environment to gin's mode. Everything but production
// keeps gin's debug output.
func ginMode(environment string) string {
	if environment == logger.ProductionEnvironment {
		return gin.ReleaseMode
	}
	return gin.DebugMode
}

func newMailer(cfg *config.Config) *mailer.SMTPMailer {
	return mailer.NewSMTPMailer(mailer.Options{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		To:   cfg.SMTP.To,
		// The relay should give up no later than the contact page does.
		Timeout: cfg.Contact.Timeout,
	})
}

// purgeExpiredVisits drops visits older than the retention window. A zero
// retention keeps everything.
func purgeExpiredVisits(ctx context.Context, store storage.Storage, retention time.Duration) {
	if retention <= 0 {
		return
	}
	n, err := store.PurgeVisits(ctx, time.Now().Add(-retention))
	if err != nil {
		logger.Warn(ctx, "could not purge expired visits", zap.Error(err))
		return
	}
	logger.Info(ctx, "purged expired visits", zap.Int64("deleted", n), zap.Duration("retention", retention))
}

func setupServer(ctx context.Context, cfg *config.Config, store storage.Storage) (*web.Server, func(ctx context.Context)) {
	m := newMailer(cfg)
	if !m.Configured() {
		logger.Warn(ctx, "SMTP credentials missing, contact messages will not be delivered")
	}
	if !cfg.AdminEnabled() {
		logger.Info(ctx, "ADMIN_PASSWORD not set, admin area disabled")
	}

	srv, err := web.New(web.Deps{
		Content: loadContent(ctx, cfg),
		Storage: store,
		Mailer:  m,
		Metrics: metrics.New(nil),
	}, web.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create webserver", zap.Error(err))
	}

	server := srv.HTTPServer()
	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start webserver", zap.Error(err))
			}
		}
	}()

	return srv, func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the web server",
		Run: func(cmd *cobra.Command, args []string) {
			gin.SetMode(ginMode(cfg.Environment))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, closeStore := openStore(ctx, cfg)
			defer closeStore()

			purgeExpiredVisits(ctx, store, cfg.Tracking.Retention)

			srv, stopWebserver := setupServer(ctx, cfg, store)

			// wait for interrupt
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			srv.Wait()
		},
	}

	return cmd
}
