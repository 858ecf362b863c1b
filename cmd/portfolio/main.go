// Package main is the portfolio CLI. It loads configuration, sets up
// logging and registers the serve, migrate, content, contact and visits
// subcommands.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ianmwanzi/portfolio/internal/config"
	"github.com/ianmwanzi/portfolio/internal/content"
	"github.com/ianmwanzi/portfolio/internal/logger"
	"github.com/ianmwanzi/portfolio/internal/storage/sqlite"
)

// openStore opens the visit and message database and returns it with a
// cleanup function.
func openStore(ctx context.Context, cfg *config.Config) (*sqlite.Store, func()) {
	store, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Fatal(ctx, "could not open database", zap.Error(err), zap.String("path", cfg.Database.Path))
	}

	return store, func() {
		logger.Info(ctx, "closing database...")
		if err := store.Close(); err != nil {
			logger.Warn(ctx, "could not close database", zap.Error(err))
		}
	}
}

func loadContent(ctx context.Context, cfg *config.Config) *content.Content {
	c, err := content.Load(cfg.ContentPath)
	if err != nil {
		logger.Fatal(ctx, "could not load content", zap.Error(err))
	}
	return c
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio site",
		SilenceUsage: true,
	}

	// cobra flags are not available before Execute, so the config path is
	// read with the standard flag package. The persistent flag only keeps
	// cobra from rejecting -c.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config file path")

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("c", "config.yml", "The config file path")
	_ = fs.Parse(configArgs(os.Args[1:]))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config: ", err)
	}

	if err := logger.Setup(cfg.Environment); err != nil {
		log.Fatal("could not set up logger: ", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		migrateCommand(cfg),
		contentCommand(cfg),
		contactCommand(cfg),
		visitsCommand(cfg),
	)

	err = rootCmd.Execute()
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs keeps only the -c/--config flag so subcommand flags do not
// trip the standard flag parser.
func configArgs(args []string) []string {
	for i, a := range args {
		switch a {
		case "-c", "--config", "-config":
			if i+1 < len(args) {
				return []string{"-c", args[i+1]}
			}
		}
		for _, prefix := range []string{"-c=", "--config=", "-config="} {
			if v, ok := strings.CutPrefix(a, prefix); ok && v != "" {
				return []string{"-c", v}
			}
		}
	}
	return nil
}
