package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the process configuration. Every field can come from the
// environment (including a .env file) and optionally from a YAML file.
type Config struct {
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	HTTP struct {
		Addr              string        `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"30s" yaml:"readTimeout"`
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"1m" yaml:"writeTimeout"`
		IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		MetricsPath       string        `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// ContentPath points at a YAML content file on disk. Empty means the
	// content compiled into the binary.
	ContentPath string `env:"CONTENT_PATH" yaml:"contentPath"`

	Contact struct {
		// Endpoint is the base URL of the mail relay. Empty means this
		// server's own relay route.
		Endpoint string        `env:"CONTACT_ENDPOINT" yaml:"endpoint"`
		Timeout  time.Duration `env:"CONTACT_TIMEOUT" env-default:"15s" yaml:"timeout"`
	} `yaml:"contact"`

	SMTP struct {
		Host string `env:"SMTP_HOST" env-default:"smtp.gmail.com" yaml:"host"`
		Port int    `env:"SMTP_PORT" env-default:"587" yaml:"port"`
		User string `env:"SMTP_USER" yaml:"user"`
		Pass string `env:"SMTP_PASS" yaml:"pass"`
		To   string `env:"TO_EMAIL" yaml:"to"`
	} `yaml:"smtp"`

	Database struct {
		Path string `env:"DATABASE_PATH" env-default:"portfolio.db" yaml:"path"`
	} `yaml:"database"`

	Admin struct {
		Username string `env:"ADMIN_USERNAME" env-default:"admin" yaml:"username"`
		// Password disables the admin area when empty.
		Password string `env:"ADMIN_PASSWORD" yaml:"password"`
	} `yaml:"admin"`

	Tracking struct {
		Enabled   bool          `env:"TRACKING_ENABLED" env-default:"true" yaml:"enabled"`
		Salt      string        `env:"TRACKING_SALT" yaml:"salt"`
		Retention time.Duration `env:"TRACKING_RETENTION" env-default:"8760h" yaml:"retention"`
	} `yaml:"tracking"`

	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load reads configPath when it exists and the environment otherwise.
// Environment variables override file values either way.
func Load(configPath string) (*Config, error) {
	var cfg Config

	if configPath != "" {
		_, err := os.Stat(configPath)
		switch {
		case err == nil:
			if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
				return nil, fmt.Errorf("could not read config: %w", err)
			}

			return &cfg, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("could not stat config: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read env: %w", err)
	}

	return &cfg, nil
}

// SMTPConfigured reports whether outbound mail credentials are present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Pass != ""
}

// AdminEnabled reports whether the admin area should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.Admin.Password != ""
}
