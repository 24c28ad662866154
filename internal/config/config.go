package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Environment string `env:"APP_ENV,default=development"`
	Port        int    `env:"PORT,default=8080"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	// Wallet platform credentials. Deliberately not marked required so
	// that local development can start without them; ValidateRuntime
	// gates admin operations on their presence instead.
	WalletAppID     string `env:"WALLET_APP_ID"`
	WalletAppSecret string `env:"WALLET_APP_SECRET"`
	AdminHandle     string `env:"ADMIN_HANDLE"`
	WebsiteURL      string `env:"WEBSITE_URL"`

	WalletAPIURL     string        `env:"WALLET_API_URL,required"`
	WalletConnectURL string        `env:"WALLET_CONNECT_URL,required"`
	WalletTimeout    time.Duration `env:"WALLET_API_TIMEOUT,default=10s"`

	DataDir       string        `env:"DATA_DIR,default=data"`
	RedisURL      string        `env:"REDIS_URL"`
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE,default=720h"`
	CORSOrigins   []string      `env:"CORS_ORIGINS"`

	// Per-category fixed-window budgets; the window is shared.
	RateLimitWindow       time.Duration `env:"RATE_LIMIT_WINDOW,default=1m"`
	RateLimitAdmin        int           `env:"RATE_LIMIT_ADMIN,default=1000"`
	RateLimitAuth         int           `env:"RATE_LIMIT_AUTH,default=100"`
	RateLimitAuthCallback int           `env:"RATE_LIMIT_AUTH_CALLBACK,default=200"`
	RateLimitPayment      int           `env:"RATE_LIMIT_PAYMENT,default=500"`
	RateLimitMint         int           `env:"RATE_LIMIT_MINT,default=200"`
	RateLimitItemTransfer int           `env:"RATE_LIMIT_ITEM_TRANSFER,default=500"`
	RateLimitGeneral      int           `env:"RATE_LIMIT_GENERAL,default=1000"`
	RateLimitWebhook      int           `env:"RATE_LIMIT_WEBHOOK,default=100"`

	// HTTP server timeouts
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT,default=60s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("APP_ENV must be 'development', 'staging' or 'production', got %q", c.Environment)
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ValidationResult reports whether the runtime configuration is usable for
// privileged operations, with human-readable errors for the operator.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateRuntime checks the configuration required by admin operations. It
// is cheap and idempotent, so callers run it on every privileged request:
// production treats an invalid result as a hard failure while development
// logs it and proceeds.
func (c *Config) ValidateRuntime() ValidationResult {
	var errs []string

	required := []struct {
		name  string
		value string
	}{
		{"WALLET_APP_ID", c.WalletAppID},
		{"WALLET_APP_SECRET", c.WalletAppSecret},
		{"ADMIN_HANDLE", c.AdminHandle},
	}
	for _, v := range required {
		if strings.TrimSpace(v.value) == "" {
			errs = append(errs, "missing required environment variable: "+v.name)
		}
	}

	if strings.HasPrefix(c.AdminHandle, "@") {
		errs = append(errs, fmt.Sprintf(
			"ADMIN_HANDLE must not include the @ prefix. Got: %s, expected: %s",
			c.AdminHandle, strings.TrimPrefix(c.AdminHandle, "@")))
	}

	if c.IsProduction() && strings.TrimSpace(c.WebsiteURL) == "" {
		log.Warn().Msg("missing recommended environment variable: WEBSITE_URL")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
