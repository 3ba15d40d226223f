package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is loaded once at startup and passed by reference to every
// consumer. It is never mutated after Load returns.
type Config struct {
	HTTPPort    string
	Environment string

	StripeSecretKey     string
	StripeWebhookSecret string
	AllowedPriceIDs     []string

	FrontendURL    string
	AllowedOrigins []string

	RedisAddr         string
	WebhookLedgerPath string

	RateLimitWindow      time.Duration
	RateLimitMax         int
	CheckoutRateLimitMax int

	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

var ErrMissingStripeKey = errors.New("STRIPE_SECRET_KEY environment variable is required")

func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:    getEnv("PORT", "3000"),
		Environment: getEnv("APP_ENV", "development"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		AllowedPriceIDs:     loadAllowedPriceIDs(),

		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5500"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),

		RedisAddr:         os.Getenv("REDIS_ADDR"),
		WebhookLedgerPath: getEnv("WEBHOOK_LEDGER_PATH", "webhook-events.db"),

		RateLimitWindow:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 15*60*1000)) * time.Millisecond,
		RateLimitMax:         getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		CheckoutRateLimitMax: getEnvInt("CHECKOUT_RATE_LIMIT_MAX", 0),

		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
	}

	if cfg.StripeSecretKey == "" {
		return nil, ErrMissingStripeKey
	}

	// The checkout endpoint gets a stricter ceiling than the general API,
	// loosened in development so test checkouts are not throttled.
	if cfg.CheckoutRateLimitMax == 0 {
		if cfg.IsDevelopment() {
			cfg.CheckoutRateLimitMax = 50
		} else {
			cfg.CheckoutRateLimitMax = 10
		}
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

// LiveMode reports whether the configured key processes real payments.
func (c *Config) LiveMode() bool {
	return strings.HasPrefix(c.StripeSecretKey, "sk_live_")
}

func loadAllowedPriceIDs() []string {
	ids := splitList(os.Getenv("STRIPE_PRICE_IDS"))
	for _, key := range []string{"STRIPE_PRICE_ID_STANDARD", "STRIPE_PRICE_ID_COMPETITION"} {
		if v := os.Getenv(key); v != "" {
			ids = append(ids, v)
		}
	}
	return ids
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
