package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV", "STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET",
		"STRIPE_PRICE_IDS", "STRIPE_PRICE_ID_STANDARD", "STRIPE_PRICE_ID_COMPETITION",
		"FRONTEND_URL", "ALLOWED_ORIGINS", "REDIS_ADDR", "WEBHOOK_LEDGER_PATH",
		"RATE_LIMIT_WINDOW_MS", "RATE_LIMIT_MAX_REQUESTS", "CHECKOUT_RATE_LIMIT_MAX",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:5500", cfg.FrontendURL)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 50, cfg.CheckoutRateLimitMax, "development loosens the checkout ceiling")
	assert.Equal(t, "webhook-events.db", cfg.WebhookLedgerPath)
	assert.Empty(t, cfg.AllowedPriceIDs)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoad_MissingStripeKey(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingStripeKey)
}

func TestLoad_ProductionCheckoutCeiling(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_live_abc")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.True(t, cfg.LiveMode())
	assert.Equal(t, 10, cfg.CheckoutRateLimitMax)
}

func TestLoad_ExplicitCheckoutCeilingWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("CHECKOUT_RATE_LIMIT_MAX", "25")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.CheckoutRateLimitMax)
}

func TestLoad_PriceIDSources(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("STRIPE_PRICE_IDS", "price_a, price_b")
	t.Setenv("STRIPE_PRICE_ID_STANDARD", "price_std")
	t.Setenv("STRIPE_PRICE_ID_COMPETITION", "price_comp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"price_a", "price_b", "price_std", "price_comp"}, cfg.AllowedPriceIDs)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("ALLOWED_ORIGINS", "https://karumelo.com, https://www.karumelo.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://karumelo.com", "https://www.karumelo.com"}, cfg.AllowedOrigins)
}

func TestLoad_RateLimitWindowOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "60000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLiveMode_TestKey(t *testing.T) {
	cfg := &Config{StripeSecretKey: "sk_test_abc"}
	assert.False(t, cfg.LiveMode())
}
