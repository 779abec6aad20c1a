package config_test

import (
	"testing"
	"time"

	"course-checkout/internal/config"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg := &config.Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "stripe", cfg.Gateway.Provider)
	assert.Equal(t, "https://api.stripe.com", cfg.Stripe.BaseApiURL)
	assert.Equal(t, time.Minute, cfg.Sweeper.Interval)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Address())
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("GATEWAY_PROVIDER", "braintree")
	t.Setenv("SWEEPER_BATCH_SIZE", "5")
	t.Setenv("HTTP_PORT", "9090")

	cfg := &config.Config{}
	require.NoError(t, env.Parse(cfg))

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "braintree", cfg.Gateway.Provider)
	assert.Equal(t, 5, cfg.Sweeper.BatchSize)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Address())
}

func TestParse_RequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg := &config.Config{}
	assert.Error(t, env.Parse(cfg))
}
