package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 30*time.Second, cfg.PriceFeed.PollInterval)
	assert.Equal(t, "31247.82", cfg.PriceFeed.FallbackPrice)
	assert.Equal(t, 5*time.Second, cfg.Realtime.BroadcastInterval)
	assert.Equal(t, "1000", cfg.Protection.AutoTopUpAmount)
	assert.Equal(t, 10*time.Second, cfg.Protection.TriggerWindow)
	assert.Equal(t, 24, cfg.Protection.RiskWindowSize)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("PRICE_POLL_INTERVAL", "10s")
	t.Setenv("AUTO_TOPUP_AMOUNT", "250")
	t.Setenv("RISK_WINDOW_SIZE", "48")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.PriceFeed.PollInterval)
	assert.Equal(t, "250", cfg.Protection.AutoTopUpAmount)
	assert.Equal(t, 48, cfg.Protection.RiskWindowSize)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PRICE_POLL_INTERVAL", "often")
	t.Setenv("RISK_WINDOW_SIZE", "many")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.PriceFeed.PollInterval)
	assert.Equal(t, 24, cfg.Protection.RiskWindowSize)
}
