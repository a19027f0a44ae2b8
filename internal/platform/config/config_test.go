package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BALANCE_TOLERANCE", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 70, cfg.MinConfidenceScore)
	assert.Equal(t, 85, cfg.DefaultComplianceScore)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.True(t, cfg.BalanceTolerance.Equal(decimal.NewFromFloat(0.01)))
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("MIN_CONFIDENCE_SCORE", "60")
	t.Setenv("DEFAULT_COMPLIANCE_SCORE", "90")
	t.Setenv("BALANCE_TOLERANCE", "0.05")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 60, cfg.MinConfidenceScore)
	assert.Equal(t, 90, cfg.DefaultComplianceScore)
	assert.True(t, cfg.BalanceTolerance.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BALANCE_TOLERANCE", "not-a-number")
	t.Setenv("DEFAULT_COMPLIANCE_SCORE", "150")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.BalanceTolerance.Equal(decimal.NewFromFloat(0.01)))
	assert.Equal(t, 85, cfg.DefaultComplianceScore)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
