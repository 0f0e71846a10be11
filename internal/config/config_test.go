package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "envelope-server", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, 0, cfg.Envelope.FixedStatus)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, 5*time.Second, cfg.Context.RequestTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENVELOPE_FIXED_STATUS", "200")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "250ms")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, 200, cfg.Envelope.FixedStatus)
	assert.Equal(t, 3*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Context.ShutdownTimeout)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_RejectsInvalidFixedStatus(t *testing.T) {
	t.Setenv("ENVELOPE_FIXED_STATUS", "42")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	t.Setenv("METRICS_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.Metrics.Enabled)
}
