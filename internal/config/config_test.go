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

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.NotificationsEnabled())
	assert.Equal(t, "odim-conversions", cfg.KafkaTopic)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 6, cfg.Compression)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_TEXTFILE", "/var/lib/node_exporter/iris2odim.prom")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "radar-files")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("ODIM_COMPRESSION", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "/var/lib/node_exporter/iris2odim.prom", cfg.MetricsTextfile)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.NotificationsEnabled())
	assert.Equal(t, "radar-files", cfg.KafkaTopic)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0, cfg.Compression)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidCompression(t *testing.T) {
	for _, v := range []string{"10", "-1", "max"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("ODIM_COMPRESSION", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "ODIM_COMPRESSION")
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}
