package config

import (
	"errors"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds the converter's ambient settings, populated from environment
// variables. None of them change what a conversion produces.
type Config struct {
	LogLevel  string
	LogFormat string

	// MetricsTextfile is where the process writes its metrics on exit, in
	// the node exporter textfile format. Empty disables it.
	MetricsTextfile string

	// KafkaBrokers enables conversion notifications when non-empty.
	KafkaBrokers    []string
	KafkaTopic      string
	ShutdownTimeout time.Duration

	// Compression is the deflate level for ODIM datasets, 0 to 9.
	Compression int
}

// NotificationsEnabled reports whether conversion events should be published.
func (c *Config) NotificationsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	compression, err := strconv.Atoi(sharedcfg.EnvOrDefault("ODIM_COMPRESSION", "6"))
	if err != nil || compression < 0 || compression > 9 {
		return nil, errors.New("invalid ODIM_COMPRESSION: must be an integer from 0 to 9")
	}

	var brokers []string
	if raw := sharedcfg.EnvOrDefault("KAFKA_BROKERS", ""); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		MetricsTextfile: sharedcfg.EnvOrDefault("METRICS_TEXTFILE", ""),
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "odim-conversions"),
		ShutdownTimeout: shutdownTimeout,
		Compression:     compression,
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid LOG_LEVEL: must be debug, info, warn or error")
	}
	switch cfg.LogFormat {
	case "json", "text":
	default:
		return nil, errors.New("invalid LOG_FORMAT: must be json or text")
	}
	if cfg.NotificationsEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}
