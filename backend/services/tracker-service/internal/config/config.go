package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "ksebtracker/backend/libs/config"

	"ksebtracker/backend/services/tracker-service/internal/service"
)

// Config defines tracker service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"TRACKER_HTTP_PORT"`
	} `yaml:"http"`

	Postgres struct {
		DSN string `yaml:"dsn" env:"TRACKER_POSTGRES_DSN"`
	} `yaml:"postgres"`

	Redis struct {
		Addr        string        `yaml:"addr" env:"TRACKER_REDIS_ADDR"`
		Password    string        `yaml:"password" env:"TRACKER_REDIS_PASSWORD"`
		DB          int           `yaml:"db" env:"TRACKER_REDIS_DB"`
		EstimateTTL time.Duration `yaml:"estimate_ttl" env:"TRACKER_ESTIMATE_TTL"`
	} `yaml:"redis"`

	Tariff struct {
		BaseURL string        `yaml:"base_url" env:"TARIFF_BASE_URL"`
		Timeout time.Duration `yaml:"timeout" env:"TARIFF_TIMEOUT"`
	} `yaml:"tariff"`

	JWT struct {
		Secret string `yaml:"secret" env:"TRACKER_JWT_SECRET"`
	} `yaml:"jwt"`

	Live struct {
		PingInterval time.Duration `yaml:"ping_interval" env:"TRACKER_WS_PING_INTERVAL"`
		WriteTimeout time.Duration `yaml:"write_timeout" env:"TRACKER_WS_WRITE_TIMEOUT"`
	} `yaml:"live"`

	// Advisory bands are file-only config: threshold lists do not map to single env vars.
	Advisory struct {
		Bands []service.AdvisoryBand `yaml:"bands" env:"-"`
	} `yaml:"advisory"`
}

// Load configuration from file/env.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8090"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Redis.EstimateTTL = 72 * time.Hour
	cfg.Tariff.BaseURL = "http://localhost:8091"
	cfg.Tariff.Timeout = 5 * time.Second
	cfg.Live.PingInterval = 30 * time.Second
	cfg.Live.WriteTimeout = 10 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		return errors.New("config: TRACKER_POSTGRES_DSN is required")
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return errors.New("config: TRACKER_JWT_SECRET is required")
	}
	return nil
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8090"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// AdvisoryBands returns configured bands, or the defaults when none are set.
func (c *Config) AdvisoryBands() []service.AdvisoryBand {
	if len(c.Advisory.Bands) == 0 {
		return service.DefaultAdvisoryBands()
	}
	return c.Advisory.Bands
}
