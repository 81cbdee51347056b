package config

import (
	"fmt"
	"strings"

	libconfig "ksebtracker/backend/libs/config"
)

// Config defines tariff service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"TARIFF_HTTP_PORT"`
	} `yaml:"http"`
}

// Load configuration from file/env.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: struct {
			Port string `yaml:"port" env:"TARIFF_HTTP_PORT"`
		}{
			Port: "8091",
		},
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8091"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
