package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	RedisURL string

	SubstitutionURL     string
	SubstitutionTimeout time.Duration

	OTelServiceName string
	OTelEndpoint    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		RedisURL:        getEnv("REDIS_URL", "redis://localhost:6379"),
		SubstitutionURL: getEnv("SUBSTITUTION_URL", "http://localhost:8000"),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "order-fulfilment-api"),
		OTelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
	}

	timeout := getEnv("SUBSTITUTION_TIMEOUT", "10s")
	duration, err := time.ParseDuration(timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid SUBSTITUTION_TIMEOUT: %w", err)
	}
	cfg.SubstitutionTimeout = duration

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.SubstitutionURL == "" {
		return fmt.Errorf("SUBSTITUTION_URL is required")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
