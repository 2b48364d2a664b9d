package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL"`
	Port        int    `env:"PORT" envDefault:"8080"`

	// Card processor (tokenization only)
	ProcessorEnabled bool   `env:"PROCESSOR_ENABLED" envDefault:"false"`
	ProcessorURL     string `env:"PROCESSOR_API_URL" envDefault:"https://api.stripe.com/v1"`
	ProcessorKey     string `env:"PROCESSOR_SECRET_KEY"`

	// Events
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"transfer_completed"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// EventsEnabled reports whether a broker list was configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaBrokers[0]) != ""
}
