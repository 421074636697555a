package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER,notEmpty"`
	DBPassword string `env:"DB_PASSWORD,notEmpty"`
	DBName     string `env:"DB_NAME,notEmpty"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// KafkaHost is a comma separated broker list. When empty, status
	// changes are only logged.
	KafkaHost              string `env:"KAFKA_HOST"`
	KafkaOrderChangedTopic string `env:"KAFKA_ORDER_CHANGED_TOPIC" envDefault:"order.status_changed"`

	PendingOrderTTL     time.Duration `env:"PENDING_ORDER_TTL" envDefault:"30m"`
	StaleOrderSchedule  string        `env:"STALE_ORDER_SCHEDULE" envDefault:"0 * * * * *"`
	StaleOrderBatchSize int           `env:"STALE_ORDER_BATCH_SIZE" envDefault:"100"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// ParseConfig reads the configuration from the process environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
