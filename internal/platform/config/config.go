// Package config builds runtime configuration from environment variables so
// main stays lean.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration.
type Config struct {
	Addr          string `env:"HIREFLOW_ADDR" envDefault:":8080"`
	JWTSigningKey string `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`

	// PublicBaseURL is the externally reachable base URL used to build the
	// approval links embedded in outbound emails.
	PublicBaseURL string `env:"HIREFLOW_PUBLIC_URL" envDefault:"http://localhost:8080"`

	// ApprovalTTL bounds the lifetime of a remote approval token.
	ApprovalTTL time.Duration `env:"APPROVAL_TOKEN_TTL" envDefault:"48h"`

	// Approvers receive one approval-request message each when an applicant
	// enters management approval. AdminRecipients receive verdict messages.
	Approvers       []string `env:"APPROVAL_RECIPIENTS" envSeparator:","`
	AdminRecipients []string `env:"ADMIN_RECIPIENTS" envSeparator:","`

	// PlatformAdminKeyHash and SupportKeyHash are bcrypt hashes of the two
	// privileged cross-tenant API keys. Empty disables the role.
	PlatformAdminKeyHash string `env:"PLATFORM_ADMIN_KEY_HASH"`
	SupportKeyHash       string `env:"SUPPORT_KEY_HASH"`

	Postgres PostgresConfig `envPrefix:"POSTGRES_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Kafka    KafkaConfig    `envPrefix:"KAFKA_"`
}

// PostgresConfig configures the applicant and audit stores. An empty URL
// selects the in-memory stores (development mode).
type PostgresConfig struct {
	URL string `env:"URL"`
}

// RedisConfig configures the notification fan-out. An empty URL selects the
// in-memory notifier.
type RedisConfig struct {
	URL          string        `env:"URL"`
	PoolSize     int           `env:"POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig configures outbound messaging and the audit outbox relay. Empty
// brokers select the in-memory mailer.
type KafkaConfig struct {
	Brokers      []string `env:"BROKERS" envSeparator:","`
	MessageTopic string   `env:"MESSAGE_TOPIC" envDefault:"hireflow.outbound-messages"`
	AuditTopic   string   `env:"AUDIT_TOPIC" envDefault:"hireflow.audit-events"`
}

// FromEnv parses the configuration from the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config from env: %w", err)
	}
	return cfg, nil
}
