package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	STORAGE_POSTGRES = "postgres"
	STORAGE_MONGODB  = "mongodb"
	NOTIFIER_SES     = "ses"
	NOTIFIER_QUEUE   = "rabbitmq"
)

type Config struct {
	IsTestMode     bool          `env:"TEST_MODE"`
	Port           uint16        `env:"PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	FrontendURL    string        `env:"FRONTEND_URL,required"`

	LogLevel   string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile    string        `env:"LOG_FILE"`
	LogFileAge time.Duration `env:"LOG_FILE_MAX_AGE" envDefault:"168h"`
	SentryDsn  string        `env:"SENTRY_DSN"`

	Storage        string `env:"STORAGE" envDefault:"postgres"`
	PostgresqlURL  string `env:"POSTGRESQL_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH"`
	MongodbURL     string `env:"MONGODB_URL"`
	MongodbName    string `env:"MONGODB_DATABASE" envDefault:"accounts"`
	RedisURL       string `env:"REDIS_URL,required"`

	Notifier                 string `env:"NOTIFIER" envDefault:"ses"`
	RabbitmqURL              string `env:"RABBITMQ_URL"`
	RabbitmqEmailExchange    string `env:"RABBITMQ_EMAIL_EXCHANGE" envDefault:"emails"`
	RabbitmqEmailReadyQueue  string `env:"RABBITMQ_EMAIL_READY_QUEUE" envDefault:"email-ready-for-sending"`
	RabbitmqConsumerPrefetch int    `env:"RABBITMQ_CONSUMER_PREFETCH" envDefault:"10"`

	AwsRegion      string `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey   string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey   string `env:"AWS_SECRET_KEY"`
	AwsEmailSender string `env:"AWS_EMAIL_SENDER,required"`

	Secret           string        `env:"SECRET,required"`
	SessionTTL       time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	BcryptHasherCost int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	ResetTokenTTL    time.Duration `env:"PASSWORD_RESET_TOKEN_TTL" envDefault:"30m"`
	PurgeInterval    time.Duration `env:"PASSWORD_RESET_PURGE_INTERVAL" envDefault:"1h"`
}

// Load reads the configuration from the environment. Variables from an optional
// .env file (or ENV_FILE) are applied first without overriding existing ones.
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("could not load env file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case STORAGE_POSTGRES:
		if c.PostgresqlURL == "" {
			return fmt.Errorf("POSTGRESQL_URL must be set")
		}
	case STORAGE_MONGODB:
		if c.MongodbURL == "" {
			return fmt.Errorf("MONGODB_URL must be set")
		}
	default:
		return fmt.Errorf("invalid STORAGE value: %q", c.Storage)
	}

	switch c.Notifier {
	case NOTIFIER_SES:
	case NOTIFIER_QUEUE:
		if c.RabbitmqURL == "" {
			return fmt.Errorf("RABBITMQ_URL must be set")
		}
	default:
		return fmt.Errorf("invalid NOTIFIER value: %q", c.Notifier)
	}

	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TOKEN_TTL must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}
