// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

const minSecretLength = 32

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string

	StorageBackend string
	DatabaseURL    string
	DynamoDBTable  string
	AWSRegion      string

	KafkaBrokers       []string
	KafkaTopic         string
	KafkaOrderTopic    string
	KafkaConsumerGroup string

	SMTPHost string
	SMTPPort string
	SMTPFrom string

	SessionSecret      string
	SessionTTL         time.Duration
	SessionIdleTimeout time.Duration

	CheckoutDelay  time.Duration
	CartStorageKey string
	CatalogPath    string
	ReviewsPath    string

	// InstanceID tags published cart changes so an instance can skip its own.
	InstanceID string
}

func Load() Config {
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		LogLevel: get("LOG_LEVEL", "info"),
		HTTPAddr: get("HTTP_ADDR", ":8080"),

		StorageBackend: strings.ToLower(get("STORAGE_BACKEND", BackendMemory)),
		DatabaseURL:    get("DATABASE_URL", ""),
		DynamoDBTable:  get("DYNAMODB_TABLE", "storefront-carts"),
		AWSRegion:      get("AWS_REGION", "us-east-1"),

		KafkaBrokers:       getList("KAFKA_BROKERS"),
		KafkaTopic:         get("KAFKA_TOPIC", "cart-changes"),
		KafkaOrderTopic:    get("KAFKA_ORDER_TOPIC", "orders-placed"),
		KafkaConsumerGroup: get("KAFKA_CONSUMER_GROUP", "storefront-api"),

		SMTPHost: get("SMTP_HOST", "localhost"),
		SMTPPort: get("SMTP_PORT", "1025"),
		SMTPFrom: get("SMTP_FROM", "orders@threadlab.example"),

		SessionSecret:      get("SESSION_SECRET", ""),
		SessionTTL:         getDuration("SESSION_TTL", 30*24*time.Hour),
		SessionIdleTimeout: getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),

		CheckoutDelay:  getDuration("CHECKOUT_DELAY", 2*time.Second),
		CartStorageKey: get("CART_STORAGE_KEY", "threadlab_cart"),
		CatalogPath:    get("CATALOG_PATH", ""),
		ReviewsPath:    get("REVIEWS_PATH", ""),

		InstanceID: get("INSTANCE_ID", uuid.New().String()),
	}
}

// Validate checks the settings the selected backend and features need.
func (c Config) Validate() error {
	var errs []error

	if len(c.SessionSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d characters", minSecretLength))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.CheckoutDelay < 0 {
		errs = append(errs, errors.New("CHECKOUT_DELAY must not be negative"))
	}
	if c.CartStorageKey == "" || strings.Contains(c.CartStorageKey, ":") {
		errs = append(errs, errors.New("CART_STORAGE_KEY must be set and must not contain ':'"))
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres backend"))
		}
	case BackendDynamoDB:
		if c.DynamoDBTable == "" {
			errs = append(errs, errors.New("DYNAMODB_TABLE is required for the dynamodb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend))
	}

	if len(c.KafkaBrokers) > 0 && (c.KafkaTopic == "" || c.KafkaOrderTopic == "") {
		errs = append(errs, errors.New("KAFKA_TOPIC and KAFKA_ORDER_TOPIC are required when KAFKA_BROKERS is set"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return def
}

// getList splits a comma separated value, dropping blanks.
func getList(k string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(k), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
