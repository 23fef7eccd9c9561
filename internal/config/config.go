package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig selects where uploaded and regenerated files live.
// Driver is either "local" (filesystem rooted at LocalRoot) or "minio".
type StorageConfig struct {
	Driver        string
	LocalRoot     string
	UploadsPrefix string
	OutputsPrefix string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the connection used for per-job locks.
// An empty Addr disables Redis and falls back to in-process locks.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// RabbitMQConfig holds the outbound mail transport settings.
// An empty URL disables mail delivery.
type RabbitMQConfig struct {
	URL         string
	Exchange    string
	RoutingKey  string
	FromAddress string
}

// LLMConfig holds settings for the OpenAI-compatible chat completions API.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// AuthConfig holds token signing and password reset settings.
type AuthConfig struct {
	JWTSecret        string
	TokenTTL         time.Duration
	ResetCodeTTL     time.Duration
	// MaxResetAttempts is how many wrong reset codes invalidate the active one.
	MaxResetAttempts int
}

// StripeConfig holds payment provider settings.
type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Currency   string
}

// QuotaConfig holds the allowance granted to newly registered users.
type QuotaConfig struct {
	DefaultCharacterLimit int64
	DefaultPageLimit      int
	DefaultFileSizeLimit  int64
	ChargePDFCharacters   bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	Database DatabaseConfig
	Storage  StorageConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	LLM      LLMConfig
	Auth     AuthConfig
	Stripe   StripeConfig
	Quota    QuotaConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8000"),
		Port:     getEnv("PORT", "8000"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			LocalRoot:     getEnv("STORAGE_LOCAL_ROOT", "data"),
			UploadsPrefix: getEnv("STORAGE_UPLOADS_PREFIX", "uploads"),
			OutputsPrefix: getEnv("STORAGE_OUTPUTS_PREFIX", "outputs"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			LockTTL:  getEnvDuration("REDIS_LOCK_TTL", 5*time.Minute),
		},
		RabbitMQ: RabbitMQConfig{
			URL:         getEnv("RABBITMQ_URL", ""),
			Exchange:    getEnv("RABBITMQ_MAIL_EXCHANGE", "mail.exchange"),
			RoutingKey:  getEnv("RABBITMQ_MAIL_ROUTING_KEY", "mail.outbound"),
			FromAddress: getEnv("MAIL_FROM", "no-reply@localhost"),
		},
		LLM: LLMConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			Timeout: getEnvDuration("LLM_TIMEOUT", 120*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:        getEnv("JWT_SECRET", ""),
			TokenTTL:         getEnvDuration("JWT_TTL", time.Hour),
			ResetCodeTTL:     getEnvDuration("RESET_CODE_TTL", 15*time.Minute),
			MaxResetAttempts: getEnvInt("RESET_CODE_MAX_ATTEMPTS", 5),
		},
		Stripe: StripeConfig{
			SecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
			SuccessURL: getEnv("STRIPE_SUCCESS_URL", "http://localhost:3000/translations"),
			CancelURL:  getEnv("STRIPE_CANCEL_URL", "http://localhost:3000/translations"),
			Currency:   getEnv("STRIPE_CURRENCY", "usd"),
		},
		Quota: QuotaConfig{
			DefaultCharacterLimit: getEnvInt64("QUOTA_DEFAULT_CHARACTERS", 10000),
			DefaultPageLimit:      getEnvInt("QUOTA_DEFAULT_PAGES", 20),
			DefaultFileSizeLimit:  getEnvInt64("QUOTA_DEFAULT_FILE_SIZE", 10<<20),
			ChargePDFCharacters:   getEnvBool("QUOTA_CHARGE_PDF_CHARACTERS", false),
		},
	}
}

// lockMargin covers extraction, rendering and storage around the model call.
const lockMargin = time.Minute

// Validate reports every required value that is missing.
// Secrets have no defaults, so the server must not start without them.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.LLM.APIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required"))
	}
	if c.Redis.Addr != "" && c.Redis.LockTTL <= c.LLM.Timeout+lockMargin {
		errs = append(errs, fmt.Errorf("REDIS_LOCK_TTL (%s) must exceed LLM_TIMEOUT (%s) by more than %s",
			c.Redis.LockTTL, c.LLM.Timeout, lockMargin))
	}
	switch c.Storage.Driver {
	case "local":
		if c.Storage.LocalRoot == "" {
			errs = append(errs, errors.New("STORAGE_LOCAL_ROOT is required for the local storage driver"))
		}
	case "minio":
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			errs = append(errs, errors.New("MINIO_ENDPOINT and MINIO_BUCKET are required for the minio storage driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver))
	}
	return errors.Join(errs...)
}

// Location returns the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
