package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for a service instance.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Services     ServicesConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines token issuance parameters for the auth service.
type AuthConfig struct {
	BcryptCost int
}

// ServicesConfig lists the base URLs of peer services a dependent service
// validates references against, plus the remote-call timeouts.
type ServicesConfig struct {
	AuthBaseURL              string
	AuthIntrospectURL        string
	PatientBaseURL           string
	StaffBaseURL             string
	IntrospectTimeoutSeconds int
	ValidateTimeoutSeconds   int
	EnrichTimeoutSeconds     int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults
// where possible. serviceName selects per-service defaults (app name and
// migrations directory).
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", serviceName),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", defaultMigrationsDir(serviceName)),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			BcryptCost: getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Services: ServicesConfig{
			AuthBaseURL:              getEnv("AUTH_SERVICE_URL", "http://auth-service:8000/api/auth"),
			AuthIntrospectURL:        getEnv("AUTH_SERVICE_INTROSPECT_URL", "http://auth-service:8000/api/auth/introspect/"),
			PatientBaseURL:           getEnv("PATIENT_SERVICE_URL", "http://patient-service:8000/api"),
			StaffBaseURL:             getEnv("STAFF_SERVICE_URL", "http://staff-service:8000/api"),
			IntrospectTimeoutSeconds: getEnvAsInt("AUTH_INTROSPECT_TIMEOUT_SECONDS", 5),
			ValidateTimeoutSeconds:   getEnvAsInt("REMOTE_VALIDATE_TIMEOUT_SECONDS", 2),
			EnrichTimeoutSeconds:     getEnvAsInt("REMOTE_ENRICH_TIMEOUT_SECONDS", 3),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IntrospectTimeout bounds the introspection round trip.
func (s ServicesConfig) IntrospectTimeout() time.Duration {
	return secondsOrDefault(s.IntrospectTimeoutSeconds, 5)
}

// ValidateTimeout bounds a reference existence check.
func (s ServicesConfig) ValidateTimeout() time.Duration {
	return secondsOrDefault(s.ValidateTimeoutSeconds, 2)
}

// EnrichTimeout bounds a best-effort detail lookup.
func (s ServicesConfig) EnrichTimeout() time.Duration {
	return secondsOrDefault(s.EnrichTimeoutSeconds, 3)
}

func secondsOrDefault(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

func defaultMigrationsDir(serviceName string) string {
	switch serviceName {
	case "auth-service":
		return "migrations/auth"
	case "patient-service":
		return "migrations/patient"
	case "staff-service":
		return "migrations/staff"
	case "visit-service":
		return "migrations/visit"
	case "inventory-service":
		return "migrations/inventory"
	default:
		return "migrations"
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
