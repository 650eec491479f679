package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App            AppConfig
	Postgres       PostgresConfig
	Redis          RedisConfig
	Logger         LoggerConfig
	Metrics        MetricsConfig
	Auth           AuthConfig
	Notification   NotificationConfig
	Assignment     AssignmentConfig
	SkillInference SkillInferenceConfig
	Calendar       CalendarConfig
	Events         EventsConfig
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
	Level  string
	Format string
}

// MetricsConfig configures the prometheus collectors.
type MetricsConfig struct {
	Namespace string
	Enabled   bool
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	BootstrapAdminName    string
	BootstrapAdminEmail   string
	BootstrapAdminPass    string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// AssignmentConfig tunes the assignment engine.
type AssignmentConfig struct {
	FallbackName            string
	FallbackEmail           string
	ActiveTiers             []int
	AvailabilityConcurrency int
}

// SkillInferenceConfig points at an OpenAI-compatible completion endpoint.
// An empty BaseURL disables inference and the static skill table is used.
type SkillInferenceConfig struct {
	BaseURL         string
	APIKey          string
	Model           string
	MaxTokens       int
	Temperature     float32
	TimeoutSeconds  int
	MaxRetries      int
	RetryDelayMS    int
	CacheTTLSeconds int
}

// CalendarConfig configures the Google Calendar free/busy client.
// An empty CredentialsFile disables availability checks (fail open).
type CalendarConfig struct {
	CredentialsFile string
	Endpoint        string
	TimeoutSeconds  int
}

// EventsConfig configures the Redis stream that carries assignment events.
type EventsConfig struct {
	StreamName   string
	StreamMaxLen int64
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	activeTiers, err := parseTierList(getEnv("ASSIGNMENT_ACTIVE_TIERS", "1,2,3,6"))
	if err != nil {
		return nil, fmt.Errorf("invalid ASSIGNMENT_ACTIVE_TIERS: %w", err)
	}

	temperature, err := strconv.ParseFloat(getEnv("SKILL_INFERENCE_TEMPERATURE", "0.1"), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid SKILL_INFERENCE_TEMPERATURE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticket-assignment-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 90),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Namespace: getEnv("METRICS_NAMESPACE", "ticket_assignment"),
			Enabled:   getEnvAsBool("METRICS_ENABLED", true),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			BootstrapAdminName:    getEnv("AUTH_BOOTSTRAP_ADMIN_NAME", "Dispatch Admin"),
			BootstrapAdminEmail:   os.Getenv("AUTH_BOOTSTRAP_ADMIN_EMAIL"),
			BootstrapAdminPass:    os.Getenv("AUTH_BOOTSTRAP_ADMIN_PASSWORD"),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
		Assignment: AssignmentConfig{
			FallbackName:            getEnv("ASSIGNMENT_FALLBACK_NAME", "Fallback Support"),
			FallbackEmail:           getEnv("ASSIGNMENT_FALLBACK_EMAIL", "fallback@company.com"),
			ActiveTiers:             activeTiers,
			AvailabilityConcurrency: getEnvAsInt("ASSIGNMENT_AVAILABILITY_CONCURRENCY", 8),
		},
		SkillInference: SkillInferenceConfig{
			BaseURL:         os.Getenv("SKILL_INFERENCE_BASE_URL"),
			APIKey:          os.Getenv("SKILL_INFERENCE_API_KEY"),
			Model:           getEnv("SKILL_INFERENCE_MODEL", "mixtral-8x7b"),
			MaxTokens:       getEnvAsInt("SKILL_INFERENCE_MAX_TOKENS", 512),
			Temperature:     float32(temperature),
			TimeoutSeconds:  getEnvAsInt("SKILL_INFERENCE_TIMEOUT_SECONDS", 30),
			MaxRetries:      getEnvAsInt("SKILL_INFERENCE_MAX_RETRIES", 2),
			RetryDelayMS:    getEnvAsInt("SKILL_INFERENCE_RETRY_DELAY_MS", 2000),
			CacheTTLSeconds: getEnvAsInt("SKILL_INFERENCE_CACHE_TTL_SECONDS", 0),
		},
		Calendar: CalendarConfig{
			CredentialsFile: os.Getenv("CALENDAR_CREDENTIALS_FILE"),
			Endpoint:        os.Getenv("CALENDAR_ENDPOINT"),
			TimeoutSeconds:  getEnvAsInt("CALENDAR_TIMEOUT_SECONDS", 10),
		},
		Events: EventsConfig{
			StreamName:   getEnv("EVENTS_STREAM_NAME", "ticket-assignments"),
			StreamMaxLen: int64(getEnvAsInt("EVENTS_STREAM_MAX_LEN", 10000)),
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
	return seconds(a.RequestTimeoutSeconds)
}

// Timeout bounds a single skill inference call.
func (s SkillInferenceConfig) Timeout() time.Duration {
	return seconds(s.TimeoutSeconds)
}

// RetryDelay is the base delay between inference retries.
func (s SkillInferenceConfig) RetryDelay() time.Duration {
	if s.RetryDelayMS <= 0 {
		return 0
	}
	return time.Duration(s.RetryDelayMS) * time.Millisecond
}

// CacheTTL returns zero when caching is disabled.
func (s SkillInferenceConfig) CacheTTL() time.Duration {
	return seconds(s.CacheTTLSeconds)
}

// Timeout bounds a single free/busy query.
func (c CalendarConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

func seconds(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func parseTierList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	tiers := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tier, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if tier < 1 || tier > 6 {
			return nil, fmt.Errorf("tier %d out of range 1-6", tier)
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
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
