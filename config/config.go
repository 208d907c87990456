// Package config provides configuration management for the dispatch service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Ledger backends accepted by LEDGER_BACKEND.
const (
	LedgerMemory = "memory"
	LedgerRedis  = "redis"
	LedgerMongo  = "mongo"
)

// Config holds the complete application configuration.
type Config struct {
	Log            LogConfig
	Server         ServerConfig
	Auth           AuthConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Engine         EngineConfig
	Personnel      PersonnelConfig
	Reconciliation ReconciliationConfig
	Audit          AuditConfig
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	// ShutdownTimeout bounds draining of in-flight requests on SIGTERM.
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	SwaggerUser     string
	SwaggerPass     string
	PreviewDays     int
}

// AuthConfig holds authentication configuration.
// Authentication is enforced as soon as either credential source is set.
type AuthConfig struct {
	APIKeyHashes []string
	JWTSecretKey string
}

// Enabled reports whether any credential source is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeyHashes) > 0 || a.JWTSecretKey != ""
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// RedisConfig holds Redis configuration shared by the ledger and the idempotency store.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	LedgerPrefix   string
	IdempotencyTTL time.Duration
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// KafkaConfig holds the event publisher configuration.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// EngineConfig holds allocation engine configuration.
type EngineConfig struct {
	LedgerBackend  string
	HorizonDays    int
	HandlingBuffer time.Duration
	Timezone       string
	// Schedule lookups are cached per route and leg; a zero size disables the cache.
	ScheduleCacheSize int
	ScheduleCacheTTL  time.Duration
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (e EngineConfig) Location() *time.Location {
	if e.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// PersonnelConfig holds crew assignment configuration.
type PersonnelConfig struct {
	// ReleaseWindow is how far ahead staff unavailability releases assignments.
	ReleaseWindow time.Duration
}

// ReconciliationConfig holds the reconciliation worker pool configuration.
type ReconciliationConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	FanOut     int
}

// AuditConfig holds operator audit trail configuration.
// Entries go to MongoDB when it is enabled and to a bounded in-memory log otherwise.
type AuditConfig struct {
	Enabled      bool
	BufferSize   int
	Workers      int
	WriteTimeout time.Duration
	// TTL expires persisted entries. Zero keeps them forever.
	TTL         time.Duration
	MemoryLimit int
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			RateLimit:       getEnvInt("RATE_LIMIT", 100),
			RateWindow:      getEnvDuration("RATE_WINDOW", time.Minute),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			SwaggerUser:     getEnv("SWAGGER_USER", ""),
			SwaggerPass:     getEnv("SWAGGER_PASS", ""),
			PreviewDays:     getEnvInt("PREVIEW_DAYS", 7),
		},
		Auth: AuthConfig{
			APIKeyHashes: parseList(os.Getenv("API_KEY_HASHES")),
			JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		Database: DatabaseConfig{
			URI:                            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			DatabaseName:                   getEnv("MONGODB_DATABASE", "kandypack"),
			Enabled:                        getEnvBool("MONGODB_ENABLED", false),
			CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", 2),
			CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			DB:             getEnvInt("REDIS_DB", 0),
			LedgerPrefix:   getEnv("REDIS_LEDGER_PREFIX", "kandypack:ledger"),
			IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: parseList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "kandypack.allocation-events"),
		},
		Engine: EngineConfig{
			LedgerBackend:     strings.ToLower(getEnv("LEDGER_BACKEND", LedgerMemory)),
			HorizonDays:       getEnvInt("HORIZON_DAYS", 14),
			HandlingBuffer:    getEnvDuration("HANDLING_BUFFER", 60*time.Minute),
			Timezone:          getEnv("TIMEZONE", "UTC"),
			ScheduleCacheSize: getEnvInt("SCHEDULE_CACHE_SIZE", 1000),
			ScheduleCacheTTL:  getEnvDuration("SCHEDULE_CACHE_TTL", 5*time.Minute),
		},
		Personnel: PersonnelConfig{
			ReleaseWindow: getEnvDuration("STAFF_RELEASE_WINDOW", 7*24*time.Hour),
		},
		Reconciliation: ReconciliationConfig{
			Workers:    getEnvInt("RECONCILE_WORKERS", 4),
			QueueSize:  getEnvInt("RECONCILE_QUEUE_SIZE", 256),
			JobTimeout: getEnvDuration("RECONCILE_JOB_TIMEOUT", 30*time.Second),
			FanOut:     getEnvInt("RECONCILE_FAN_OUT", 4),
		},
		Audit: AuditConfig{
			Enabled:      getEnvBool("AUDIT_ENABLED", true),
			BufferSize:   getEnvInt("AUDIT_BUFFER_SIZE", 1000),
			Workers:      getEnvInt("AUDIT_WORKERS", 2),
			WriteTimeout: getEnvDuration("AUDIT_WRITE_TIMEOUT", 5*time.Second),
			TTL:          getEnvDuration("AUDIT_TTL", 90*24*time.Hour),
			MemoryLimit:  getEnvInt("AUDIT_MEMORY_LIMIT", 10000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseList splits a comma separated value, dropping blanks.
func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	return append(defaults, parseList(s)...)
}
