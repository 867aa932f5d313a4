package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	ExchangeMaxRetries int // the startup rate fetch has no retry policy unless configured
	InitialBackoff     time.Duration
	MaxConcurrency     int

	// Sessions
	SessionTTL     time.Duration
	InitialBalance string // decimal string, parsed by the session manager
	ReplyLatency   time.Duration

	// Exchange rates
	ExchangeRateURL    string // may contain a single %s for the API key
	ExchangeRateAPIKey string

	// Observability
	OTLPEndpoint   string
	TracingEnabled bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		ExchangeMaxRetries: getEnvInt("EXCHANGE_MAX_RETRIES", 0),
		InitialBackoff:     getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency:     getEnvInt("MAX_CONCURRENCY", 50),

		SessionTTL:     getEnvDuration("SESSION_TTL", 30*time.Minute),
		InitialBalance: getEnv("INITIAL_BALANCE", "25000.00"),
		ReplyLatency:   getEnvDuration("REPLY_LATENCY", 800*time.Millisecond),

		ExchangeRateURL:    getEnv("EXCHANGE_RATE_URL", "https://v6.exchangerate-api.com/v6/%s/latest/BRL"),
		ExchangeRateAPIKey: getEnv("EXCHANGE_RATE_API_KEY", ""),

		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TracingEnabled: getEnv("TRACING_ENABLED", "true") == "true",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
