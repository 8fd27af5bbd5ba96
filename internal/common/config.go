package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Gemini    GeminiConfig
	OpenAI    OpenAIConfig
	Storage   StorageConfig
	Batch     BatchConfig
	Cache     CacheConfig
	Reconcile ReconcileConfig
}

// DatabaseConfig holds hosted-store (Postgres) configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// GeminiConfig holds the primary extraction provider configuration.
// Channels is an ordered comma-separated list of model@apiVersion pairs,
// tried in order until one yields a parseable report.
type GeminiConfig struct {
	APIKey   string
	BaseURL  string
	Channels string
	Timeout  time.Duration
}

// OpenAIConfig holds the optional terminal fallback channel. Disabled when
// APIKey is empty.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// StorageConfig holds object-storage configuration for source images
type StorageConfig struct {
	Bucket string
	Prefix string
}

// BatchConfig holds batch-orchestration policy values. Delay is the pause
// between extraction calls, sized to the provider's quota tier.
type BatchConfig struct {
	Delay time.Duration
}

// CacheConfig holds the local demo-cache location
type CacheConfig struct {
	Path string
}

// ReconcileConfig controls what happens to local records after a successful
// push to the hosted store. PurgeLocal defaults to false: reconciled records
// stay in the cache and a second run will re-insert them.
type ReconcileConfig struct {
	PurgeLocal bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Gemini: GeminiConfig{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			BaseURL:  getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Channels: getEnv("GEMINI_CHANNELS", "gemini-1.5-flash@v1beta,gemini-1.5-flash-8b@v1beta,gemini-1.5-pro@v1"),
			Timeout:  getEnvAsDuration("GEMINI_TIMEOUT", 60*time.Second),
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			Timeout: getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
		Storage: StorageConfig{
			Bucket: getEnv("STORAGE_BUCKET", ""),
			Prefix: getEnv("STORAGE_PREFIX", "reportes"),
		},
		Batch: BatchConfig{
			// 12s keeps the free tier under 5 requests per minute.
			Delay: getEnvAsDuration("BATCH_DELAY", 12*time.Second),
		},
		Cache: CacheConfig{
			Path: getEnv("DEMO_CACHE_PATH", "./demo_cache.db"),
		},
		Reconcile: ReconcileConfig{
			PurgeLocal: getEnvAsBool("RECONCILE_PURGE_LOCAL", false),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.Gemini.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
