package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"so101builder/internal/apperrors"

	"github.com/joho/godotenv"
)

// Config is the complete service configuration, read from the environment.
type Config struct {
	Env      string
	Port     string
	LogMode  string
	Database DatabaseConfig
	Redis    RedisConfig
	Gemini   GeminiConfig
	Search   SearchConfig
	Storage  StorageConfig
	Session  SessionConfig
	CORS     CORSConfig
}

type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	URL string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type SearchConfig struct {
	TavilyAPIKey string
	SerpAPIKey   string
	Timeout      time.Duration
	Retries      int
	CacheTTL     time.Duration
}

// StorageConfig holds the Cloudflare R2 bucket used for export uploads.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type SessionConfig struct {
	ExpiryDays int
}

func (s SessionConfig) Expiry() time.Duration {
	return time.Duration(s.ExpiryDays) * 24 * time.Hour
}

type CORSConfig struct {
	Origins []string
}

var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:5180",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:5180",
}

// Load reads .env (outside production) and the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	cfg := &Config{
		Env:     getEnvOrDefault("APP_ENV", "development"),
		Port:    getEnvOrDefault("PORT", "8000"),
		LogMode: getEnvOrDefault("LOG_MODE", "dev"),
	}

	db, err := loadDatabaseConfig()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load database configuration")
	}
	cfg.Database = *db

	cfg.Redis = RedisConfig{URL: os.Getenv("REDIS_URL")}
	cfg.Gemini = loadGeminiConfig()
	cfg.Search = loadSearchConfig()
	cfg.Storage = loadStorageConfig()
	cfg.Session = SessionConfig{ExpiryDays: getEnvIntOrDefault("SESSION_EXPIRY_DAYS", 30)}
	cfg.CORS = CORSConfig{Origins: getEnvListOrDefault("CORS_ORIGINS", defaultCORSOrigins)}

	if cfg.Session.ExpiryDays <= 0 {
		return nil, apperrors.ConfigInvalid("SESSION_EXPIRY_DAYS must be positive")
	}

	return cfg, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, apperrors.ConfigInvalid("DATABASE_URL is required")
	}
	return &DatabaseConfig{
		URL:             url,
		MaxConns:        int32(getEnvIntOrDefault("DB_MAX_CONNS", 10)),
		MinConns:        int32(getEnvIntOrDefault("DB_MIN_CONNS", 2)),
		MaxConnLifetime: getEnvDurationOrDefault("DB_MAX_CONN_LIFETIME", time.Hour),
	}, nil
}

func loadGeminiConfig() GeminiConfig {
	return GeminiConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		Model:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		Timeout: getEnvDurationOrDefault("GEMINI_TIMEOUT", 30*time.Second),
	}
}

func loadSearchConfig() SearchConfig {
	return SearchConfig{
		TavilyAPIKey: os.Getenv("TAVILY_API_KEY"),
		SerpAPIKey:   os.Getenv("SERPAPI_KEY"),
		Timeout:      getEnvDurationOrDefault("PRICE_SEARCH_TIMEOUT", 30*time.Second),
		Retries:      getEnvIntOrDefault("PRICE_SEARCH_RETRIES", 2),
		CacheTTL:     getEnvDurationOrDefault("PRICE_CACHE_TTL", 6*time.Hour),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Endpoint:      os.Getenv("R2_ENDPOINT"),
		AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		SecretKey:     os.Getenv("R2_SECRET_KEY"),
		Bucket:        os.Getenv("R2_BUCKET_NAME"),
		PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// comma separated
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
