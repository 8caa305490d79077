// ==============================================================================
// CONFIG PACKAGE - pkg/config/config.go
// ==============================================================================
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	TradeGov  TradeGovConfig
	Screening ScreeningConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// TradeGovConfig configures the consolidated screening list gateway.
type TradeGovConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

// ScreeningConfig carries the regulation-driven screening policy knobs.
// The defaults mirror current U.S. export-control practice; overrides exist
// because sanctions programs change by regulation, not by release.
type ScreeningConfig struct {
	CacheTTL time.Duration
	// BlockingPrograms overrides the default hard-block program set
	// (comma-separated program names).
	BlockingPrograms []string
	// ActionOverrides remaps list categories to required actions, e.g.
	// "STATE_DEBARRED=DO_NOT_SHIP,OTHER=MANUAL_REVIEW".
	ActionOverrides map[string]string
	// AuditRetention bounds the in-memory audit trail.
	AuditRetention int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "change-this-secret"),
			Expiration: getDurationEnv("JWT_EXPIRATION", 15*time.Minute),
		},
		TradeGov: TradeGovConfig{
			BaseURL:    getEnv("TRADE_GOV_API_URL", "https://api.trade.gov/consolidated_screening_list/search"),
			APIKey:     getEnv("TRADE_GOV_API_KEY", ""),
			Timeout:    getDurationEnv("TRADE_GOV_TIMEOUT", 15*time.Second),
			MaxRetries: getIntEnv("TRADE_GOV_MAX_RETRIES", 2),
		},
		Screening: ScreeningConfig{
			CacheTTL:         getDurationEnv("SCREENING_CACHE_TTL", 24*time.Hour),
			BlockingPrograms: getListEnv("SCREENING_BLOCKING_PROGRAMS"),
			ActionOverrides:  getMapEnv("SCREENING_ACTION_OVERRIDES"),
			AuditRetention:   getIntEnv("SCREENING_AUDIT_RETENTION", 1000),
		},
		RateLimit: RateLimitConfig{
			Requests: getIntEnv("RATE_LIMIT_REQUESTS", 100),
			Window:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func normalizeRedisURL(url string) string {
	// Strip redis:// or redis+tls:// scheme if present
	if strings.HasPrefix(url, "redis+tls://") {
		return url[len("redis+tls://"):]
	}
	if strings.HasPrefix(url, "redis://") {
		return url[len("redis://"):]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getListEnv parses a comma-separated env var. Returns nil when unset so
// callers can fall back to their own defaults.
func getListEnv(key string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getMapEnv parses "KEY=VALUE,KEY=VALUE" env vars.
func getMapEnv(key string) map[string]string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(value, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		k := strings.TrimSpace(kv[0])
		v := strings.TrimSpace(kv[1])
		if k != "" && v != "" {
			out[k] = v
		}
	}
	return out
}
