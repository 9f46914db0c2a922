package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"bookit/internal/cache"
	"bookit/internal/database"
	"bookit/internal/messaging"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	BasePath       string
	RequestTimeout time.Duration
	MetricsEnabled bool

	Auth     AuthConfig
	Database database.Config
	Cache    cache.Config
	NATS     messaging.Config
}

// AuthConfig groups token signing and password hashing settings.
type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int

	// signup/login limiter, per client IP
	RateRPS   float64
	RateBurst int
}

// Load reads the environment (and a .env file when present). COMMON_ADDR,
// JWT_SECRET and DATABASE_URL are required; all missing ones are reported
// in a single error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8000"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		BasePath:       normalizeBasePath(os.Getenv("COMMON_ADDR")),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),

		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			AccessTTL:  time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
			RefreshTTL: time.Duration(getEnvInt("REFRESH_TOKEN_TTL_DAYS", 30)) * 24 * time.Hour,
			BcryptCost: getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
			RateRPS:    getEnvFloat("AUTH_RATE_RPS", 0.5),
			RateBurst:  getEnvInt("AUTH_RATE_BURST", 5),
		},

		Database: database.Config{
			URL:                os.Getenv("DATABASE_URL"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		Cache: cache.Config{
			Addr:     os.Getenv("VALKEY_ADDR"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TTL:      time.Duration(getEnvInt("CACHE_TTL_SEC", 30)) * time.Second,
		},

		NATS: messaging.Config{
			URL:       os.Getenv("NATS_URL"),
			ClusterID: getEnv("NATS_CLUSTER_ID", "bookit"),
			ClientID:  getEnv("NATS_CLIENT_ID", "bookit-api"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every required setting is present.
func (c *Config) Validate() error {
	var missing []string
	if c.BasePath == "" {
		missing = append(missing, "COMMON_ADDR")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	// "/" would collide with the liveness route
	if c.BasePath == "/" {
		return fmt.Errorf("COMMON_ADDR must be a non-root prefix such as /api")
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= c.Auth.AccessTTL {
		return fmt.Errorf("refresh token TTL must be longer than a positive access token TTL")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("invalid BCRYPT_COST: %d", c.Auth.BcryptCost)
	}
	return nil
}

// normalizeBasePath makes "api", "/api" and "/api/" all mean "/api".
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = "/" + strings.Trim(p, "/")
	return p
}

// getEnv получает значение переменной окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает целочисленное значение переменной окружения
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return defaultValue
}
