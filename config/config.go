package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Search configuration
	SearchDefaultLimit int
	SearchMaxLimit     int
	SearchCacheTTL     time.Duration

	// Remote nutrition source and the USDA upstream behind the nutrition proxy
	NutritionAPIURL string
	USDAAPIURL      string
	USDAAPIKey      string
	RemoteTimeout   time.Duration
}

const (
	defaultSearchLimit    = 20
	defaultSearchMaxLimit = 100
	defaultCacheTTL       = time.Hour
	defaultRemoteTimeout  = 10 * time.Second
	defaultUSDAAPIURL     = "https://api.nal.usda.gov/fdc/v1/foods/search"
)

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	if env == Development {
		// A missing .env file is fine; real deployments use the environment.
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := loadFromEnvironment(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromEnvironment reads plain settings from the environment. Sensitive values
// fall back to Docker secrets when the variable is empty, except in CI where only
// the environment is used.
func loadFromEnvironment(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getSensitive("DB_USER", "db_user")
	cfg.DBPassword = getSensitive("DB_PASSWORD", "db_password")
	cfg.DBName = getEnv("DB_NAME", "dietplan")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getSensitive("REDIS_PASSWORD", "redis_password")
	cfg.RedisURL = getSensitive("REDIS_URL", "redis_url")
	cfg.RedisDB = 0 // This is a constant, not a secret

	cfg.JWTSecret = getSensitive("JWT_SECRET", "jwt_secret")

	var err error
	if cfg.SearchDefaultLimit, err = getInt("SEARCH_DEFAULT_LIMIT", defaultSearchLimit); err != nil {
		return err
	}
	if cfg.SearchMaxLimit, err = getInt("SEARCH_MAX_LIMIT", defaultSearchMaxLimit); err != nil {
		return err
	}
	if cfg.SearchCacheTTL, err = getDuration("SEARCH_CACHE_TTL", defaultCacheTTL); err != nil {
		return err
	}
	if cfg.RemoteTimeout, err = getDuration("REMOTE_TIMEOUT", defaultRemoteTimeout); err != nil {
		return err
	}

	cfg.NutritionAPIURL = getEnv("NUTRITION_API_URL", "")
	cfg.USDAAPIURL = getEnv("USDA_API_URL", defaultUSDAAPIURL)
	cfg.USDAAPIKey = getSensitive("USDA_API_KEY", "usda_api_key")

	return nil
}

// RedisEnabled reports whether any Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// DSN returns the lib/pq connection string for the configured database
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getSensitive(key, secret string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	if IsCI() {
		return ""
	}
	return readSecret(secret)
}

func getInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("invalid integer %q", raw)}
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("invalid duration %q", raw)}
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
