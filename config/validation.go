package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequireDatabaseCredentials bool
	RequireJWTSecret           bool
	RequireUSDAKey             bool
}

var (
	// Environment-specific requirements
	requirements = map[Environment]ConfigRequirements{
		Development: {
			RequireDatabaseCredentials: true,
		},
		Test: {},
		CI: {
			RequireDatabaseCredentials: true,
			RequireJWTSecret:           true,
		},
		Production: {
			RequireDatabaseCredentials: true,
			RequireJWTSecret:           true,
			RequireUSDAKey:             true,
		},
	}
)

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	reqs := requirements[env]

	var errors []string
	add := func(field, msg string) {
		errors = append(errors, ValidationError{Field: field, Message: msg}.Error())
	}

	if reqs.RequireDatabaseCredentials {
		if cfg.DBUser == "" {
			add("DB_USER", "database user is required")
		}
		if cfg.DBPassword == "" {
			add("DB_PASSWORD", "database password is required")
		}
	}
	if reqs.RequireJWTSecret && cfg.JWTSecret == "" {
		add("JWT_SECRET", "jwt secret is required")
	}
	if reqs.RequireUSDAKey && cfg.USDAAPIKey == "" {
		add("USDA_API_KEY", "usda api key is required")
	}

	if cfg.SearchDefaultLimit <= 0 {
		add("SEARCH_DEFAULT_LIMIT", "must be positive")
	}
	if cfg.SearchMaxLimit < cfg.SearchDefaultLimit {
		add("SEARCH_MAX_LIMIT", "must not be smaller than SEARCH_DEFAULT_LIMIT")
	}
	if cfg.SearchCacheTTL <= 0 {
		add("SEARCH_CACHE_TTL", "must be positive")
	}
	if cfg.RemoteTimeout <= 0 {
		add("REMOTE_TIMEOUT", "must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}
