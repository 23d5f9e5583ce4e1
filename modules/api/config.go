package api

import (
	"log"
	"os"
	"strconv"
)

// Config holds the HTTP API configuration.
type Config struct {
	Port int
	// LegacyStatusCodes reproduces the status codes older clients expect:
	// 500 for register validation and conflicts, and for logout without a
	// refresh cookie.
	LegacyStatusCodes bool
	// CookieSecure sets the Secure attribute on the refresh cookie.
	CookieSecure bool
}

// DefaultConfig returns the default API configuration.
func DefaultConfig() Config {
	return Config{
		Port: 3000,
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig. Malformed values are logged and ignored.
func LoadConfig() Config {
	config := DefaultConfig()

	if v := os.Getenv("API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Port = port
		} else {
			log.Printf("[api] Ignoring invalid API_PORT %q", v)
		}
	}
	config.LegacyStatusCodes = envBool("API_LEGACY_STATUS", config.LegacyStatusCodes)
	config.CookieSecure = envBool("API_COOKIE_SECURE", config.CookieSecure)

	return config
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[api] Ignoring invalid %s %q", key, v)
		return fallback
	}
	return b
}
