package auth

import (
	"errors"
	"fmt"
	"os"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Refresh-token store backends.
const (
	RefreshStoreSQL   = "sql"
	RefreshStoreRedis = "redis"
)

// Config holds the auth module configuration.
type Config struct {
	DBDriver     string
	DBDSN        string
	RefreshStore string
	RedisAddr    string
	RedisPrefix  string
	JWT          JWTConfig
}

// DefaultConfig returns a configuration suitable for local development.
func DefaultConfig() Config {
	return Config{
		DBDriver:     DriverSQLite,
		DBDSN:        "auth.db",
		RefreshStore: RefreshStoreSQL,
		RedisAddr:    "localhost:6379",
		RedisPrefix:  "refresh:",
		JWT:          DefaultJWTConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of
// DefaultConfig.
func LoadConfig() Config {
	config := DefaultConfig()

	if v := os.Getenv("AUTH_DB_DRIVER"); v != "" {
		config.DBDriver = v
	}
	if v := os.Getenv("AUTH_DB_DSN"); v != "" {
		config.DBDSN = v
	}
	if v := os.Getenv("AUTH_REFRESH_STORE"); v != "" {
		config.RefreshStore = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.RedisAddr = v
	}
	if v := os.Getenv("ACCESS_SECRET"); v != "" {
		config.JWT.AccessSecret = v
	}
	if v := os.Getenv("REFRESH_SECRET"); v != "" {
		config.JWT.RefreshSecret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		config.JWT.Issuer = v
	}

	return config
}

// Validate reports configuration errors that would make the module unusable.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.DBDriver)
	}

	switch c.RefreshStore {
	case RefreshStoreSQL, RefreshStoreRedis:
	default:
		return fmt.Errorf("unknown refresh store %q", c.RefreshStore)
	}

	if c.DBDSN == "" {
		return errors.New("database DSN is empty")
	}
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("access and refresh secrets must be set")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}

	return nil
}
