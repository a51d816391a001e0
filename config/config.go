// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
)

// Config holds all application configuration.
type Config struct {
	// DBDriver selects the store backend: postgres (production) or sqlite (local use).
	DBDriver string

	// PostgreSQL – either set DatabaseURL directly, or the individual fields.
	DatabaseURL string
	DBUser      string
	DBPass      string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string

	// SQLite database file, used when DBDriver is sqlite.
	SQLitePath string

	// JWT signing secret (required for the API server).
	JWTSecret string

	// Server
	Debug          bool
	Port           string
	TLSDomains     []string
	RequestTimeout time.Duration
	AdminUsers     []string

	// Legacy scoring database – used only by cmd/migrate.
	LegacyDriver string
	LegacyDSN    string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
// Invalid server configuration is fatal.
func Load() *Config {
	cfg := read()
	if err := cfg.Validate(); err != nil {
		log.Fatal("config: ", err)
	}
	return cfg
}

// LoadTool reads the same settings as Load but only requires the database
// settings, so command line tools can run without a JWT secret.
func LoadTool() *Config {
	cfg := read()
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatal("config: ", err)
	}
	return cfg
}

func read() *Config {
	v := newViper()

	// Defaults
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_USER", "skyscore")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "skyscore")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "skyscore.db")
	v.SetDefault("PORT", ":9000")
	v.SetDefault("TLS_DOMAINS", "")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
	v.SetDefault("ADMIN_USERS", "admin")
	v.SetDefault("LEGACY_DRIVER", DriverSQLite)
	v.SetDefault("DEBUG", false)

	return &Config{
		DBDriver:       strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		DBUser:         v.GetString("DB_USER"),
		DBPass:         v.GetString("DB_PASS"),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		Debug:          v.GetBool("DEBUG"),
		Port:           v.GetString("PORT"),
		TLSDomains:     splitTrimmed(v.GetString("TLS_DOMAINS")),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		AdminUsers:     splitTrimmed(v.GetString("ADMIN_USERS")),
		LegacyDriver:   strings.ToLower(strings.TrimSpace(v.GetString("LEGACY_DRIVER"))),
		LegacyDSN:      v.GetString("LEGACY_DSN"),
	}
}

// PostgresDSN returns the full PostgreSQL connection string.
// DATABASE_URL takes precedence over individual fields.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser,
		c.DBPass,
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// SQLiteDSN returns the modernc sqlite DSN with foreign keys and a busy timeout enabled.
func (c *Config) SQLiteDSN() string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", c.SQLitePath)
}

// JWTKey returns the JWT signing key as a byte slice.
func (c *Config) JWTKey() []byte {
	return []byte(c.JWTSecret)
}

// IsAdmin reports whether username is listed in ADMIN_USERS.
func (c *Config) IsAdmin(username string) bool {
	normalized := strings.ToLower(strings.TrimSpace(username))
	for _, admin := range c.AdminUsers {
		if normalized == strings.ToLower(admin) {
			return true
		}
	}
	return false
}

// Validate checks everything the API server needs.
func (c *Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// ValidateDatabase checks the store settings only.
func (c *Config) ValidateDatabase() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" && c.DBPass == "" {
			return errors.New("DATABASE_URL or DB_PASS must be set")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH must be set when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DBDriver, DriverPostgres, DriverSQLite)
	}
	return nil
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
