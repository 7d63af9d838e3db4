package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

const fallbackSessionSecret = "dev-secret-change-in-production"

// DBConfig holds MySQL connection settings. A set Host selects the MySQL
// storage engine at startup.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Configured reports whether MySQL connection settings are present.
func (c DBConfig) Configured() bool {
	return c.Host != ""
}

// DSN renders the config in go-sql-driver format. parseTime is required so
// DATETIME columns scan into time.Time.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

type Config struct {
	Port          string
	Env           string
	DB            DBConfig
	DBFile        string
	SessionSecret string
	SessionTTL    time.Duration
	AdminEmail    string
	ExtractorURL  string
}

// Load reads configuration from the environment. The storage engine is
// decided here once: DB_HOST selects MySQL, otherwise DB_FILE selects the
// JSON-file engine, otherwise state is kept in memory.
func Load() Config {
	cfg := Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnvInt("DB_PORT", 3306),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_DATABASE"),
		},
		DBFile:        os.Getenv("DB_FILE"),
		SessionSecret: getEnv("SESSION_SECRET", fallbackSessionSecret),
		SessionTTL:    24 * time.Hour,
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		ExtractorURL:  os.Getenv("EXTRACTOR_URL"),
	}

	if cfg.Env == "production" && cfg.SessionSecret == fallbackSessionSecret {
		slog.Error("SESSION_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using fallback", "key", key, "value", v)
		return fallback
	}
	return n
}
