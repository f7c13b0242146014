// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the server and the admin CLI.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// DatabaseURL selects PostgreSQL; empty runs on the in-memory store.
	DatabaseURL string
	DBMaxConns  int

	// RedisAddr enables distributed posting locks; empty uses in-process locks.
	RedisAddr string
	LockTTL   time.Duration

	// Units the milk quality ledger records in.
	MassUOM   string
	VolumeUOM string
}

// Development reports whether logs should be human-readable.
func (c Config) Development() bool {
	return c.Env == "development"
}

// UsesMemory reports whether no database is configured.
func (c Config) UsesMemory() bool {
	return c.DatabaseURL == ""
}

// Load reads the environment, first applying a .env file from the working
// directory if one exists. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:        getEnv("APP_PORT", "8080"),
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 20),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		LockTTL:     getEnvDuration("LOCK_TTL", 30*time.Second),
		MassUOM:     getEnv("MILK_MASS_UOM", "KG"),
		VolumeUOM:   getEnv("MILK_VOLUME_UOM", "Litre"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
