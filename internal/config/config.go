package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings
type Config struct {
	Port       string
	DBPath     string
	JWTSecret  string // empty disables auth on mutating routes
	RateLimit  int
	RateWindow time.Duration
	GinMode    string
}

// Load reads the environment, after merging an optional .env file
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Config] Ignoring .env: %v", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment with defaults
func FromEnv() *Config {
	return &Config{
		Port:       getEnv("PORT", ":8080"),
		DBPath:     getEnv("DB_PATH", "./data/paddock.db"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		RateLimit:  getEnvInt("RATE_LIMIT", 120),
		RateWindow: getEnvDuration("RATE_WINDOW", time.Minute),
		GinMode:    getEnv("GIN_MODE", "release"),
	}
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
	if err != nil || n <= 0 {
		log.Printf("[Config] Invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[Config] Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
