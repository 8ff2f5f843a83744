package config

import (
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"golang.org/x/crypto/bcrypt"
)

// devFallbackSecret keeps local development working without a .env file.
// It must never be used in production; Load logs a warning when it is active.
const devFallbackSecret = "dev-only-insecure-secret"

// Config holds everything read from the environment at startup. It is
// constructed once in main and treated as immutable afterwards.
type Config struct {
	Port       int
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// Load reads the process configuration from the environment, applying
// defaults and logging warnings for values that fall back.
func Load() Config {
	cfg := Config{
		Port:       8080,
		JWTSecret:  os.Getenv("JWT_SECRET"),
		TokenTTL:   7 * 24 * time.Hour,
		BcryptCost: bcrypt.DefaultCost,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			log.Printf("Warning: Invalid PORT environment variable '%s'. Using default %d. Error: %v", portStr, cfg.Port, err)
		} else {
			cfg.Port = port
		}
	}

	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET is not set, using insecure development fallback. Do NOT run this in production.")
		cfg.JWTSecret = devFallbackSecret
	}

	if ttlStr := os.Getenv("JWT_EXPIRES_IN"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil || ttl <= 0 {
			log.Printf("Warning: Invalid JWT_EXPIRES_IN '%s'. Using default %s.", ttlStr, cfg.TokenTTL)
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		cost, err := strconv.Atoi(costStr)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			log.Printf("Warning: Invalid BCRYPT_COST '%s'. Using default %d.", costStr, cfg.BcryptCost)
		} else {
			cfg.BcryptCost = cost
		}
	}

	return cfg
}
