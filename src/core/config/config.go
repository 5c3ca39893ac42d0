package config

import (
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func SetupEnv() {
	// Load environment variables from .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Warn("no .env file found, using process environment")
	}
}

// Config returns the environment variable or defaults to empty string
func Config(key string) string {
	return os.Getenv(key)
}

// ConfigOr returns the environment variable, or fallback when unset.
func ConfigOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
