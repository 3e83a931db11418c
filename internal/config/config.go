package config

import (
	"fmt"
	"os"
)

// Config holds everything the process needs from the environment.
type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	StreamAPIKey    string
	StreamAPISecret string
	CORSOrigin      string
	Production      bool
}

// Load reads configuration from environment variables. Required values
// missing from the environment fail startup rather than surfacing later as
// broken requests.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		StreamAPIKey:    os.Getenv("STREAM_API_KEY"),
		StreamAPISecret: os.Getenv("STREAM_API_SECRET"),
		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:3000"),
		Production:      os.Getenv("APP_ENV") == "production",
	}

	required := map[string]string{
		"DATABASE_URL":      cfg.DatabaseURL,
		"JWT_SECRET":        cfg.JWTSecret,
		"STREAM_API_KEY":    cfg.StreamAPIKey,
		"STREAM_API_SECRET": cfg.StreamAPISecret,
	}
	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("%s environment variable is not set", name)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
