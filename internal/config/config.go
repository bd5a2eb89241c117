package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/PratikDhanave/expense-tracker-service/internal/idempotency"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL          string
	Port           string
	IdempotencyTTL time.Duration
}

// Load reads values from the environment, honouring a local .env file when
// present. DB_URL is required; PORT defaults to 8080; IDEMPOTENCY_TTL is an
// optional Go duration overriding the 24h retention window.
func Load() (Config, error) {
	_ = godotenv.Load()

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return Config{}, errors.New("DB_URL required")
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	ttl := idempotency.DefaultTTL
	if raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_TTL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, errors.New("IDEMPOTENCY_TTL must be a positive duration (e.g. 24h)")
		}
		ttl = d
	}

	return Config{
		DBURL:          dbURL,
		Port:           port,
		IdempotencyTTL: ttl,
	}, nil
}
