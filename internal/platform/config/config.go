package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string

	// VoterSalt is the server-side secret mixed into voter fingerprints.
	// It must never be persisted next to ledger rows.
	VoterSalt string

	MaxPunishmentRetries int
	WorkerPollInterval   time.Duration
	VoteRatePerMinute    int
	VoteRateBurst        int

	EnableActivationSweeper bool
	EnableResolutionSweeper bool
	EnableMonthlyRollover   bool
	EnableOutboxRelay       bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "peervote"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	salt := strings.TrimSpace(os.Getenv("VOTER_SALT"))
	if salt == "" {
		return Config{}, errors.New("VOTER_SALT is required")
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		VoterSalt:   salt,

		MaxPunishmentRetries: envInt("MAX_PUNISHMENT_RETRIES", 3),
		WorkerPollInterval:   envDuration("WORKER_POLL_INTERVAL", 15*time.Second),
		VoteRatePerMinute:    envInt("VOTE_RATE_PER_MINUTE", 30),
		VoteRateBurst:        envInt("VOTE_RATE_BURST", 10),

		EnableActivationSweeper: envBool("ENABLE_ACTIVATION_SWEEPER", true),
		EnableResolutionSweeper: envBool("ENABLE_RESOLUTION_SWEEPER", true),
		EnableMonthlyRollover:   envBool("ENABLE_MONTHLY_ROLLOVER", true),
		EnableOutboxRelay:       envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
