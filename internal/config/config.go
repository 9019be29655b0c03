// Package config reads process configuration from the environment, with a
// .env file picked up when present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DatabaseURL is the Postgres DSN for the score store.
	DatabaseURL string
	// RosterDir holds the {competition}_{division}.json roster files.
	RosterDir string
	// BroadcastInterval is the period of the dashboard broadcast loop.
	BroadcastInterval time.Duration
}

// Load reads .env (if any) and the environment. Only DATABASE_URL is
// mandatory; everything else has a default.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:              envOr("ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RosterDir:         envOr("ROSTER_DIR", "./rosters"),
		BroadcastInterval: 5 * time.Second,
	}

	if raw := os.Getenv("BROADCAST_INTERVAL"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return Config{}, errInvalidInterval(raw)
		}
		cfg.BroadcastInterval = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type errInvalidInterval string

func (e errInvalidInterval) Error() string {
	return "BROADCAST_INTERVAL must be a positive number of seconds, got " + strconv.Quote(string(e))
}
