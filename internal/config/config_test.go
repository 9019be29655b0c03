package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/scores")
	t.Setenv("ROSTER_DIR", "")
	t.Setenv("BROADCAST_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "./rosters", cfg.RosterDir)
	require.Equal(t, 5*time.Second, cfg.BroadcastInterval)
}

func TestLoad_IntervalOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scores")
	t.Setenv("BROADCAST_INTERVAL", "10")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, cfg.BroadcastInterval)
}

func TestLoad_BadIntervalRejected(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scores")
	for _, raw := range []string{"abc", "0", "-3"} {
		t.Setenv("BROADCAST_INTERVAL", raw)
		_, err := Load()
		require.Error(t, err, "interval %q should be rejected", raw)
	}
}
