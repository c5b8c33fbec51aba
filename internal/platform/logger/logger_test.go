package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"verbose": slog.LevelInfo,
	}
	for value, want := range cases {
		t.Setenv("DOCPORT_LOG_LEVEL", value)
		assert.Equal(t, want, levelFromEnv(), "DOCPORT_LOG_LEVEL=%q", value)
	}
}

func TestNewHonorsLevel(t *testing.T) {
	t.Setenv("DOCPORT_LOG_LEVEL", "error")
	log := New()
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, log.Enabled(context.Background(), slog.LevelError))
}
