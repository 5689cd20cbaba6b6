package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewReturnsUsableLogger(t *testing.T) {
	l := New()
	if l == nil {
		t.Fatal("expected logger instance")
	}
	if !l.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info level to be enabled by default")
	}
}

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"junk":  slog.LevelInfo,
	}
	for value, want := range cases {
		t.Setenv("LOG_LEVEL", value)
		if got := levelFromEnv(); got != want {
			t.Errorf("LOG_LEVEL=%q: expected %v, got %v", value, want, got)
		}
	}
}
