package logging

import (
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level   string
		enabled slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(tt.level)
			if logger == nil || logger.Logger == nil {
				t.Fatal("New() returned nil logger")
			}
			if !logger.Enabled(nil, tt.enabled) {
				t.Errorf("level %q should be enabled for %v", tt.level, tt.enabled)
			}
		})
	}
}

func TestWithReturnsChild(t *testing.T) {
	logger := Default()
	child := logger.With("business_id", 7)
	if child == nil || child.Logger == logger.Logger {
		t.Fatal("With() should return a distinct child logger")
	}
}
