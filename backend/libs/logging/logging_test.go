package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		name  string
		opts  Options
		level zapcore.Level
	}{
		{name: "default", opts: Options{}, level: zapcore.InfoLevel},
		{name: "debug", opts: Options{Level: " DEBUG "}, level: zapcore.DebugLevel},
		{name: "unknown falls back", opts: Options{Level: "loud"}, level: zapcore.InfoLevel},
		{name: "development", opts: Options{Level: "warn", Development: true}, level: zapcore.WarnLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := NewLogger(tc.opts)
			if err != nil {
				t.Fatalf("new logger: %v", err)
			}
			if !logger.Core().Enabled(tc.level) {
				t.Fatalf("expected %s to be enabled", tc.level)
			}
			if tc.level > zapcore.DebugLevel && logger.Core().Enabled(tc.level-1) {
				t.Fatalf("expected %s to be disabled", tc.level-1)
			}
		})
	}
}
