package logger

import (
	"testing"

	"github.com/amirhossein-jamali/coaching-wallet/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected core.LogLevel
	}{
		{"debug", core.LogLevelDebug},
		{"INFO", core.LogLevelInfo},
		{"warn", core.LogLevelWarn},
		{"warning", core.LogLevelWarn},
		{"error", core.LogLevelError},
		{"", core.LogLevelInfo},
		{"verbose", core.LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestZapLogger_WritesFieldsAndHonoursLevel(t *testing.T) {
	// Arrange
	obsCore, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(obsCore, core.LogLevelInfo)

	// Act
	log.Debug("hidden", nil)
	log.Info("Wallet created", map[string]any{"user_id": uint64(7)})
	log.SetLevel(core.LogLevelError)
	log.Warn("hidden too", nil)
	log.Error("Failed", map[string]any{"error": "boom"})

	// Assert
	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "Wallet created", entries[0].Message)
	assert.Equal(t, uint64(7), entries[0].ContextMap()["user_id"])
	assert.Equal(t, "Failed", entries[1].Message)
	assert.Equal(t, core.LogLevelError, log.GetLevel())
}

func TestNewZapLogger(t *testing.T) {
	// Act
	log, err := NewZapLogger(Options{Level: "warn", Format: "json", Output: "stderr"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelWarn, log.GetLevel())
}

func TestRecordingLogger(t *testing.T) {
	// Arrange
	log := NewRecordingLogger()

	// Act
	log.Debug("debug", nil)
	log.Warn("Reservation release clamped", map[string]any{"user_id": uint64(1)})
	log.SetLevel(core.LogLevelError)
	log.Warn("dropped", nil)

	// Assert
	assert.Len(t, log.Entries(), 2)
	assert.Equal(t, []string{"Reservation release clamped"}, log.Messages(core.LogLevelWarn))
}
