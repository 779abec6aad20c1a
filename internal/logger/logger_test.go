package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"course-checkout/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.Log{Level: "info", Format: "json"}, &buf)

	log.Debug("hidden")
	log.Info("payment reconciled", "intent_id", "pi_123")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"intent_id":"pi_123"`)
}
