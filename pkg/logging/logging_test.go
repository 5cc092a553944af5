package logging

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.ErrorContains(t, err, "invalid log level")
	_, err = New(Config{Encoding: "xml"})
	assert.ErrorContains(t, err, "invalid log encoding")
}

func TestNewDefaults(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWriter(Config{Level: "warn", Encoding: "json"}, &buf)
	require.NoError(t, err)
	log.Info("dropped")
	log.Warn("kept", zap.String("field", "city"))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "city", entry["field"])
}
