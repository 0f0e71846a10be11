package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Output: &buf})
	require.NoError(t, err)

	ctx := ContextWithRequestID(context.Background(), "req-42")
	WithRequestID(ctx, log).Debug("hello")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "warn", Encoding: "console", Output: &buf})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestRequestID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.Equal(t, "abc", RequestID(ContextWithRequestID(context.Background(), "abc")))
	assert.Nil(t, WithRequestID(context.Background(), nil))
}
