package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	previous := gin.Mode()
	gin.SetMode(gin.ReleaseMode)
	t.Cleanup(func() { gin.SetMode(previous) })

	var buf bytes.Buffer
	return NewWithWriter(&buf, level), &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestGetLogLevel(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.Warn("kept")
	assert.Equal(t, "kept", decode(t, buf)["msg"])
}

func TestLogPurchaseCompleted(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.LogPurchaseCompleted(context.Background(), 42, 3, 50)

	entry := decode(t, buf)
	assert.Equal(t, "Purchase Completed", entry["msg"])
	assert.EqualValues(t, 42, entry["account_id"])
	assert.EqualValues(t, 3, entry["seats"])
	assert.EqualValues(t, 50, entry["amount"])
}

func TestErrorWithContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.WithAccountID(7).ErrorWithContext(context.Background(), "Release failed", errors.New("redis down"), map[string]interface{}{
		"seats": 2,
	})

	entry := decode(t, buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "redis down", entry["error"])
	assert.EqualValues(t, 7, entry["account_id"])
	assert.EqualValues(t, 2, entry["seats"])
}
