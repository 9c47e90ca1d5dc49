package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/stackrender/internal/ports"
)

type logEntry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf, Component: "renderer"})
	require.NoError(t, err)

	log = log.WithFields(map[string]any{"mode": "question"})
	log.Info(context.Background(), "render completed", "question_id", "q1", "diagnostics", 2)

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "render completed", entry["message"])
	require.Equal(t, "renderer", entry["component"])
	require.Equal(t, "question", entry["mode"])
	require.Equal(t, "q1", entry["question_id"])
	require.Equal(t, float64(2), entry["diagnostics"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug(context.Background(), "this should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerErrorIncludesContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	ctx := ports.WithCorrelationID(context.Background(), "abc-123")
	log.With("store", "sqlite").Error(ctx, "failed", "error", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "failed", entry["message"])
	require.Equal(t, "sqlite", entry["store"])
	require.Equal(t, "boom", entry["error"])
	require.Equal(t, "abc-123", entry["correlation_id"])
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNoOpAndNilLoggers(t *testing.T) {
	t.Parallel()

	NewNoOp().Warn(context.Background(), "dropped")

	var nilLogger *Logger
	nilLogger.Info(context.Background(), "ignored")
	require.NotNil(t, nilLogger.With("k", "v"))
	require.Nil(t, nilLogger.WithFields(map[string]any{"k": "v"}))
}
