package slogadapter

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/abbacchio/abbacchio-go/internal/testutils"
	"github.com/abbacchio/abbacchio-go/logging"
)

func newTestLogger() (*slog.Logger, *testutils.MockTransport) {
	mock := &testutils.MockTransport{}
	handler := NewHandler(Options{Transport: mock, Name: "svc"})
	return slog.New(handler), mock
}

func TestHandler_Basic(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Info("hello", "user_id", 123)

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, logging.LevelInfo, entry.Level)
	assert.Equal(t, "hello", entry.Msg)
	assert.Equal(t, "svc", entry.Name)
	assert.Equal(t, int64(123), entry.Extra["user_id"])
	assert.NotEmpty(t, entry.ID)
}

func TestHandler_LevelMapping(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	entries := mock.GetEntries()
	require.Len(t, entries, 4)
	assert.Equal(t, logging.LevelDebug, entries[0].Level)
	assert.Equal(t, logging.LevelInfo, entries[1].Level)
	assert.Equal(t, logging.LevelWarn, entries[2].Level)
	assert.Equal(t, logging.LevelError, entries[3].Level)
}

func TestHandler_MinimumLevel(t *testing.T) {
	mock := &testutils.MockTransport{}
	handler := NewHandler(Options{Transport: mock, Level: slog.LevelWarn})
	logger := slog.New(handler)

	logger.Info("dropped")
	logger.Warn("kept")

	entries := mock.GetEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Msg)
}

func TestHandler_WithAttrsAndGroups(t *testing.T) {
	logger, mock := newTestLogger()

	logger.With("env", "prod").WithGroup("req").With("id", "r-1").Info("handled", "status", 200)

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, "prod", entry.Extra["env"])
	assert.Equal(t, "r-1", entry.Extra["req.id"])
	assert.Equal(t, int64(200), entry.Extra["req.status"])
}

func TestHandler_InlineGroupAttr(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Info("m", slog.Group("db", slog.String("table", "users")))

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, "users", entry.Extra["db.table"])
}

func TestHandler_ErrorAttr(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Error("query failed", "error", errors.New("connection reset"), "table", "users")

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	require.NotNil(t, entry.Err)
	assert.Equal(t, "connection reset", entry.Err.Message)
	assert.NotContains(t, entry.Extra, "error")
	assert.Equal(t, "users", entry.Extra["table"])
}

func TestHandler_RecordTimeOverridesStamp(t *testing.T) {
	mock := &testutils.MockTransport{}
	handler := NewHandler(Options{Transport: mock})

	then := time.Date(2020, 6, 1, 12, 0, 0, 0, time.UTC)
	record := slog.NewRecord(then, slog.LevelInfo, "old news", 0)
	require.NoError(t, handler.Handle(context.Background(), record))

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, then.UnixMilli(), entry.Time)
}

func TestHandler_TraceCorrelation(t *testing.T) {
	logger, mock := newTestLogger()

	traceID := trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10}
	spanID := trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	logger.InfoContext(ctx, "traced")

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, traceID.String(), entry.Extra["trace_id"])
	assert.Equal(t, spanID.String(), entry.Extra["span_id"])
}

func TestHandler_NoTraceWithoutSpan(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Info("untraced")

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.NotContains(t, entry.Extra, "trace_id")
	assert.NotContains(t, entry.Extra, "span_id")
}

func TestHandler_InjectedTransportNotShutDown(t *testing.T) {
	mock := &testutils.MockTransport{}
	handler := NewHandler(Options{Transport: mock})

	handler.Shutdown(time.Second)
	assert.Equal(t, 0, mock.ShutdownCalls)
}
