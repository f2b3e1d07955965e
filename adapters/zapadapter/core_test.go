package zapadapter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abbacchio/abbacchio-go/internal/testutils"
	"github.com/abbacchio/abbacchio-go/logging"
)

func newTestLogger() (*zap.Logger, *testutils.MockTransport) {
	mock := &testutils.MockTransport{}
	core := NewCore(Options{Transport: mock})
	return zap.New(core), mock
}

func TestCore_Basic(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Info("hello", zap.Int("user_id", 123))

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, logging.LevelInfo, entry.Level)
	assert.Equal(t, "hello", entry.Msg)
	assert.Equal(t, int64(123), entry.Extra["user_id"])
}

func TestCore_LevelMapping(t *testing.T) {
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

func TestCore_Enabler(t *testing.T) {
	mock := &testutils.MockTransport{}
	core := NewCore(Options{Transport: mock, Enabler: zapcore.WarnLevel})
	logger := zap.New(core)

	logger.Info("dropped")
	logger.Warn("kept")

	entries := mock.GetEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Msg)
}

func TestCore_WithFields(t *testing.T) {
	logger, mock := newTestLogger()

	logger.With(zap.String("env", "prod")).Info("m", zap.String("op", "read"))

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, "prod", entry.Extra["env"])
	assert.Equal(t, "read", entry.Extra["op"])
}

func TestCore_LoggerName(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Named("billing").Info("charged")

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, "billing", entry.Name)
}

func TestCore_ErrorField(t *testing.T) {
	logger, mock := newTestLogger()

	logger.Error("query failed", zap.Error(errors.New("connection reset")), zap.String("table", "users"))

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	require.NotNil(t, entry.Err)
	assert.Equal(t, "connection reset", entry.Err.Message)
	assert.NotContains(t, entry.Extra, "error")
	assert.Equal(t, "users", entry.Extra["table"])
}

func TestCore_EntryTime(t *testing.T) {
	mock := &testutils.MockTransport{}
	core := NewCore(Options{Transport: mock})

	then := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, core.Write(zapcore.Entry{
		Time:    then,
		Level:   zapcore.InfoLevel,
		Message: "stamped",
	}, nil))

	entry, ok := mock.LastEntry()
	require.True(t, ok)
	assert.Equal(t, then.UnixMilli(), entry.Time)
}

func TestCore_InjectedTransportNotShutDown(t *testing.T) {
	mock := &testutils.MockTransport{}
	core := NewCore(Options{Transport: mock})

	core.Shutdown(time.Second)
	assert.Equal(t, 0, mock.ShutdownCalls)
}
