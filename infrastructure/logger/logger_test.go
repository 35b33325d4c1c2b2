package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prasetyowira/qr-utils/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCtxLogging_Fields(t *testing.T) {
	// Arrange
	core, logs := observer.New(zapcore.DebugLevel)
	defer Replace(zap.New(core))()
	ctx := WithRequestID(context.Background(), "req-1")

	// Act
	CtxError(ctx, "render failed", LoggerInfo{
		ContextFunction: constant.CtxRender,
		Error: &CustomError{
			Code:    constant.ErrCodeCapacity,
			Message: "too long",
			Type:    constant.ErrTypeCapacity,
		},
		Data: map[string]interface{}{
			constant.DataKind: "text",
		},
	})

	// Assert
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "render failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields[constant.LogRequestIDKey])
	assert.Equal(t, constant.CtxRender, fields[constant.LogFunctionKey])
	assert.Equal(t, "QR202", fields[constant.LogErrorCodeKey])
	assert.Equal(t, "capacity", fields[constant.LogErrorTypeKey])
	assert.Equal(t, "too long", fields[constant.LogErrorMessageKey])
	assert.Equal(t, "text", fields[constant.DataKind])
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer Replace(zap.New(core))()

	Debug("d", LoggerInfo{})
	Info("i", LoggerInfo{})
	Warn("w", LoggerInfo{})
	Error("e", LoggerInfo{})

	require.Equal(t, 4, logs.Len())
	levels := []zapcore.Level{}
	for _, e := range logs.All() {
		levels = append(levels, e.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}, levels)
	assert.NotContains(t, logs.All()[0].ContextMap(), constant.LogRequestIDKey)
}

func TestNilLoggerIsNoop(t *testing.T) {
	defer Replace(nil)()

	assert.NotPanics(t, func() {
		CtxInfo(context.Background(), "ignored", LoggerInfo{})
		Close()
	})
}

func TestBuild_WritesDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := Build(Options{Production: true, Level: "info", Dir: dir})
	require.NoError(t, err)
	l.Info("hello")
	_ = l.Sync()

	data, err := os.ReadFile(FilePath(dir, time.Now()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestBuild_InvalidLevel(t *testing.T) {
	_, err := Build(Options{Level: "loud"})

	assert.Error(t, err)
}

func TestFilePath(t *testing.T) {
	day := time.Date(2024, 2, 29, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, filepath.Join("logs", "qr-utils_20240229.log"), FilePath("logs", day))
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "", FormatMetadata(nil))
	assert.Equal(t, "a=1 • b=two", FormatMetadata(map[string]interface{}{"b": "two", "a": 1}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 50))
	assert.Equal(t, "héllo...", Truncate("héllo wörld", 5))
}

func TestGetRequestID(t *testing.T) {
	assert.Equal(t, "", getRequestID(context.Background()))
	assert.Equal(t, "abc", getRequestID(WithRequestID(context.Background(), "abc")))
}
