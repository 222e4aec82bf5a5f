package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/noop"
)

func setupTestLogger(level, environment string) (*StandardLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewStandardLoggerWithWriter(&buf, level, environment), &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestNewStandardLogger_Basic(t *testing.T) {
	logger := NewStandardLogger("info", "development")

	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger())
}

func TestGetSlogLevel(t *testing.T) {
	tests := []struct {
		levelStr string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.levelStr, func(t *testing.T) {
			assert.Equal(t, tt.expected, getSlogLevel(tt.levelStr))
		})
	}
}

func TestParseLogrusLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogrusLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLogrusLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, ParseLogrusLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLogrusLevel("verbose"))
}

func TestConfigureLogrus(t *testing.T) {
	original := logrus.GetLevel()
	defer logrus.SetLevel(original)

	ConfigureLogrus("debug", "development")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	ConfigureLogrus("error", "production")
	assert.Equal(t, logrus.ErrorLevel, logrus.GetLevel())
}

func TestStandardLogger_ProductionFloorsDebug(t *testing.T) {
	logger, buf := setupTestLogger("debug", "production")

	logger.Logger().Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Logger().Info("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestStandardLogger_ContextHelpers(t *testing.T) {
	logger, buf := setupTestLogger("info", "development")

	logger.WithComponent("prediction_service").Info("generated")
	entry := lastEntry(t, buf)
	assert.Equal(t, "prediction_service", entry["component"])
	assert.Equal(t, "generated", entry["msg"])

	logger.WithRequestID("req-1").Info("request")
	assert.Equal(t, "req-1", lastEntry(t, buf)["request_id"])
}

func TestStandardLogger_LogStartupAndShutdown(t *testing.T) {
	logger, buf := setupTestLogger("info", "development")

	logger.LogStartup("fantasyedge-api", "1.0.0", 8000)
	entry := lastEntry(t, buf)
	assert.Equal(t, "startup", entry["event"])
	assert.Equal(t, float64(8000), entry["port"])

	logger.LogShutdown("fantasyedge-api", "signal")
	entry = lastEntry(t, buf)
	assert.Equal(t, "shutdown", entry["event"])
	assert.Equal(t, "signal", entry["reason"])
}

func TestStandardLogger_LogDatabaseOperationIsDebug(t *testing.T) {
	logger, buf := setupTestLogger("info", "development")
	logger.LogDatabaseOperation("insert", "player_predictions", 12, 1)
	assert.Empty(t, buf.String())

	logger, buf = setupTestLogger("debug", "development")
	logger.LogDatabaseOperation("insert", "player_predictions", 12, 1)
	entry := lastEntry(t, buf)
	assert.Equal(t, "player_predictions", entry["table"])
	assert.Equal(t, float64(1), entry["rows_affected"])
}

func TestStandardLogger_LogAPIRequest(t *testing.T) {
	logger, buf := setupTestLogger("info", "development")

	logger.LogAPIRequest("GET", "/players", 200, 15, "req-9")

	entry := lastEntry(t, buf)
	assert.Equal(t, "api_request", entry["event"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/players", entry["path"])
	assert.Equal(t, float64(200), entry["status_code"])
	assert.Equal(t, "req-9", entry["request_id"])
}

func TestStandardLogger_LogBatchRun(t *testing.T) {
	logger, buf := setupTestLogger("info", "development")

	logger.LogBatchRun("generation", map[string]interface{}{"created": 3, "failed": 1})

	entry := lastEntry(t, buf)
	assert.Equal(t, "batch_run", entry["event"])
	assert.Equal(t, "generation", entry["kind"])
	assert.Equal(t, float64(3), entry["created"])
	assert.Equal(t, float64(1), entry["failed"])
}

func TestNewOTLPLogger(t *testing.T) {
	logger, err := NewOTLPLogger(OTLPConfig{
		Endpoint:       "http://localhost:4318",
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
		Environment:    "test",
		LogLevel:       "info",
	})
	if err != nil {
		assert.ErrorContains(t, err, "failed to create OTLP log exporter")
		return
	}
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Logger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = logger.Shutdown(ctx)
}

func TestOTLPLogger_NilShutdown(t *testing.T) {
	var logger *OTLPLogger
	assert.NoError(t, logger.Shutdown(context.Background()))
}

func TestOTLPHandler_LevelAndAttrs(t *testing.T) {
	handler := NewOTLPHandler(noop.NewLoggerProvider().Logger("test"), slog.LevelWarn)

	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))

	withAttrs := handler.WithAttrs([]slog.Attr{slog.Int("season", 2025)}).(*OTLPHandler)
	require.Len(t, withAttrs.attrs, 1)
	assert.Equal(t, "season", withAttrs.attrs[0].Key)
	assert.Equal(t, otellog.KindInt64, withAttrs.attrs[0].Value.Kind())
	assert.Empty(t, handler.attrs)

	grouped := withAttrs.WithGroup("player").(*OTLPHandler)
	kv := grouped.convertAttr(slog.String("id", "p1"))
	assert.Equal(t, "player.id", kv.Key)

	record := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	assert.NoError(t, grouped.Handle(context.Background(), record))
}

func TestConvertSlogLevelToSeverity(t *testing.T) {
	assert.Equal(t, otellog.SeverityDebug, convertSlogLevelToSeverity(slog.LevelDebug))
	assert.Equal(t, otellog.SeverityInfo, convertSlogLevelToSeverity(slog.LevelInfo))
	assert.Equal(t, otellog.SeverityWarn, convertSlogLevelToSeverity(slog.LevelWarn))
	assert.Equal(t, otellog.SeverityError, convertSlogLevelToSeverity(slog.LevelError))
	assert.Equal(t, otellog.SeverityInfo, convertSlogLevelToSeverity(slog.Level(10)))
}
