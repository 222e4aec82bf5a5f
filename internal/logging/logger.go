package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger interface defines the common logging methods used across the service
type Logger interface {
	WithComponent(componentName string) *slog.Logger
	WithRequestID(requestID string) *slog.Logger
	LogStartup(serviceName string, version string, port int)
	LogShutdown(serviceName string, reason string)
	LogDatabaseOperation(operation string, table string, duration int64, rowsAffected int64)
	LogAPIRequest(method string, path string, statusCode int, duration int64, requestID string)
	LogBatchRun(kind string, details map[string]interface{})
	Logger() *slog.Logger
}

// StandardLogger provides a standardized logging interface
type StandardLogger struct {
	logger Logger
}

// NewStandardLogger creates a JSON logger on stdout. Production environments
// never log below info.
func NewStandardLogger(logLevel string, environment string) *StandardLogger {
	return NewStandardLoggerWithWriter(os.Stdout, logLevel, environment)
}

// NewStandardLoggerWithWriter is NewStandardLogger with an explicit sink.
func NewStandardLoggerWithWriter(w io.Writer, logLevel string, environment string) *StandardLogger {
	level := getSlogLevel(logLevel)
	if strings.EqualFold(environment, "production") && level < slog.LevelInfo {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	return &StandardLogger{logger: &slogLogger{logger: logger}}
}

// NewStandardOTLPLogger creates a standardized logger that exports through
// OTLP, falling back to stdout JSON when the exporter cannot be built.
func NewStandardOTLPLogger(config OTLPConfig) (*StandardLogger, *OTLPLogger) {
	otlpLogger, err := NewOTLPLogger(config)
	if err != nil {
		fallback := NewStandardLogger(config.LogLevel, config.Environment)
		fallback.Logger().Warn("OTLP logging unavailable, using stdout", "error", err.Error())
		return fallback, nil
	}
	return &StandardLogger{logger: &slogLogger{logger: otlpLogger.Logger()}}, otlpLogger
}

func (l *StandardLogger) WithComponent(componentName string) *slog.Logger {
	return l.logger.WithComponent(componentName)
}

func (l *StandardLogger) WithRequestID(requestID string) *slog.Logger {
	return l.logger.WithRequestID(requestID)
}

// LogStartup logs application startup information
func (l *StandardLogger) LogStartup(serviceName string, version string, port int) {
	l.logger.LogStartup(serviceName, version, port)
}

// LogShutdown logs application shutdown information
func (l *StandardLogger) LogShutdown(serviceName string, reason string) {
	l.logger.LogShutdown(serviceName, reason)
}

// LogDatabaseOperation logs database operations in a standardized format
func (l *StandardLogger) LogDatabaseOperation(operation string, table string, duration int64, rowsAffected int64) {
	l.logger.LogDatabaseOperation(operation, table, duration, rowsAffected)
}

// LogAPIRequest logs API requests in a standardized format
func (l *StandardLogger) LogAPIRequest(method string, path string, statusCode int, duration int64, requestID string) {
	l.logger.LogAPIRequest(method, path, statusCode, duration, requestID)
}

// LogBatchRun logs the outcome of an ingestion or generation batch
func (l *StandardLogger) LogBatchRun(kind string, details map[string]interface{}) {
	l.logger.LogBatchRun(kind, details)
}

// Logger returns the underlying *slog.Logger
func (l *StandardLogger) Logger() *slog.Logger {
	return l.logger.Logger()
}

func getSlogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLogrusLevel converts string level to logrus.Level
func ParseLogrusLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// ConfigureLogrus aligns the global logrus logger, used by the storage
// layer, with the service log level and format.
func ConfigureLogrus(level string, environment string) {
	logrus.SetLevel(ParseLogrusLevel(level))
	if strings.EqualFold(environment, "development") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

// slogLogger implements Logger over a *slog.Logger, whatever its handler.
type slogLogger struct {
	logger *slog.Logger
}

func (s *slogLogger) WithComponent(componentName string) *slog.Logger {
	return s.logger.With("component", componentName)
}

func (s *slogLogger) WithRequestID(requestID string) *slog.Logger {
	return s.logger.With("request_id", requestID)
}

func (s *slogLogger) LogStartup(serviceName string, version string, port int) {
	s.logger.Info("Service starting",
		"event", "startup",
		"service", serviceName,
		"version", version,
		"port", port,
	)
}

func (s *slogLogger) LogShutdown(serviceName string, reason string) {
	s.logger.Info("Service shutting down",
		"event", "shutdown",
		"service", serviceName,
		"reason", reason,
	)
}

func (s *slogLogger) LogDatabaseOperation(operation string, table string, duration int64, rowsAffected int64) {
	s.logger.Debug("Database operation",
		"event", "database_operation",
		"operation", operation,
		"table", table,
		"duration_ms", duration,
		"rows_affected", rowsAffected,
	)
}

func (s *slogLogger) LogAPIRequest(method string, path string, statusCode int, duration int64, requestID string) {
	s.logger.Info("API request",
		"event", "api_request",
		"method", method,
		"path", path,
		"status_code", statusCode,
		"duration_ms", duration,
		"request_id", requestID,
	)
}

func (s *slogLogger) LogBatchRun(kind string, details map[string]interface{}) {
	fields := []interface{}{
		"event", "batch_run",
		"kind", kind,
	}
	for k, v := range details {
		fields = append(fields, k, v)
	}
	s.logger.Info("Batch run finished", fields...)
}

func (s *slogLogger) Logger() *slog.Logger {
	return s.logger
}
