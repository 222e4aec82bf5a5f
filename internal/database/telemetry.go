package database

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samparkk13/fantasyedge-ai/internal/logging"
)

const dbTracerName = "github.com/samparkk13/fantasyedge-ai/internal/database"

// TracedDB wraps a DatabasePool, opening a client span and logging the
// duration of every statement.
type TracedDB struct {
	pool   DatabasePool
	tracer trace.Tracer
	logger logging.Logger
}

// NewTracedDB wraps pool using the global tracer provider.
func NewTracedDB(pool DatabasePool) *TracedDB {
	return NewTracedDBWithProvider(pool, otel.GetTracerProvider())
}

// NewTracedDBWithProvider wraps pool using tp.
func NewTracedDBWithProvider(pool DatabasePool, tp trace.TracerProvider) *TracedDB {
	return &TracedDB{pool: pool, tracer: tp.Tracer(dbTracerName)}
}

// WithLogger routes successful statements through logger instead of logrus.
func (db *TracedDB) WithLogger(logger logging.Logger) *TracedDB {
	db.logger = logger
	return db
}

func (db *TracedDB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	ctx, span := db.start(ctx, "query", sql)
	defer span.End()

	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	db.finish(span, "query", sql, start, -1, err)
	return rows, err
}

// QueryRow defers errors to Scan, so the span only covers dispatch.
func (db *TracedDB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	ctx, span := db.start(ctx, "query_row", sql)
	defer span.End()

	start := time.Now()
	row := db.pool.QueryRow(ctx, sql, args...)
	db.finish(span, "query_row", sql, start, -1, nil)
	return row
}

func (db *TracedDB) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	ctx, span := db.start(ctx, "exec", sql)
	defer span.End()

	start := time.Now()
	tag, err := db.pool.Exec(ctx, sql, args...)
	db.finish(span, "exec", sql, start, tag.RowsAffected(), err)
	return tag, err
}

func (db *TracedDB) start(ctx context.Context, op, sql string) (context.Context, trace.Span) {
	return db.tracer.Start(ctx, "db."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", statementVerb(sql)),
		),
	)
}

func (db *TracedDB) finish(span trace.Span, op, sql string, start time.Time, rowsAffected int64, err error) {
	duration := time.Since(start)
	if rowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", rowsAffected))
	}

	fields := logrus.Fields{
		"operation":   op,
		"statement":   statementVerb(sql),
		"duration_ms": duration.Milliseconds(),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logrus.WithFields(fields).WithError(err).Warn("Database operation failed")
		return
	}
	if db.logger != nil {
		db.logger.LogDatabaseOperation(statementVerb(sql), statementTable(sql), duration.Milliseconds(), rowsAffected)
		return
	}
	logrus.WithFields(fields).Debug("Database operation")
}

// statementVerb returns the leading SQL keyword, upper-cased.
func statementVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// statementTable returns the first table a statement names after FROM, INTO,
// UPDATE or TABLE, or "".
func statementTable(sql string) string {
	fields := strings.Fields(sql)
	for i := 0; i < len(fields)-1; i++ {
		switch strings.ToUpper(fields[i]) {
		case "FROM", "INTO", "UPDATE", "TABLE":
			name := fields[i+1]
			if strings.EqualFold(name, "IF") && i+4 < len(fields) {
				name = fields[i+4]
			}
			return strings.ToLower(strings.Trim(name, `"(;`))
		}
	}
	return ""
}
