package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// BusinessTracer opens spans around domain operations: prediction
// generation, roster ingestion and batch runs.
type BusinessTracer struct {
	tracer trace.Tracer
}

// NewBusinessTracer creates a tracer bound to the global provider.
func NewBusinessTracer() *BusinessTracer {
	return &BusinessTracer{tracer: Tracer()}
}

// NewBusinessTracerWith creates a tracer from an explicit provider.
func NewBusinessTracerWith(tp trace.TracerProvider) *BusinessTracer {
	return &BusinessTracer{tracer: tp.Tracer(tracerName)}
}

// PredictionOutcome is what a generation span records on success.
type PredictionOutcome struct {
	PredictedPoints float64
	Confidence      float64
	BreakoutScore   float64
	BustRisk        float64
	Existing        bool
}

// TracePredictionGeneration starts a span for one generate-or-fetch call.
func (bt *BusinessTracer) TracePredictionGeneration(ctx context.Context, playerID string, season int) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "prediction.generate",
		trace.WithAttributes(
			attribute.String("player.id", playerID),
			attribute.Int("prediction.season", season),
		),
	)
}

// RecordPrediction annotates a generation span with the stored values.
func (bt *BusinessTracer) RecordPrediction(span trace.Span, outcome PredictionOutcome) {
	span.SetAttributes(
		attribute.Float64("prediction.points", outcome.PredictedPoints),
		attribute.Float64("prediction.confidence", outcome.Confidence),
		attribute.Float64("prediction.breakout_score", outcome.BreakoutScore),
		attribute.Float64("prediction.bust_risk", outcome.BustRisk),
		attribute.Bool("prediction.existing", outcome.Existing),
	)
}

// TraceBatch starts a span for a batch run such as generate-all or
// ingestion.
func (bt *BusinessTracer) TraceBatch(ctx context.Context, kind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append([]attribute.KeyValue{attribute.String("batch.kind", kind)}, attrs...)
	return bt.tracer.Start(ctx, "batch."+kind, trace.WithAttributes(attrs...))
}

// TraceUpstreamFetch starts a client span for a call to an external source.
func (bt *BusinessTracer) TraceUpstreamFetch(ctx context.Context, source string, resource string) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "upstream."+source,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upstream.source", source),
			attribute.String("upstream.resource", resource),
		),
	)
}

// RecordError marks span as failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
