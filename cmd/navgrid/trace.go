package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// logSpanExporter writes finished spans to a slog.Logger at debug level.
type logSpanExporter struct {
	logger *slog.Logger
}

// ExportSpans logs one record per span and never fails.
func (e *logSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		attrs := []any{
			slog.String("span", span.Name()),
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.Duration("duration", span.EndTime().Sub(span.StartTime())),
			slog.String("status", span.Status().Code.String()),
		}
		for _, kv := range span.Attributes() {
			attrs = append(attrs, slog.String(string(kv.Key), kv.Value.Emit()))
		}
		e.logger.DebugContext(ctx, "span", attrs...)
	}

	return nil
}

// Shutdown is a no-op: the logger outlives the provider.
func (e *logSpanExporter) Shutdown(context.Context) error { return nil }

// newTracerProvider returns a provider that exports every span synchronously to logger.
func newTracerProvider(logger *slog.Logger) *sdktrace.TracerProvider {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceNameKey.String("navgrid")),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", slog.Any("error", err))
		res = resource.Default()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(&logSpanExporter{logger: logger})),
		sdktrace.WithResource(res),
	)
}
