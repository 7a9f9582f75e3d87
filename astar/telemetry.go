package astar

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/katalvlaran/navgrid/astar"

// telemetry holds the instruments shared by every CreatePath of one Algorithm.
type telemetry struct {
	tracer trace.Tracer

	// plans counts finished searches, labeled by status
	plans metric.Int64Counter

	// iterations records visited nodes per search
	iterations metric.Int64Histogram
}

// newTelemetry builds instruments from the given providers, falling back to no-op
// providers when either is nil.
func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	t := &telemetry{tracer: tp.Tracer(instrumentationName)}
	var err error

	t.plans, err = meter.Int64Counter(
		"astar.plans",
		metric.WithDescription("Number of CreatePath calls by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create plans counter: %w", err)
	}

	t.iterations, err = meter.Int64Histogram(
		"astar.iterations",
		metric.WithDescription("Nodes visited per CreatePath call"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create iterations histogram: %w", err)
	}

	return t, nil
}

// noopTelemetry is used when instrument creation fails.
func noopTelemetry() *telemetry {
	t, _ := newTelemetry(nil, nil)

	return t
}

func (t *telemetry) start(ctx context.Context, kind string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "astar.CreatePath", trace.WithAttributes(
		attribute.String("astar.kind", kind),
	))
}

// record closes span and reports res.
func record[C any](ctx context.Context, t *telemetry, span trace.Span, res *Result[C]) {
	defer span.End()

	status := res.Status.String()
	span.SetAttributes(
		attribute.String("plan.id", res.ID.String()),
		attribute.String("plan.status", status),
		attribute.Int64("plan.iterations", int64(res.Iterations)),
		attribute.Int("plan.length", len(res.Path)),
	)
	if res.Found() {
		span.SetAttributes(attribute.Float64("plan.cost", res.Cost))
	}

	switch {
	case res.Status == StatusFailed && res.Reason != nil:
		span.RecordError(res.Reason)
		span.SetStatus(codes.Error, res.Reason.Error())
	case res.Status == StatusFailed:
		span.SetStatus(codes.Error, "no path")
	default:
		span.SetStatus(codes.Ok, "")
	}

	opts := metric.WithAttributes(attribute.String("status", status))
	t.plans.Add(ctx, 1, opts)
	t.iterations.Record(ctx, int64(res.Iterations), opts)
}
