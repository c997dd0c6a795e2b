// Package telemetry wires opt-in OpenTelemetry tracing for the dashboard.
package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName identifies the dashboard in traces.
const ServiceName = "askstream-web"

const instrumentation = "askstream/internal/telemetry"

// Options selects the exporter. Tracing stays off when Endpoint is empty or Enabled is false.
type Options struct {
	Endpoint string
	Enabled  bool
}

// Setup installs a global tracer provider exporting over OTLP/HTTP.
// The returned shutdown flushes pending spans and should be deferred by the caller.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }
	endpoint := strings.TrimSpace(opts.Endpoint)
	if !opts.Enabled || endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(ServiceName)))
	if err != nil {
		return noop, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}

// StartInteraction opens a span for a card stack interaction.
func StartInteraction(ctx context.Context, session, kind string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := append([]attribute.KeyValue{
		attribute.String("askstream.session", session),
		attribute.String("askstream.event", kind),
	}, attrs...)
	return otel.Tracer(instrumentation).Start(ctx, "cardstack.apply", trace.WithAttributes(all...))
}

// EndInteraction records the outcome of an interaction and ends the span.
func EndInteraction(span trace.Span, changed bool, order []string) {
	span.SetAttributes(
		attribute.Bool("askstream.changed", changed),
		attribute.StringSlice("askstream.order", order),
	)
	span.End()
}
