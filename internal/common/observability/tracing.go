package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

func noopTracing(serviceName string) *tracing {
	return &tracing{tracer: noop.NewTracerProvider().Tracer(serviceName)}
}

func (t *tracing) shutdown(ctx context.Context) {
	if t.provider != nil {
		_ = t.provider.Shutdown(ctx)
	}
}

// EnableTracing exports spans to a Jaeger collector. An empty endpoint keeps
// the no-op tracer.
func (o *Observability) EnableTracing(serviceName, jaegerEndpoint string) error {
	if jaegerEndpoint == "" {
		return nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return fmt.Errorf("create jaeger exporter: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	o.tracing = &tracing{provider: provider, tracer: provider.Tracer(serviceName)}
	return nil
}

// StartSpan opens a span named name. The returned func ends it and records err
// when non-nil.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, func(err error)) {
	if o == nil || o.tracing == nil {
		return ctx, func(error) {}
	}

	kv := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kv = append(kv, attribute.String(k, v))
	}

	ctx, span := o.tracing.tracer.Start(ctx, name, trace.WithAttributes(kv...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
