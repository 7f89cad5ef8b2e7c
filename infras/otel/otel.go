package otel

import (
	"context"
	"roombook/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc/credentials/insecure"
)

type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
	// Shutdown flushes buffered spans.
	Shutdown(ctx context.Context) error
}

type tracer struct {
	provider oteltrace.TracerProvider
	shutdown func(ctx context.Context) error
}

func (t *tracer) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := t.provider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

func (t *tracer) Shutdown(ctx context.Context) error {
	if t.shutdown == nil {
		return nil
	}

	return t.shutdown(ctx)
}

func disabled() Otel {
	return &tracer{provider: noop.NewTracerProvider()}
}

// New exports spans over OTLP/gRPC and propagates W3C trace context. Tracing
// is off when disabled or when the exporter cannot be built.
func New(cfg *config.Config) Otel {
	settings := cfg.External.Otel

	if !settings.Enable {
		log.Info().Msg("Tracing disabled, using no-op tracer provider")

		return disabled()
	}

	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(settings.Endpoint),
		otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Error().Err(err).Str("endpoint", settings.Endpoint).Msg("Failed to create OTLP exporter, tracing disabled")

		return disabled()
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(settings.SampleRatio))),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(cfg.App.Name),
			semconv.DeploymentEnvironmentKey.String(cfg.Server.Env),
		)),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info().Str("endpoint", settings.Endpoint).Float64("sample_ratio", settings.SampleRatio).Msg("Exporting traces over OTLP")

	return &tracer{
		provider: provider,
		shutdown: provider.Shutdown,
	}
}
