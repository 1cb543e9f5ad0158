// Package telemetry sets up opt-in OpenTelemetry tracing for API calls.
package telemetry

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config is read from the environment.
type Config struct {
	Endpoint string `env:"BAZAAR_OTEL_ENDPOINT"`
	Enabled  bool   `env:"BAZAAR_OTEL_ENABLED" envDefault:"true"`
}

// Active reports whether spans should be exported.
func (c Config) Active() bool {
	return c.Enabled && c.Endpoint != ""
}

// ParseEnv loads Config from environment variables.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Shutdown flushes pending spans.
type Shutdown func(context.Context) error

// Setup installs a global tracer provider exporting to cfg.Endpoint over
// OTLP/HTTP and the W3C trace-context propagator. When tracing is not
// active nothing is installed and the returned Shutdown does nothing.
func Setup(ctx context.Context, cfg Config, serviceName, version string) (Shutdown, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown, nil
}
