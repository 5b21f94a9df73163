// Package telemetry provides OpenTelemetry tracing exported to Honeycomb.
package telemetry

import (
	"context"
	"errors"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "cachequest"
	serviceVersion = "0.2.0"

	// DefaultEndpoint is the Honeycomb OTLP ingest URL.
	DefaultEndpoint = "https://api.honeycomb.io"
	// DefaultDataset is used when no dataset is configured.
	DefaultDataset = "cachequest"
)

// ErrNoAPIKey is returned by Setup when no Honeycomb key is configured.
var ErrNoAPIKey = errors.New("telemetry: no api key configured")

// Config selects where spans are exported.
type Config struct {
	Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"https://api.honeycomb.io"`
	APIKey   string `env:"HONEYCOMB_CACHEQUEST_API_KEY"`
	Dataset  string `env:"HONEYCOMB_CACHEQUEST_DATASET" envDefault:"cachequest"`
}

// Headers returns the OTLP headers Honeycomb expects.
func (c Config) Headers() map[string]string {
	dataset := c.Dataset
	if dataset == "" {
		dataset = DefaultDataset
	}
	return map[string]string{
		"x-honeycomb-team":    c.APIKey,
		"x-honeycomb-dataset": dataset,
	}
}

// Setup initializes OpenTelemetry with an OTLP HTTP exporter and registers it globally.
// Returns a shutdown function that should be called on application exit.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithHeaders(cfg.Headers()),
	)
	if err != nil {
		return nil, err
	}

	// Own resource, not merged with Default(), to avoid schema URL conflicts
	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
			attribute.String("telemetry.sdk.language", "go"),
			attribute.String("telemetry.sdk.name", "opentelemetry"),
			attribute.String("host.name", getHostname()),
			attribute.String("os.type", runtime.GOOS),
			attribute.String("process.runtime.name", "go"),
			attribute.String("process.runtime.version", runtime.Version()),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for the given component ("registry", "session", ...).
// Before Setup runs, or when it fails, the global provider hands out no-op tracers.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(serviceName + "/" + name)
}

// NoopTracer returns a tracer that records nothing.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(serviceName + "/noop")
}

// getHostname returns the system hostname, or "unknown" if it cannot be determined.
func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
