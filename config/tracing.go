package config

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/skill404/landing/internal/log"
	"github.com/skill404/landing/pkg/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	defaultOTLPEndpoint  = "http://localhost:4318"
	defaultOTLPTracePath = "/v1/traces"
)

// otlpEndpoint is OTEL_EXPORTER_OTLP_ENDPOINT split the way otlptracehttp
// wants it.
type otlpEndpoint struct {
	hostPort string
	path     string
	insecure bool
}

func (e otlpEndpoint) options() []otlptracehttp.Option {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(e.hostPort),
		otlptracehttp.WithURLPath(e.path),
	}
	if e.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	return opts
}

// SetupTracing installs the global tracer provider when OTEL_TRACES_ENABLED
// is set. The returned shutdown flushes pending spans; both results are nil
// when tracing is off.
func SetupTracing(logger *log.Logger) (func(context.Context) error, error) {
	if !utils.IsTracingEnabled() {
		return nil, nil
	}

	raw := utils.GetEnvTrimmedOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", defaultOTLPEndpoint)
	endpoint, err := parseOTLPEndpoint(raw)
	if err != nil {
		return nil, err
	}

	ratio, err := parseSampleRatio(utils.GetEnvTrimmed("OTEL_TRACES_SAMPLER_ARG"))
	if err != nil {
		return nil, err
	}

	exporter, err := otlptracehttp.New(context.Background(), endpoint.options()...)
	if err != nil {
		return nil, fmt.Errorf("setup tracing exporter: %w", err)
	}

	serviceName := utils.OTelServiceName()
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("deployment.environment", GetAppEnv()),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("setup tracing resource: %w", err)
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("OpenTelemetry tracing enabled", "service", serviceName, "endpoint", raw, "sample_ratio", ratio)

	return tp.Shutdown, nil
}

// parseOTLPEndpoint accepts http(s)://host:port[/path] or a bare host:port.
func parseOTLPEndpoint(raw string) (otlpEndpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return otlpEndpoint{}, fmt.Errorf("empty OTLP endpoint")
	}

	if !strings.Contains(raw, "://") {
		// otlptracehttp.WithEndpoint takes host:port only.
		if strings.ContainsAny(raw, "/?#") {
			return otlpEndpoint{}, fmt.Errorf("invalid OTLP endpoint %q: use http://host:port[/path] to set a path", raw)
		}
		return otlpEndpoint{hostPort: raw, path: defaultOTLPTracePath, insecure: true}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return otlpEndpoint{}, fmt.Errorf("invalid OTLP endpoint %q: %w", raw, err)
	}
	if u.Host == "" {
		return otlpEndpoint{}, fmt.Errorf("invalid OTLP endpoint %q: missing host", raw)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return otlpEndpoint{}, fmt.Errorf("unsupported OTLP endpoint scheme %q", u.Scheme)
	}

	path := u.EscapedPath()
	if path == "" || path == "/" {
		path = defaultOTLPTracePath
	}

	return otlpEndpoint{hostPort: u.Host, path: path, insecure: scheme == "http"}, nil
}

// parseSampleRatio reads OTEL_TRACES_SAMPLER_ARG; empty means sample everything.
func parseSampleRatio(raw string) (float64, error) {
	if raw == "" {
		return 1, nil
	}

	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return 0, fmt.Errorf("invalid OTEL_TRACES_SAMPLER_ARG %q: want a ratio between 0 and 1", raw)
	}
	return ratio, nil
}
