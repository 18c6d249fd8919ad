package catalog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/VAlejandro22/ecommerce-iq/internal/catalog"

type gatewayMetrics struct {
	attempts  metric.Int64Counter
	fallbacks metric.Int64Counter
	latency   metric.Float64Histogram
}

func newGatewayMetrics(meter metric.Meter) *gatewayMetrics {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(meterName)
	}
	fallbackMeter := noop.NewMeterProvider().Meter(meterName)

	attempts, err := meter.Int64Counter("catalog.fetch.attempts",
		metric.WithDescription("Outbound catalog requests, including retries"))
	if err != nil {
		attempts, _ = fallbackMeter.Int64Counter("catalog.fetch.attempts")
	}
	fallbacks, err := meter.Int64Counter("catalog.fetch.fallbacks",
		metric.WithDescription("List operations answered with an empty result after a failure"))
	if err != nil {
		fallbacks, _ = fallbackMeter.Int64Counter("catalog.fetch.fallbacks")
	}
	latency, err := meter.Float64Histogram("catalog.fetch.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("End to end latency of catalog fetches including retries"))
	if err != nil {
		latency, _ = fallbackMeter.Float64Histogram("catalog.fetch.latency")
	}
	return &gatewayMetrics{attempts: attempts, fallbacks: fallbacks, latency: latency}
}

func (m *gatewayMetrics) recordAttempt(ctx context.Context, resource string, status int) {
	m.attempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.Int("status", status),
	))
}

func (m *gatewayMetrics) recordFallback(ctx context.Context, operation string) {
	m.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

func (m *gatewayMetrics) recordLatency(ctx context.Context, resource string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.latency.Record(ctx, float64(d)/float64(time.Millisecond), metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("outcome", outcome),
	))
}
