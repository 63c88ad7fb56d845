// Package observe provides the OpenTelemetry instruments recorded by the
// detection pipeline.
//
// Tests and the --stats flag should build [Metrics] from their own
// [metric.MeterProvider] via [NewMetrics]; production code without a
// configured provider gets no-op instruments from [otel.GetMeterProvider].
package observe

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/forPelevin/hookcut"

// Metrics holds all metric instruments. The OTel types handle their own
// synchronisation.
type Metrics struct {
	// StageDuration tracks per-stage latency. Use with attribute:
	//   attribute.String("stage", ...)
	StageDuration metric.Float64Histogram

	// Degradations counts collaborator failures that were absorbed. Use with
	// attribute:
	//   attribute.String("reason", ...)
	Degradations metric.Int64Counter

	// Highlights counts emitted highlights.
	Highlights metric.Int64Counter

	// Fallbacks counts runs that used the word-density fallback.
	Fallbacks metric.Int64Counter
}

var stageBuckets = []float64{
	0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600,
}

// NewMetrics creates every instrument from mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.StageDuration, err = m.Float64Histogram("hookcut.stage.duration",
		metric.WithDescription("Latency of each pipeline stage."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(stageBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Degradations, err = m.Int64Counter("hookcut.degradations",
		metric.WithDescription("Absorbed collaborator failures by reason."),
	); err != nil {
		return nil, err
	}
	if met.Highlights, err = m.Int64Counter("hookcut.highlights",
		metric.WithDescription("Total highlights emitted."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("hookcut.fallbacks",
		metric.WithDescription("Runs that used the word-density fallback."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Global returns Metrics backed by the global meter provider.
func Global() *Metrics {
	m, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		return Noop()
	}
	return m
}

// Noop returns Metrics whose instruments discard every measurement.
func Noop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordStage records seconds spent in stage. Nil-safe.
func (m *Metrics) RecordStage(ctx context.Context, stage string, seconds float64) {
	if m == nil {
		return
	}
	m.StageDuration.Record(ctx, seconds, metric.WithAttributes(attribute.String("stage", stage)))
}

// RecordDegradation increments the degradation counter for reason. Nil-safe.
func (m *Metrics) RecordDegradation(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.Degradations.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordResult counts emitted highlights and, when fallback is set, the
// fallback run. Nil-safe.
func (m *Metrics) RecordResult(ctx context.Context, highlights int, fallback bool) {
	if m == nil {
		return
	}
	m.Highlights.Add(ctx, int64(highlights))
	if fallback {
		m.Fallbacks.Add(ctx, 1)
	}
}
