package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// Instrument records a single measurement.
type Instrument[T int64 | float64] func(ctx context.Context, v T, attrs ...Attr)

// Counter returns an instrument that adds to a monotonic counter.
func (r *Recorder) Counter(name, unit, desc string) Instrument[int64] {
	c, err := r.meter.Int64Counter(
		name,
		metric.WithUnit(unit),
		metric.WithDescription(desc),
	)
	if err != nil {
		panic(err)
	}

	return func(ctx context.Context, v int64, attrs ...Attr) {
		c.Add(ctx, v, metric.WithAttributes(asAttrKeyValues(attrs)...))
	}
}

// UpDownCounter returns an instrument that adds to a counter that may also
// decrease.
func (r *Recorder) UpDownCounter(name, unit, desc string) Instrument[int64] {
	c, err := r.meter.Int64UpDownCounter(
		name,
		metric.WithUnit(unit),
		metric.WithDescription(desc),
	)
	if err != nil {
		panic(err)
	}

	return func(ctx context.Context, v int64, attrs ...Attr) {
		c.Add(ctx, v, metric.WithAttributes(asAttrKeyValues(attrs)...))
	}
}

// Histogram returns an instrument that records a distribution of values.
func (r *Recorder) Histogram(name, unit, desc string) Instrument[int64] {
	h, err := r.meter.Int64Histogram(
		name,
		metric.WithUnit(unit),
		metric.WithDescription(desc),
	)
	if err != nil {
		panic(err)
	}

	return func(ctx context.Context, v int64, attrs ...Attr) {
		h.Record(ctx, v, metric.WithAttributes(asAttrKeyValues(attrs)...))
	}
}
