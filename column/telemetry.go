package column

import (
	"context"
	"math/bits"

	"github.com/dogmatiq/preferencekit/internal/telemetry"
	"github.com/dogmatiq/preferencekit/internal/x/xtelemetry"
	"go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// WithTelemetry returns a [Store] that adds telemetry to s.
func WithTelemetry(
	s Store,
	p trace.TracerProvider,
	m metric.MeterProvider,
	l log.LoggerProvider,
) Store {
	return &instrumentedStore{
		Next: s,
		Telemetry: telemetry.Provider{
			TracerProvider: p,
			MeterProvider:  m,
			LoggerProvider: l,
		},
	}
}

// instrumentedStore is a decorator that adds instrumentation to a [Store].
type instrumentedStore struct {
	Next      Store
	Telemetry telemetry.Provider
}

// Open returns the column with the given name.
func (s *instrumentedStore) Open(ctx context.Context, name string) (Column, error) {
	telem := s.Telemetry.Recorder(
		"github.com/dogmatiq/preferencekit/column",
		telemetry.Type("column.store", s.Next),
		telemetry.String("column.name", name),
		telemetry.String("column.handle", xtelemetry.HandleID()),
	)

	c := &instrumentedColumn{
		Telemetry:   telem,
		OpenColumns: telem.UpDownCounter("open_columns", "{column}", "The number of columns that are currently open."),
		Misses:      telem.Counter("misses", "{operation}", "The number of times a record's packed value was requested but not present in the column."),
		Saves:       telem.Counter("saves", "{record}", "The number of packed values that have been saved."),
		Deletes:     telem.Counter("deletes", "{record}", "The number of packed values that have been deleted."),
		TrueCount:   telem.Histogram("packed.true_count", "{preference}", "The number of bits set in the packed values that have been operated upon."),
	}

	ctx, span := telem.StartSpan(ctx, "column.open")
	defer span.End()

	next, err := s.Next.Open(ctx, name)
	if err != nil {
		c.Telemetry.Error(ctx, "column.open.error", err)
		return nil, err
	}

	c.Next = next

	c.OpenColumns(ctx, 1)
	c.Telemetry.Info(ctx, "column.open.ok", "opened column")

	return c, nil
}

type instrumentedColumn struct {
	Next      Column
	Telemetry *telemetry.Recorder

	OpenColumns telemetry.Instrument[int64]
	Misses      telemetry.Instrument[int64]
	Saves       telemetry.Instrument[int64]
	Deletes     telemetry.Instrument[int64]
	TrueCount   telemetry.Instrument[int64]
}

func (c *instrumentedColumn) Name() string {
	return c.Next.Name()
}

func (c *instrumentedColumn) Load(ctx context.Context, id string) (uint64, bool, error) {
	ctx, span := c.Telemetry.StartSpan(
		ctx,
		"column.load",
		telemetry.String("record.id", id),
	)
	defer span.End()

	packed, ok, err := c.Next.Load(ctx, id)
	if err != nil {
		c.Telemetry.Error(ctx, "column.load.error", err)
		return 0, false, err
	}

	span.SetAttributes(
		telemetry.Bool("record_present", ok),
	)

	if ok {
		c.TrueCount(ctx, int64(bits.OnesCount64(packed)), telemetry.ReadDirection)

		span.SetAttributes(
			telemetry.Bits("packed", packed),
		)

		c.Telemetry.Info(ctx, "column.load.ok", "loaded packed value")
	} else {
		c.Misses(ctx, 1)
		c.Telemetry.Info(ctx, "column.load.ok", "record is not present in column")
	}

	return packed, ok, nil
}

func (c *instrumentedColumn) Save(ctx context.Context, id string, packed uint64) error {
	ctx, span := c.Telemetry.StartSpan(
		ctx,
		"column.save",
		telemetry.String("record.id", id),
		telemetry.Bits("packed", packed),
	)
	defer span.End()

	c.TrueCount(ctx, int64(bits.OnesCount64(packed)), telemetry.WriteDirection)

	if err := c.Next.Save(ctx, id, packed); err != nil {
		c.Telemetry.Error(ctx, "column.save.error", err)
		return err
	}

	c.Saves(ctx, 1)
	c.Telemetry.Info(ctx, "column.save.ok", "saved packed value")

	return nil
}

func (c *instrumentedColumn) Delete(ctx context.Context, id string) error {
	ctx, span := c.Telemetry.StartSpan(
		ctx,
		"column.delete",
		telemetry.String("record.id", id),
	)
	defer span.End()

	if err := c.Next.Delete(ctx, id); err != nil {
		c.Telemetry.Error(ctx, "column.delete.error", err)
		return err
	}

	c.Deletes(ctx, 1)
	c.Telemetry.Info(ctx, "column.delete.ok", "deleted packed value")

	return nil
}

func (c *instrumentedColumn) Range(ctx context.Context, fn RangeFunc) error {
	ctx, span := c.Telemetry.StartSpan(ctx, "column.range")
	defer span.End()

	var (
		count     uint64
		brokeLoop bool
	)

	c.Telemetry.Info(ctx, "column.range.start", "reading packed values")

	err := c.Next.Range(
		ctx,
		func(ctx context.Context, id string, packed uint64) (bool, error) {
			count++
			c.TrueCount(ctx, int64(bits.OnesCount64(packed)), telemetry.ReadDirection)

			ok, err := fn(ctx, id, packed)
			if ok || err != nil {
				return ok, err
			}

			brokeLoop = true
			return false, nil
		},
	)

	span.SetAttributes(
		telemetry.Int("records_read", count),
		telemetry.Bool("reached_end", !brokeLoop && err == nil),
	)

	if err != nil {
		c.Telemetry.Error(ctx, "column.range.error", err)
		return err
	}

	if brokeLoop {
		c.Telemetry.Info(ctx, "column.range.break", "range aborted cleanly before visiting all records")
	} else {
		c.Telemetry.Info(ctx, "column.range.end", "range visited all records")
	}

	return nil
}

func (c *instrumentedColumn) Close() error {
	if c.Next == nil {
		// Closing an already-closed resource is not an error, allowing Close()
		// to be called unconditionally by a defer statement.
		return nil
	}

	ctx, span := c.Telemetry.StartSpan(context.Background(), "column.close")
	defer span.End()

	defer func() {
		c.Next = nil
		c.OpenColumns(ctx, -1)
	}()

	if err := c.Next.Close(); err != nil {
		c.Telemetry.Error(ctx, "column.close.error", err)
		return err
	}

	c.Telemetry.Info(ctx, "column.close.ok", "column closed")

	return nil
}
