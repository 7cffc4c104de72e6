package column

import (
	"context"
	"fmt"
	"testing"

	"github.com/dogmatiq/preferencekit/internal/x/xtesting"
)

// RunBenchmarks runs benchmarks against a [Store] implementation.
func RunBenchmarks(
	b *testing.B,
	store Store,
) {
	b.Run("Store", func(b *testing.B) {
		b.Run("Open", func(b *testing.B) {
			var (
				name string
				c    Column
			)

			xtesting.Benchmark(
				b,
				// SETUP
				func(ctx context.Context) error {
					name = xtesting.SequentialName("column")

					// pre-create the column
					pre, err := store.Open(ctx, name)
					if err != nil {
						return err
					}
					return pre.Close()
				},
				// BEFORE EACH
				nil,
				// BENCHMARKED CODE
				func(ctx context.Context) (err error) {
					c, err = store.Open(ctx, name)
					return err
				},
				// AFTER EACH
				func(context.Context) error {
					return c.Close()
				},
			)
		})
	})

	b.Run("Column", func(b *testing.B) {
		b.Run("Load", func(b *testing.B) {
			var c Column

			xtesting.Benchmark(
				b,
				// SETUP
				func(ctx context.Context) error {
					var err error
					c, err = store.Open(ctx, xtesting.SequentialName("column"))
					if err != nil {
						return err
					}
					return c.Save(ctx, "<record>", 0b1011)
				},
				// BEFORE EACH
				nil,
				// BENCHMARKED CODE
				func(ctx context.Context) error {
					_, _, err := c.Load(ctx, "<record>")
					return err
				},
				// AFTER EACH
				nil,
			)

			if err := c.Close(); err != nil {
				b.Fatal(err)
			}
		})

		b.Run("Save", func(b *testing.B) {
			var (
				c Column
				n uint64
			)

			xtesting.Benchmark(
				b,
				// SETUP
				func(ctx context.Context) (err error) {
					c, err = store.Open(ctx, xtesting.SequentialName("column"))
					return err
				},
				// BEFORE EACH
				func(context.Context) error {
					n++
					return nil
				},
				// BENCHMARKED CODE
				func(ctx context.Context) error {
					return c.Save(ctx, fmt.Sprintf("<record-%d>", n), n)
				},
				// AFTER EACH
				nil,
			)

			if err := c.Close(); err != nil {
				b.Fatal(err)
			}
		})
	})
}
