package column

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/dogmatiq/preferencekit/internal/x/xtesting"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// RunTests runs tests that confirm a [Store] implementation behaves correctly.
func RunTests(
	t *testing.T,
	store Store,
) {
	setup := func(t *testing.T) Column {
		name := xtesting.SequentialName("column")

		c, err := store.Open(t.Context(), name)
		if err != nil {
			t.Fatal(err)
		}

		t.Cleanup(func() {
			if err := c.Close(); err != nil {
				t.Error(err)
			}
		})

		if c.Name() != name {
			t.Fatalf("unexpected column name: got %q, want %q", c.Name(), name)
		}

		return c
	}

	mustSave := func(t *testing.T, c Column, id string, packed uint64) {
		t.Helper()

		if err := c.Save(t.Context(), id, packed); err != nil {
			t.Fatal(err)
		}
	}

	expectPacked := func(t *testing.T, c Column, id string, want uint64) {
		t.Helper()

		got, ok, err := c.Load(t.Context(), id)
		if err != nil {
			t.Fatal(err)
		}

		if !ok {
			t.Fatalf("expected record %q to be present", id)
		}

		if got != want {
			t.Fatalf("unexpected packed value for record %q: got %b, want %b", id, got, want)
		}
	}

	expectAbsent := func(t *testing.T, c Column, id string) {
		t.Helper()

		got, ok, err := c.Load(t.Context(), id)
		if err != nil {
			t.Fatal(err)
		}

		if ok {
			t.Fatalf("did not expect record %q to be present", id)
		}

		if got != 0 {
			t.Fatalf("expected zero value for absent record %q, got %b", id, got)
		}
	}

	t.Run("Store", func(t *testing.T) {
		t.Parallel()

		t.Run("Open", func(t *testing.T) {
			t.Parallel()

			t.Run("allows columns to be opened multiple times", func(t *testing.T) {
				t.Parallel()

				name := xtesting.SequentialName("column")

				c1, err := store.Open(t.Context(), name)
				if err != nil {
					t.Fatal(err)
				}
				defer c1.Close()

				c2, err := store.Open(t.Context(), name)
				if err != nil {
					t.Fatal(err)
				}
				defer c2.Close()

				mustSave(t, c1, "<record>", 0b1011)
				expectPacked(t, c2, "<record>", 0b1011)
			})

			t.Run("isolates columns with different names", func(t *testing.T) {
				t.Parallel()

				c1 := setup(t)
				c2 := setup(t)

				mustSave(t, c1, "<record>", 1)
				expectAbsent(t, c2, "<record>")
			})
		})
	})

	t.Run("Column", func(t *testing.T) {
		t.Parallel()

		t.Run("Load", func(t *testing.T) {
			t.Parallel()

			t.Run("it reports absence if nothing has been saved", func(t *testing.T) {
				t.Parallel()

				c := setup(t)
				expectAbsent(t, c, "<record>")
			})

			t.Run("it distinguishes a saved zero from absence", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				mustSave(t, c, "<record>", 0)
				expectPacked(t, c, "<record>", 0)
			})

			t.Run("it returns the value saved for each record", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				for i := range 5 {
					mustSave(t, c, fmt.Sprintf("<record-%d>", i), uint64(1)<<i)
				}

				for i := range 5 {
					expectPacked(t, c, fmt.Sprintf("<record-%d>", i), uint64(1)<<i)
				}
			})

			t.Run("it preserves every bit", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				for _, v := range []uint64{
					math.MaxUint64,
					1 << 63,
					math.MaxInt64,
					0xAAAAAAAAAAAAAAAA,
				} {
					mustSave(t, c, "<record>", v)
					expectPacked(t, c, "<record>", v)
				}
			})
		})

		t.Run("Save", func(t *testing.T) {
			t.Parallel()

			t.Run("it replaces the existing value", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				mustSave(t, c, "<record>", 0b0101)
				mustSave(t, c, "<record>", 0b1010)
				expectPacked(t, c, "<record>", 0b1010)
			})

			t.Run("it does not affect other records", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				mustSave(t, c, "<record-1>", 1)
				mustSave(t, c, "<record-2>", 2)
				mustSave(t, c, "<record-1>", 3)

				expectPacked(t, c, "<record-2>", 2)
			})

			t.Run("it can be called concurrently on the same column", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				const n = 16
				var g sync.WaitGroup
				errs := make(chan error, n)

				for i := range n {
					g.Add(1)
					go func() {
						defer g.Done()
						errs <- c.Save(t.Context(), fmt.Sprintf("<record-%d>", i), uint64(1)<<i)
					}()
				}

				g.Wait()
				close(errs)

				for err := range errs {
					if err != nil {
						t.Fatal(err)
					}
				}

				for i := range n {
					expectPacked(t, c, fmt.Sprintf("<record-%d>", i), uint64(1)<<i)
				}
			})
		})

		t.Run("Delete", func(t *testing.T) {
			t.Parallel()

			t.Run("it makes the record absent", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				mustSave(t, c, "<record>", 7)

				if err := c.Delete(t.Context(), "<record>"); err != nil {
					t.Fatal(err)
				}

				expectAbsent(t, c, "<record>")
			})

			t.Run("it does not return an error if the record is absent", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				if err := c.Delete(t.Context(), "<record>"); err != nil {
					t.Fatal(err)
				}
			})
		})

		t.Run("Range", func(t *testing.T) {
			t.Parallel()

			t.Run("it calls the function for each record", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				want := map[string]uint64{}
				for i := range 5 {
					id := fmt.Sprintf("<record-%d>", i)
					want[id] = uint64(i)
					mustSave(t, c, id, uint64(i))
				}

				got := map[string]uint64{}
				if err := c.Range(
					t.Context(),
					func(_ context.Context, id string, packed uint64) (bool, error) {
						got[id] = packed
						return true, nil
					},
				); err != nil {
					t.Fatal(err)
				}

				if diff := cmp.Diff(want, got); diff != "" {
					t.Fatal(diff)
				}
			})

			t.Run("it excludes deleted records", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				mustSave(t, c, "<record>", 1)

				if err := c.Delete(t.Context(), "<record>"); err != nil {
					t.Fatal(err)
				}

				if err := c.Range(
					t.Context(),
					func(_ context.Context, id string, _ uint64) (bool, error) {
						return false, fmt.Errorf("unexpected record %q", id)
					},
				); err != nil {
					t.Fatal(err)
				}
			})

			t.Run("it stops iterating if the function returns false", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				for i := range 2 {
					mustSave(t, c, fmt.Sprintf("<record-%d>", i), 1)
				}

				called := false
				if err := c.Range(
					t.Context(),
					func(context.Context, string, uint64) (bool, error) {
						if called {
							return false, errors.New("unexpected call")
						}

						called = true
						return false, nil
					},
				); err != nil {
					t.Fatal(err)
				}
			})

			t.Run("it returns an error if the function returns an error", func(t *testing.T) {
				t.Parallel()

				c := setup(t)

				mustSave(t, c, "<record>", 1)

				want := errors.New("<error>")
				got := c.Range(
					t.Context(),
					func(context.Context, string, uint64) (bool, error) {
						return true, want
					},
				)
				if got != want {
					t.Fatalf("unexpected error: got %q, want %q", got, want)
				}
			})
		})
	})

	t.Run("property-based", func(t *testing.T) {
		t.Parallel()

		rapid.Check(t, func(t *rapid.T) {
			ctx := context.Background()

			c, err := store.Open(ctx, xtesting.SequentialName("column"))
			if err != nil {
				t.Fatal(err)
			}
			defer c.Close()

			genID := rapid.StringMatching(`[a-zA-Z0-9_-]{1,32}`)
			records := map[string]uint64{}
			var ids []string

			t.Repeat(
				map[string]func(*rapid.T){
					"Load": func(t *rapid.T) {
						id := genID.Draw(t, "id")

						packed, ok, err := c.Load(ctx, id)
						if err != nil {
							t.Fatal(err)
						}

						want, present := records[id]
						if ok != present || packed != want {
							t.Fatalf(
								"unexpected value for record %q: got (%d, %t), want (%d, %t)",
								id,
								packed,
								ok,
								want,
								present,
							)
						}
					},
					"Save": func(t *rapid.T) {
						id := genID.Draw(t, "id")
						packed := rapid.Uint64().Draw(t, "packed")

						if err := c.Save(ctx, id, packed); err != nil {
							t.Fatal(err)
						}

						if _, ok := records[id]; !ok {
							ids = append(ids, id)
						}
						records[id] = packed
					},
					"Save (replace)": func(t *rapid.T) {
						if len(ids) == 0 {
							t.Skip("skip: column is empty")
						}

						id := rapid.SampledFrom(ids).Draw(t, "id")
						packed := rapid.Uint64().Draw(t, "packed")

						if err := c.Save(ctx, id, packed); err != nil {
							t.Fatal(err)
						}

						records[id] = packed
					},
					"Delete": func(t *rapid.T) {
						if len(ids) == 0 {
							t.Skip("skip: column is empty")
						}

						i := rapid.IntRange(0, len(ids)-1).Draw(t, "index")
						id := ids[i]

						if err := c.Delete(ctx, id); err != nil {
							t.Fatal(err)
						}

						delete(records, id)
						ids = append(ids[:i], ids[i+1:]...)
					},
					"Range": func(t *rapid.T) {
						got := map[string]uint64{}

						if err := c.Range(
							ctx,
							func(_ context.Context, id string, packed uint64) (bool, error) {
								got[id] = packed
								return true, nil
							},
						); err != nil {
							t.Fatal(err)
						}

						if diff := cmp.Diff(records, got); diff != "" {
							t.Fatal(diff)
						}
					},
				},
			)
		})
	})
}
