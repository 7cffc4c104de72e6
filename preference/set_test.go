package preference_test

import (
	"context"
	"errors"
	"iter"
	"maps"
	"slices"
	"testing"

	. "github.com/dogmatiq/preferencekit/preference"
	"github.com/google/go-cmp/cmp"
)

// recorder is a [PersistFunc] that records every packed value it is given.
type recorder struct {
	Calls []uint64
	Err   error
}

func (r *recorder) Persist(_ context.Context, packed uint64) error {
	r.Calls = append(r.Calls, packed)
	return r.Err
}

func (r *recorder) Last(t *testing.T) uint64 {
	t.Helper()

	if len(r.Calls) == 0 {
		t.Fatal("expected at least one persistence call")
	}

	return r.Calls[len(r.Calls)-1]
}

// newScenarioRegistry returns a registry with keys a, b, c and d, where only
// a defaults to true.
func newScenarioRegistry(t *testing.T) *Registry {
	t.Helper()

	var c Catalog
	r, err := c.Configure("scenario", []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatal(err)
	}

	r.SetDefault("a", true)

	return r
}

func collect(seq iter.Seq2[string, bool]) []Pair {
	var pairs []Pair
	for k, v := range seq {
		pairs = append(pairs, Pair{k, v})
	}
	return pairs
}

func TestSet(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T, raw any) (*Set, *recorder) {
		t.Helper()

		rec := &recorder{}
		s, err := New(t.Context(), newScenarioRegistry(t), raw, rec.Persist)
		if err != nil {
			t.Fatal(err)
		}

		return s, rec
	}

	t.Run("New", func(t *testing.T) {
		t.Parallel()

		t.Run("it uses the defaults when there is no stored value", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)

			want := []Pair{{"a", true}, {"b", false}, {"c", false}, {"d", false}}
			if diff := cmp.Diff(want, collect(s.Enumerate())); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it treats a nil pointer as no stored value", func(t *testing.T) {
			t.Parallel()

			var raw *int64
			s, _ := setup(t, raw)

			if got, want := s.Encode(), uint64(1); got != want {
				t.Fatalf("unexpected packed value: got %d, want %d", got, want)
			}
		})

		t.Run("it decodes the stored value", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, 10)

			want := []Pair{{"a", false}, {"b", true}, {"c", false}, {"d", true}}
			if diff := cmp.Diff(want, collect(s.Enumerate())); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it accepts any integer type", func(t *testing.T) {
			t.Parallel()

			type packed uint16
			seven := int64(7)

			for _, raw := range []any{int8(7), int32(7), uint(7), uint64(7), packed(7), &seven} {
				s, _ := setup(t, raw)

				if got, want := s.Encode(), uint64(7); got != want {
					t.Fatalf("unexpected packed value for %T: got %d, want %d", raw, got, want)
				}
			}
		})

		t.Run("it ignores bits beyond the registered keys", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, 0xF0|0x05)

			if got, want := s.Encode(), uint64(5); got != want {
				t.Fatalf("unexpected packed value: got %d, want %d", got, want)
			}
		})

		t.Run("it returns an invalid argument error for non-numeric values", func(t *testing.T) {
			t.Parallel()

			for _, raw := range []any{"5", 5.0, true, []byte{5}, struct{}{}} {
				rec := &recorder{}
				_, err := New(t.Context(), newScenarioRegistry(t), raw, rec.Persist)
				if !IsInvalidArgument(err) {
					t.Fatalf("unexpected error for %#v: got %v, want InvalidArgumentError", raw, err)
				}

				if len(rec.Calls) != 0 {
					t.Fatal("did not expect the value to be persisted")
				}
			}
		})

		t.Run("it persists the canonical value exactly once", func(t *testing.T) {
			t.Parallel()

			_, rec := setup(t, nil)

			if diff := cmp.Diff([]uint64{1}, rec.Calls); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it persists even if the stored value is already canonical", func(t *testing.T) {
			t.Parallel()

			_, rec := setup(t, 1)

			if diff := cmp.Diff([]uint64{1}, rec.Calls); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it returns an error if the value can not be persisted", func(t *testing.T) {
			t.Parallel()

			want := errors.New("<error>")
			rec := &recorder{Err: want}

			_, err := New(t.Context(), newScenarioRegistry(t), nil, rec.Persist)
			if !errors.Is(err, want) {
				t.Fatalf("unexpected error: got %v, want %v", err, want)
			}
		})

		t.Run("it uses defaults that are current at construction time", func(t *testing.T) {
			t.Parallel()

			r := newScenarioRegistry(t)
			r.SetDefault("d", true)

			s, err := New(t.Context(), r, nil, nil)
			if err != nil {
				t.Fatal(err)
			}

			if got, want := s.Encode(), uint64(9); got != want {
				t.Fatalf("unexpected packed value: got %d, want %d", got, want)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Parallel()

		t.Run("it returns false for keys that have never been set", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)

			if s.Get("unknown") {
				t.Fatal("expected unknown key to be false")
			}
		})
	})

	t.Run("Set", func(t *testing.T) {
		t.Parallel()

		t.Run("it changes the value and persists the packed value", func(t *testing.T) {
			t.Parallel()

			s, rec := setup(t, nil)

			if s.Get("c") {
				t.Fatal("expected c to be false")
			}

			if err := s.Set(t.Context(), "c", true); err != nil {
				t.Fatal(err)
			}

			if !s.Get("c") {
				t.Fatal("expected c to be true")
			}

			if diff := cmp.Diff([]uint64{1, 5}, rec.Calls); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it coerces the value", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)

			if err := s.Set(t.Context(), "a", "no"); err != nil {
				t.Fatal(err)
			}

			if s.Get("a") {
				t.Fatal("expected a to be false")
			}

			if err := s.Set(t.Context(), "a", "YES"); err != nil {
				t.Fatal(err)
			}

			if !s.Get("a") {
				t.Fatal("expected a to be true")
			}
		})

		t.Run("it is idempotent", func(t *testing.T) {
			t.Parallel()

			s, rec := setup(t, nil)

			if err := s.Set(t.Context(), "b", 1); err != nil {
				t.Fatal(err)
			}
			first := s.Encode()

			if err := s.Set(t.Context(), "b", "y"); err != nil {
				t.Fatal(err)
			}

			if got := s.Encode(); got != first {
				t.Fatalf("unexpected packed value: got %d, want %d", got, first)
			}

			if diff := cmp.Diff([]uint64{1, 3, 3}, rec.Calls); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it stores unregistered keys without encoding them", func(t *testing.T) {
			t.Parallel()

			s, rec := setup(t, nil)

			if err := s.Set(t.Context(), "unknown", true); err != nil {
				t.Fatal(err)
			}

			if !s.Get("unknown") {
				t.Fatal("expected unknown key to be true")
			}

			if got, want := s.Size(), 4; got != want {
				t.Fatalf("unexpected size: got %d, want %d", got, want)
			}

			if _, ok := s.Map()["unknown"]; ok {
				t.Fatal("did not expect unknown key to be enumerated")
			}

			if got, want := s.Encode(), uint64(1); got != want {
				t.Fatalf("unexpected packed value: got %d, want %d", got, want)
			}

			if diff := cmp.Diff([]uint64{1, 1}, rec.Calls); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it returns the persistence error but keeps the value", func(t *testing.T) {
			t.Parallel()

			s, rec := setup(t, nil)

			want := errors.New("<error>")
			rec.Err = want

			err := s.Set(t.Context(), "d", true)
			if !errors.Is(err, want) {
				t.Fatalf("unexpected error: got %v, want %v", err, want)
			}

			if !s.Get("d") {
				t.Fatal("expected d to be true")
			}
		})
	})

	t.Run("BitIndex", func(t *testing.T) {
		t.Parallel()

		t.Run("it returns the bit value rather than the position", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)

			for i, k := range []string{"a", "b", "c", "d"} {
				bit, ok := s.BitIndex(k)
				if !ok {
					t.Fatalf("expected %q to be registered", k)
				}

				if want := uint64(1) << i; bit != want {
					t.Fatalf("unexpected bit for %q: got %d, want %d", k, bit, want)
				}
			}
		})

		t.Run("it returns false for unknown keys", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)

			if err := s.Set(t.Context(), "unknown", true); err != nil {
				t.Fatal(err)
			}

			if _, ok := s.BitIndex("unknown"); ok {
				t.Fatal("did not expect a bit for an unknown key")
			}
		})
	})

	t.Run("Enumerate", func(t *testing.T) {
		t.Parallel()

		t.Run("it captures the values when called", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)
			seq := s.Enumerate()

			if err := s.Set(t.Context(), "b", true); err != nil {
				t.Fatal(err)
			}

			want := []Pair{{"a", true}, {"b", false}, {"c", false}, {"d", false}}
			if diff := cmp.Diff(want, collect(seq)); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it can be traversed more than once", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)
			seq := s.Enumerate()

			if diff := cmp.Diff(collect(seq), collect(seq)); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it stops when the consumer stops", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)

			var keys []string
			for k := range s.Enumerate() {
				keys = append(keys, k)
				if len(keys) == 2 {
					break
				}
			}

			if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
				t.Fatal(diff)
			}
		})
	})

	t.Run("BulkSet", func(t *testing.T) {
		t.Parallel()

		t.Run("it assigns each pair from a map", func(t *testing.T) {
			t.Parallel()

			s, rec := setup(t, nil)

			if err := s.BulkSet(t.Context(), map[string]any{"d": "yes", "b": true}); err != nil {
				t.Fatal(err)
			}

			// Map keys are applied in sorted order.
			if diff := cmp.Diff([]uint64{1, 3, 11}, rec.Calls); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it accepts maps with named string keys", func(t *testing.T) {
			t.Parallel()

			type key string
			s, _ := setup(t, nil)

			if err := s.BulkSet(t.Context(), map[key]bool{"c": true}); err != nil {
				t.Fatal(err)
			}

			if !s.Get("c") {
				t.Fatal("expected c to be true")
			}
		})

		t.Run("it applies ordered pairs in order, last write wins", func(t *testing.T) {
			t.Parallel()

			s, rec := setup(t, nil)

			if err := s.BulkSet(
				t.Context(),
				[]Pair{
					{"b", true},
					{"c", 1},
					{"b", "n"},
				},
			); err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff([]uint64{1, 3, 7, 5}, rec.Calls); diff != "" {
				t.Fatal(diff)
			}
		})

		t.Run("it accepts key/value sequences", func(t *testing.T) {
			t.Parallel()

			s, _ := setup(t, nil)

			seq := maps.All(map[string]bool{"b": true})
			if err := s.BulkSet(t.Context(), seq); err != nil {
				t.Fatal(err)
			}

			var fn func(func(string, string) bool) = func(yield func(string, string) bool) {
				yield("c", "Y")
			}
			if err := s.BulkSet(t.Context(), fn); err != nil {
				t.Fatal(err)
			}

			if got, want := s.Encode(), uint64(7); got != want {
				t.Fatalf("unexpected packed value: got %d, want %d", got, want)
			}
		})

		t.Run("it copies another set", func(t *testing.T) {
			t.Parallel()

			src, _ := setup(t, 14)
			dst, _ := setup(t, nil)

			if err := dst.BulkSet(t.Context(), src); err != nil {
				t.Fatal(err)
			}

			if got, want := dst.Encode(), uint64(14); got != want {
				t.Fatalf("unexpected packed value: got %d, want %d", got, want)
			}
		})

		t.Run("it ignores sources that are not enumerable", func(t *testing.T) {
			t.Parallel()

			for _, src := range []any{
				nil,
				(*Set)(nil),
				42,
				"b=true",
				map[int]bool{1: true},
				[]string{"b"},
			} {
				s, rec := setup(t, nil)

				if err := s.BulkSet(t.Context(), src); err != nil {
					t.Fatal(err)
				}

				if got, want := s.Encode(), uint64(1); got != want {
					t.Fatalf("unexpected packed value for %#v: got %d, want %d", src, got, want)
				}

				if len(rec.Calls) != 1 {
					t.Fatalf("unexpected persistence calls for %#v: %v", src, rec.Calls)
				}
			}
		})

		t.Run("it stops at the first persistence error", func(t *testing.T) {
			t.Parallel()

			s, rec := setup(t, nil)

			want := errors.New("<error>")
			rec.Err = want

			err := s.BulkSet(t.Context(), []Pair{{"b", true}, {"c", true}})
			if !errors.Is(err, want) {
				t.Fatalf("unexpected error: got %v, want %v", err, want)
			}

			if s.Get("c") {
				t.Fatal("did not expect c to be assigned")
			}
		})
	})

	t.Run("end-to-end", func(t *testing.T) {
		t.Parallel()

		s, rec := setup(t, nil)

		want := []Pair{{"a", true}, {"b", false}, {"c", false}, {"d", false}}
		if diff := cmp.Diff(want, collect(s.Enumerate())); diff != "" {
			t.Fatal(diff)
		}

		if got, want := s.Encode(), uint64(1); got != want {
			t.Fatalf("unexpected packed value: got %d, want %d", got, want)
		}

		if err := s.Set(t.Context(), "c", true); err != nil {
			t.Fatal(err)
		}

		if got, want := s.Encode(), uint64(5); got != want {
			t.Fatalf("unexpected packed value: got %d, want %d", got, want)
		}

		if err := s.BulkSet(t.Context(), map[string]any{"b": true, "d": "yes"}); err != nil {
			t.Fatal(err)
		}

		if got, want := s.Encode(), uint64(15); got != want {
			t.Fatalf("unexpected packed value: got %d, want %d", got, want)
		}

		if got, want := rec.Last(t), uint64(15); got != want {
			t.Fatalf("unexpected persisted value: got %d, want %d", got, want)
		}

		if !slices.Equal(rec.Calls, []uint64{1, 5, 7, 15}) {
			t.Fatalf("unexpected persistence calls: %v", rec.Calls)
		}
	})
}
