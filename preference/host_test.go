package preference_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/dogmatiq/preferencekit/preference"
	"github.com/google/go-cmp/cmp"
)

// person is a host that stores its packed preferences in a field, and
// exposes them through a [Lazy] field.
type person struct {
	Stored  *uint64
	Reads   int
	ReadErr error

	prefs Lazy
}

func (p *person) ReadRawPreferences(context.Context) (any, error) {
	p.Reads++
	if p.ReadErr != nil {
		return nil, p.ReadErr
	}
	if p.Stored == nil {
		return nil, nil
	}
	return *p.Stored, nil
}

func (p *person) PersistRawPreferences(_ context.Context, packed uint64) error {
	p.Stored = &packed
	return nil
}

func (p *person) Prefs(ctx context.Context, r *Registry) (*Set, error) {
	return p.prefs.Get(ctx, p, r)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("it stores the defaults on a new host", func(t *testing.T) {
		t.Parallel()

		r := newScenarioRegistry(t)
		h := &person{}

		if _, err := Load(t.Context(), h, r); err != nil {
			t.Fatal(err)
		}

		if h.Stored == nil || *h.Stored != 1 {
			t.Fatalf("unexpected stored value: %v", h.Stored)
		}
	})

	t.Run("it decodes the value stored by the host", func(t *testing.T) {
		t.Parallel()

		r := newScenarioRegistry(t)
		stored := uint64(6)
		h := &person{Stored: &stored}

		s, err := Load(t.Context(), h, r)
		if err != nil {
			t.Fatal(err)
		}

		want := map[string]bool{"a": false, "b": true, "c": true, "d": false}
		if diff := cmp.Diff(want, s.Map()); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("it returns an error if the host can not be read", func(t *testing.T) {
		t.Parallel()

		want := errors.New("<error>")
		h := &person{ReadErr: want}

		if _, err := Load(t.Context(), h, newScenarioRegistry(t)); !errors.Is(err, want) {
			t.Fatalf("unexpected error: got %v, want %v", err, want)
		}

		if h.Stored != nil {
			t.Fatal("did not expect a value to be persisted")
		}
	})
}

func TestLazy(t *testing.T) {
	t.Parallel()

	t.Run("it constructs the set once per host", func(t *testing.T) {
		t.Parallel()

		r := newScenarioRegistry(t)
		h := &person{}

		first, err := h.Prefs(t.Context(), r)
		if err != nil {
			t.Fatal(err)
		}

		second, err := h.Prefs(t.Context(), r)
		if err != nil {
			t.Fatal(err)
		}

		if first != second {
			t.Fatal("expected the same set to be returned")
		}

		if h.Reads != 1 {
			t.Fatalf("unexpected number of reads: got %d, want 1", h.Reads)
		}
	})

	t.Run("it writes changes through to the host", func(t *testing.T) {
		t.Parallel()

		r := newScenarioRegistry(t)
		h := &person{}

		s, err := h.Prefs(t.Context(), r)
		if err != nil {
			t.Fatal(err)
		}

		if err := s.Set(t.Context(), "d", "yes"); err != nil {
			t.Fatal(err)
		}

		if got, want := *h.Stored, uint64(9); got != want {
			t.Fatalf("unexpected stored value: got %d, want %d", got, want)
		}
	})

	t.Run("it retries after a failed load", func(t *testing.T) {
		t.Parallel()

		r := newScenarioRegistry(t)
		h := &person{ReadErr: errors.New("<error>")}

		if _, err := h.Prefs(t.Context(), r); err == nil {
			t.Fatal("expected an error")
		}

		if h.prefs.Loaded() {
			t.Fatal("did not expect the set to be loaded")
		}

		h.ReadErr = nil

		if _, err := h.Prefs(t.Context(), r); err != nil {
			t.Fatal(err)
		}

		if !h.prefs.Loaded() {
			t.Fatal("expected the set to be loaded")
		}
	})
}
