package preference

import (
	"context"
	"fmt"
	"iter"
	"maps"
	"reflect"
)

// PersistFunc stores a packed value on behalf of a host.
type PersistFunc func(ctx context.Context, packed uint64) error

// Set is the collection of preference values that belongs to a single host.
//
// Every key in the host type's [Registry] has exactly one value at all times.
// Values for unregistered ("ad-hoc") keys may be assigned and read back with
// [Set.Get], but they are never enumerated, counted or encoded.
//
// A Set is not safe for concurrent use.
type Set struct {
	registry *Registry
	persist  PersistFunc
	values   []bool
	adhoc    map[string]bool
}

// New returns the preferences decoded from raw, a host's stored packed value.
//
// If raw is nil each registered preference takes its default value. If raw is
// an integer each registered preference is true if its bit is set. Any other
// value produces an [InvalidArgumentError].
//
// persist is called exactly once before New returns, so that a host always has
// a canonical packed value stored, even if it was just the defaults.
func New(
	ctx context.Context,
	r *Registry,
	raw any,
	persist PersistFunc,
) (*Set, error) {
	packed, present, err := decodeRaw(raw)
	if err != nil {
		return nil, err
	}

	s := &Set{
		registry: r,
		persist:  persist,
		values:   make([]bool, r.Len()),
	}

	for i, e := range r.Entries() {
		if present {
			s.values[i] = packed&e.Bit != 0
		} else {
			s.values[i] = e.Default
		}
	}

	if err := s.save(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// decodeRaw converts a raw stored value to a packed value. present is false
// if raw represents the absence of a stored value.
func decodeRaw(raw any) (packed uint64, present bool, err error) {
	if raw == nil {
		return 0, false, nil
	}

	v := reflect.ValueOf(raw)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, false, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint(), true, nil
	}

	return 0, false, InvalidArgumentError{
		Argument: "packed preferences",
		Value:    raw,
		Reason:   "input must be numeric",
	}
}

// Registry returns the registry that the set was decoded against.
func (s *Set) Registry() *Registry {
	return s.registry
}

// Get returns the value of the preference with the given key.
//
// Keys that have never been set, and are not registered, are false.
func (s *Set) Get(key string) bool {
	if i, ok := s.registry.index[key]; ok {
		return s.values[i]
	}
	return s.adhoc[key]
}

// Set coerces v to a boolean using [IsTrue], assigns it to the preference with
// the given key and persists the new packed value.
//
// Unregistered keys are accepted. The returned error, if any, is from the
// host's persistence hook; the value is assigned regardless.
func (s *Set) Set(ctx context.Context, key string, v any) error {
	b := IsTrue(v)

	if i, ok := s.registry.index[key]; ok {
		s.values[i] = b
	} else {
		if s.adhoc == nil {
			s.adhoc = map[string]bool{}
		}
		s.adhoc[key] = b
	}

	return s.save(ctx)
}

// BitIndex returns the bit value (2^i, not i) assigned to the preference with
// the given key.
func (s *Set) BitIndex(key string) (uint64, bool) {
	if i, ok := s.registry.index[key]; ok {
		return s.registry.entries[i].Bit, true
	}
	return 0, false
}

// Enumerate returns the registered preferences and their values in bit order.
//
// The values are captured when Enumerate is called. Ad-hoc keys are excluded.
func (s *Set) Enumerate() iter.Seq2[string, bool] {
	values := make([]bool, len(s.values))
	copy(values, s.values)

	return func(yield func(string, bool) bool) {
		for i, v := range values {
			if !yield(s.registry.entries[i].Key, v) {
				return
			}
		}
	}
}

// Map returns the registered preferences and their values.
func (s *Set) Map() map[string]bool {
	return maps.Collect(s.Enumerate())
}

// Size returns the number of registered preferences.
func (s *Set) Size() int {
	return len(s.values)
}

// Encode returns the packed value of the registered preferences.
func (s *Set) Encode() uint64 {
	var packed uint64
	for i, v := range s.values {
		if v {
			packed |= s.registry.entries[i].Bit
		}
	}
	return packed
}

func (s *Set) save(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	if err := s.persist(ctx, s.Encode()); err != nil {
		return fmt.Errorf("cannot persist %q preferences: %w", s.registry.hostType, err)
	}

	return nil
}
