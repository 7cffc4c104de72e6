package preference

import (
	"context"
	"fmt"
)

// Host is a record that owns a [Set] and stores its packed value.
type Host interface {
	// ReadRawPreferences returns the host's stored packed value, or nil if
	// nothing has been stored yet.
	ReadRawPreferences(ctx context.Context) (any, error)

	// PersistRawPreferences stores a new packed value.
	PersistRawPreferences(ctx context.Context, packed uint64) error
}

// Load returns the preferences of h, decoded against r.
//
// It reads the host's raw value once, and persists the canonical packed value
// before returning.
func Load(ctx context.Context, h Host, r *Registry) (*Set, error) {
	raw, err := h.ReadRawPreferences(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q preferences: %w", r.HostType(), err)
	}

	return New(ctx, r, raw, h.PersistRawPreferences)
}

// Lazy holds a host's [Set], constructing it on first use.
//
// Hosts embed a Lazy as a named field and forward preference operations
// through [Lazy.Get]. The zero value is ready to use.
type Lazy struct {
	set *Set
}

// Get returns the host's preferences, loading them from h on the first call.
//
// If loading fails, the next call tries again.
func (l *Lazy) Get(ctx context.Context, h Host, r *Registry) (*Set, error) {
	if l.set != nil {
		return l.set, nil
	}

	s, err := Load(ctx, h, r)
	if err != nil {
		return nil, err
	}

	l.set = s

	return s, nil
}

// Loaded returns true if the preferences have already been constructed.
func (l *Lazy) Loaded() bool {
	return l.set != nil
}
