package preference

import (
	"math"
	"slices"
	"sync"
)

// DefaultAttribute is the name of the attribute in which hosts store their
// packed preferences unless [WithAttribute] is used.
const DefaultAttribute = "preferences"

// MaxKeys is the maximum number of preferences that may be registered for a
// single host type. Packed values are 64-bit unsigned integers.
const MaxKeys = 64

// Entry is a single registered preference.
type Entry struct {
	// Key is the preference's name, unique within its registry.
	Key string

	// Bit is the bit value (not the position) that represents the preference
	// within a packed value. The i'th declared key has a bit value of 2^i.
	Bit uint64

	// Default is the value used when a host has no packed value stored.
	Default bool
}

// Registry is the ordered set of preferences registered for a single host
// type.
//
// The keys and their bits are fixed when the registry is created. Only the
// defaults may change afterwards. It is safe for concurrent use.
type Registry struct {
	hostType  string
	attribute string

	m       sync.RWMutex
	entries []Entry
	index   map[string]int
}

// Option is a functional option that changes the behavior of
// [Catalog.Configure].
type Option func(*Registry)

// WithAttribute is an [Option] that sets the name of the attribute in which
// hosts of the configured type store their packed preferences.
func WithAttribute(name string) Option {
	return func(r *Registry) {
		if name == "" {
			panic("attribute name must not be empty")
		}
		r.attribute = name
	}
}

func newRegistry(hostType string, keys []string, options []Option) (*Registry, error) {
	if len(keys) == 0 {
		return nil, ConfigurationError{hostType, "at least one preference key is required"}
	}

	if len(keys) > MaxKeys {
		return nil, ConfigurationError{hostType, "too many preference keys, packed values are limited to 64 bits"}
	}

	r := &Registry{
		hostType:  hostType,
		attribute: DefaultAttribute,
		entries:   make([]Entry, 0, len(keys)),
		index:     make(map[string]int, len(keys)),
	}

	for i, k := range keys {
		if k == "" {
			return nil, ConfigurationError{hostType, "preference keys must not be empty"}
		}

		if _, ok := r.index[k]; ok {
			return nil, ConfigurationError{hostType, "duplicate preference key " + k}
		}

		r.index[k] = i
		r.entries = append(r.entries, Entry{
			Key: k,
			Bit: 1 << i,
		})
	}

	for _, opt := range options {
		opt(r)
	}

	return r, nil
}

// HostType returns the name of the host type that the registry belongs to.
func (r *Registry) HostType() string {
	return r.hostType
}

// Attribute returns the name of the attribute in which hosts store their
// packed preferences.
func (r *Registry) Attribute() string {
	return r.attribute
}

// Len returns the number of registered preferences.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Mask returns the packed value with every registered bit set.
func (r *Registry) Mask() uint64 {
	n := len(r.entries)
	if n == MaxKeys {
		return math.MaxUint64
	}
	return 1<<n - 1
}

// Lookup returns the entry for the given key.
func (r *Registry) Lookup(key string) (Entry, bool) {
	r.m.RLock()
	defer r.m.RUnlock()

	i, ok := r.index[key]
	if !ok {
		return Entry{}, false
	}

	return r.entries[i], true
}

// Entries returns a snapshot of the registered entries in bit order.
func (r *Registry) Entries() []Entry {
	r.m.RLock()
	defer r.m.RUnlock()

	return slices.Clone(r.entries)
}

// SetDefault changes the default value of the preference with the given key.
//
// It does nothing if the key is not registered.
func (r *Registry) SetDefault(key string, v bool) {
	r.m.Lock()
	defer r.m.Unlock()

	if i, ok := r.index[key]; ok {
		r.entries[i].Default = v
	}
}

// ParseDefault returns v as a default value. It returns an
// [InvalidArgumentError] if v is not a bool.
func ParseDefault(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, InvalidArgumentError{
			Argument: "default",
			Value:    v,
			Reason:   "default value must be boolean",
		}
	}
	return b, nil
}
