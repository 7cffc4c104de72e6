package preference

import (
	"reflect"
	"slices"
	"sync"
)

// Catalog holds the [Registry] of each configured host type.
//
// The zero value is ready to use. It is safe for concurrent use.
type Catalog struct {
	m          sync.RWMutex
	registries map[string]*Registry
}

// Configure registers the given preference keys for a host type.
//
// The i'th key (0-based) is assigned the bit value 2^i and a default of
// false. It returns a [ConfigurationError] if the host type has already been
// configured, or if keys is empty, contains duplicates or has more than
// [MaxKeys] elements.
func (c *Catalog) Configure(
	hostType string,
	keys []string,
	options ...Option,
) (*Registry, error) {
	if hostType == "" {
		return nil, ConfigurationError{hostType, "host type must not be empty"}
	}

	r, err := newRegistry(hostType, keys, options)
	if err != nil {
		return nil, err
	}

	c.m.Lock()
	defer c.m.Unlock()

	if _, ok := c.registries[hostType]; ok {
		return nil, ConfigurationError{hostType, "preferences have already been configured"}
	}

	if c.registries == nil {
		c.registries = map[string]*Registry{}
	}

	c.registries[hostType] = r

	return r, nil
}

// ConfigureType is a convenience wrapper around [Catalog.Configure] that uses
// the name of the Go type H as the host type.
func ConfigureType[H any](
	c *Catalog,
	keys []string,
	options ...Option,
) (*Registry, error) {
	return c.Configure(TypeName[H](), keys, options...)
}

// TypeName returns the host type name used by [ConfigureType] for H.
func TypeName[H any]() string {
	t := reflect.TypeFor[H]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

// Registry returns the registry for the given host type.
func (c *Catalog) Registry(hostType string) (*Registry, bool) {
	c.m.RLock()
	defer c.m.RUnlock()

	r, ok := c.registries[hostType]
	return r, ok
}

// HostTypes returns the names of all configured host types, in sorted order.
func (c *Catalog) HostTypes() []string {
	c.m.RLock()
	defer c.m.RUnlock()

	names := make([]string, 0, len(c.registries))
	for n := range c.registries {
		names = append(names, n)
	}
	slices.Sort(names)

	return names
}
