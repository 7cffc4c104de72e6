package column

import "context"

// Store is a collection of named columns.
//
// Each column holds the packed preferences of one attribute, typically the
// attribute configured for a single host type.
type Store interface {
	// Open returns the column with the given name.
	Open(ctx context.Context, name string) (Column, error)
}

// A RangeFunc is a function used to range over the records in a [Column].
//
// If err is non-nil, ranging stops and err is propagated up the stack.
// Otherwise, if ok is false, ranging stops without any error being propagated.
type RangeFunc func(ctx context.Context, id string, packed uint64) (ok bool, err error)

// A Column maps record IDs to packed preference values.
//
// Implementations are safe for concurrent use.
type Column interface {
	// Name returns the name of the column.
	Name() string

	// Load returns the packed value stored for the record with the given ID.
	//
	// ok is false if no value has been stored, which is distinct from a stored
	// value of zero.
	Load(ctx context.Context, id string) (packed uint64, ok bool, err error)

	// Save stores the packed value for the record with the given ID.
	Save(ctx context.Context, id string, packed uint64) error

	// Delete removes the stored value for the record with the given ID, if
	// any.
	Delete(ctx context.Context, id string) error

	// Range invokes fn for each record in the column in an undefined order.
	Range(ctx context.Context, fn RangeFunc) error

	// Close closes the column.
	Close() error
}
