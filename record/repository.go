package record

import (
	"context"

	"github.com/dogmatiq/preferencekit/column"
	"github.com/dogmatiq/preferencekit/internal/errorx"
	"github.com/dogmatiq/preferencekit/preference"
)

// Repository creates and loads records of a single host type, storing their
// packed preferences in a [column.Column].
type Repository struct {
	registry *preference.Registry
	column   column.Column
}

// NewRepository returns a repository for records of the host type described
// by r.
//
// It opens the column named by the registry's attribute.
func NewRepository(
	ctx context.Context,
	s column.Store,
	r *preference.Registry,
) (*Repository, error) {
	c, err := s.Open(ctx, r.Attribute())
	if err != nil {
		return nil, err
	}

	return &Repository{r, c}, nil
}

// Registry returns the registry that describes the repository's records.
func (r *Repository) Registry() *preference.Registry {
	return r.registry
}

// New returns a new record with the given ID.
//
// Any previously stored value is ignored. The record's default preferences are
// persisted before New returns.
func (r *Repository) New(ctx context.Context, id string) (_ *Record, err error) {
	defer errorx.Wrap(&err, "unable to initialize %s %q", r.registry.HostType(), id)

	rec := &Record{
		id:    id,
		repo:  r,
		fresh: true,
	}

	if _, err := rec.Prefs(ctx); err != nil {
		return nil, err
	}

	return rec, nil
}

// Load returns the record with the given ID.
//
// If nothing is stored for the record, it has its default preferences. The
// canonical packed value is persisted before Load returns.
func (r *Repository) Load(ctx context.Context, id string) (_ *Record, err error) {
	defer errorx.Wrap(&err, "unable to load %s %q", r.registry.HostType(), id)

	rec := &Record{
		id:   id,
		repo: r,
	}

	if _, err := rec.Prefs(ctx); err != nil {
		return nil, err
	}

	return rec, nil
}

// Delete removes the stored preferences of the record with the given ID.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.column.Delete(ctx, id)
}

// Range calls fn for each stored record, in an undefined order.
//
// Each record's preferences are decoded from the stored value without being
// persisted again.
func (r *Repository) Range(
	ctx context.Context,
	fn func(context.Context, string, *preference.Set) (bool, error),
) error {
	return r.column.Range(
		ctx,
		func(ctx context.Context, id string, packed uint64) (bool, error) {
			s, err := preference.New(ctx, r.registry, packed, nil)
			if err != nil {
				return false, err
			}
			return fn(ctx, id, s)
		},
	)
}

// Close closes the repository's column.
func (r *Repository) Close() error {
	return r.column.Close()
}
