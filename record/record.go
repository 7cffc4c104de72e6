package record

import (
	"context"

	"github.com/dogmatiq/preferencekit/preference"
)

// Record is a single host whose preferences are stored in a [Repository].
//
// A Record is not safe for concurrent use. Records obtained from the same
// repository may be used concurrently.
type Record struct {
	id    string
	repo  *Repository
	fresh bool
	prefs preference.Lazy
}

var _ preference.Host = (*Record)(nil)

// ID returns the record's ID.
func (r *Record) ID() string {
	return r.id
}

// Prefs returns the record's preferences.
func (r *Record) Prefs(ctx context.Context) (*preference.Set, error) {
	return r.prefs.Get(ctx, r, r.repo.registry)
}

// SetPrefs assigns each key/value pair in source to the record's preferences.
//
// source may be any value accepted by [preference.Set.BulkSet].
func (r *Record) SetPrefs(ctx context.Context, source any) error {
	s, err := r.Prefs(ctx)
	if err != nil {
		return err
	}
	return s.BulkSet(ctx, source)
}

// ReadRawPreferences returns the stored packed value, or nil if there is none.
func (r *Record) ReadRawPreferences(ctx context.Context) (any, error) {
	if r.fresh {
		return nil, nil
	}

	packed, ok, err := r.repo.column.Load(ctx, r.id)
	if !ok || err != nil {
		return nil, err
	}

	return packed, nil
}

// PersistRawPreferences stores the packed value.
func (r *Record) PersistRawPreferences(ctx context.Context, packed uint64) error {
	return r.repo.column.Save(ctx, r.id, packed)
}
