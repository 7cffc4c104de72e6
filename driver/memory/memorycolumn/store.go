package memorycolumn

import (
	"context"
	"sync"

	"github.com/dogmatiq/preferencekit/column"
)

// Store is an in-memory implementation of [column.Store].
type Store struct {
	columns sync.Map // map[string]*state
}

// Open returns the column with the given name.
func (s *Store) Open(ctx context.Context, name string) (column.Column, error) {
	st, ok := s.columns.Load(name)

	if !ok {
		st, _ = s.columns.LoadOrStore(
			name,
			&state{},
		)
	}

	return &col{
		name:  name,
		state: st.(*state),
	}, ctx.Err()
}
