package pgcolumn

import (
	"context"
	"database/sql"

	"github.com/dogmatiq/preferencekit/column"
)

// Store is an implementation of [column.Store] that persists to a PostgreSQL
// database.
//
// Packed values are stored as BIGINT with their bits unchanged, so they can
// be queried with SQL bitwise operators, e.g. "value & 4 <> 0".
type Store struct {
	// DB is the PostgreSQL database connection.
	DB *sql.DB
}

// Open returns the column with the given name.
func (s *Store) Open(ctx context.Context, name string) (column.Column, error) {
	return &col{
		db:   s.DB,
		name: name,
	}, ctx.Err()
}
