package pgcolumn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dogmatiq/preferencekit/column"
	"github.com/dogmatiq/preferencekit/driver/sql/postgres/internal/bigint"
	"github.com/dogmatiq/preferencekit/driver/sql/postgres/internal/pgerror"
)

type col struct {
	db   *sql.DB
	name string
}

func (c *col) Name() string {
	return c.name
}

func (c *col) Load(ctx context.Context, id string) (packed uint64, ok bool, err error) {
	row := c.db.QueryRowContext(
		ctx,
		`SELECT value
		FROM preferencekit.packed
		WHERE attribute = $1
		AND id = $2`,
		c.name,
		id,
	)

	if err := row.Scan(bigint.ConvertUnsigned(&packed)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, describe("load", err)
	}

	return packed, true, nil
}

func (c *col) Save(ctx context.Context, id string, packed uint64) error {
	if _, err := c.db.ExecContext(
		ctx,
		`INSERT INTO preferencekit.packed AS o (
			attribute,
			id,
			value
		) VALUES (
			$1, $2, $3
		) ON CONFLICT (attribute, id) DO UPDATE SET
			value = excluded.value`,
		c.name,
		id,
		bigint.ConvertUnsigned(&packed),
	); err != nil {
		return describe("save", err)
	}

	return nil
}

func (c *col) Delete(ctx context.Context, id string) error {
	if _, err := c.db.ExecContext(
		ctx,
		`DELETE FROM preferencekit.packed
		WHERE attribute = $1
		AND id = $2`,
		c.name,
		id,
	); err != nil {
		return describe("delete", err)
	}

	return nil
}

func (c *col) Range(ctx context.Context, fn column.RangeFunc) error {
	rows, err := c.db.QueryContext(
		ctx,
		`SELECT id, value
		FROM preferencekit.packed
		WHERE attribute = $1`,
		c.name,
	)
	if err != nil {
		return describe("range over", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id     string
			packed uint64
		)
		if err := rows.Scan(&id, bigint.ConvertUnsigned(&packed)); err != nil {
			return fmt.Errorf("cannot scan packed value: %w", err)
		}

		ok, err := fn(ctx, id, packed)
		if !ok || err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("cannot range over packed values: %w", err)
	}

	return nil
}

func (c *col) Close() error {
	return nil
}

// describe adds context to an error returned by the database.
func describe(action string, err error) error {
	if pgerror.Is(err, pgerror.CodeUndefinedTable) {
		return fmt.Errorf("cannot %s packed values, has CreateSchema() been called?: %w", action, err)
	}
	return fmt.Errorf("cannot %s packed values: %w", action, err)
}
