package memorycolumn

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/dogmatiq/preferencekit/column"
)

// state is the in-memory state of a column.
type state struct {
	sync.RWMutex
	Values map[string]uint64
}

// col is an implementation of [column.Column] that manipulates a column's
// in-memory [state].
type col struct {
	name  string
	state *state
}

func (c *col) Name() string {
	return c.name
}

func (c *col) Load(ctx context.Context, id string) (uint64, bool, error) {
	if c.state == nil {
		panic("column is closed")
	}

	c.state.RLock()
	defer c.state.RUnlock()

	packed, ok := c.state.Values[id]
	return packed, ok, ctx.Err()
}

func (c *col) Save(ctx context.Context, id string, packed uint64) error {
	if c.state == nil {
		panic("column is closed")
	}

	c.state.Lock()
	defer c.state.Unlock()

	if c.state.Values == nil {
		c.state.Values = map[string]uint64{}
	}

	c.state.Values[id] = packed

	return ctx.Err()
}

func (c *col) Delete(ctx context.Context, id string) error {
	if c.state == nil {
		panic("column is closed")
	}

	c.state.Lock()
	defer c.state.Unlock()

	delete(c.state.Values, id)

	return ctx.Err()
}

func (c *col) Range(ctx context.Context, fn column.RangeFunc) error {
	if c.state == nil {
		panic("column is closed")
	}

	c.state.RLock()
	values := maps.Clone(c.state.Values)
	c.state.RUnlock()

	for id, packed := range values {
		ok, err := fn(ctx, id, packed)
		if !ok || err != nil {
			return err
		}
	}

	return nil
}

func (c *col) Close() error {
	if c.state == nil {
		return errors.New("column is already closed")
	}

	c.state = nil

	return nil
}
