package column

import (
	"context"

	"github.com/dogmatiq/preferencekit/internal/x/xatomic"
)

// SaveFunc is a function invoked by an [Interceptor] when a packed value is
// saved to a column.
type SaveFunc func(column, id string, packed uint64) error

// Interceptor defines functions that are invoked around column operations.
//
// The zero value is ready to use. Its functions may be changed while columns
// are in use.
type Interceptor struct {
	beforeOpen xatomic.Value[func(name string) error]
	beforeSave xatomic.Value[SaveFunc]
	afterSave  xatomic.Value[SaveFunc]
}

// BeforeOpen sets the function that is invoked before a [Column] is opened.
func (i *Interceptor) BeforeOpen(fn func(name string) error) {
	i.beforeOpen.Store(fn)
}

// BeforeSave sets the function that is invoked before a packed value is saved.
func (i *Interceptor) BeforeSave(fn SaveFunc) {
	i.beforeSave.Store(fn)
}

// AfterSave sets the function that is invoked after a packed value is saved.
func (i *Interceptor) AfterSave(fn SaveFunc) {
	i.afterSave.Store(fn)
}

// WithInterceptor returns a [Store] that invokes the functions defined by the
// given [Interceptor] when performing operations on s.
func WithInterceptor(s Store, in *Interceptor) Store {
	if in == nil {
		return s
	}

	return &interceptedStore{
		Next:        s,
		Interceptor: in,
	}
}

type interceptedStore struct {
	Next        Store
	Interceptor *Interceptor
}

func (s *interceptedStore) Open(ctx context.Context, name string) (Column, error) {
	if fn := s.Interceptor.beforeOpen.Load(); fn != nil {
		if err := fn(name); err != nil {
			return nil, err
		}
	}

	next, err := s.Next.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	return &interceptedColumn{
		Next:        next,
		Interceptor: s.Interceptor,
	}, nil
}

type interceptedColumn struct {
	Next        Column
	Interceptor *Interceptor
}

func (c *interceptedColumn) Name() string {
	return c.Next.Name()
}

func (c *interceptedColumn) Load(ctx context.Context, id string) (uint64, bool, error) {
	return c.Next.Load(ctx, id)
}

func (c *interceptedColumn) Save(ctx context.Context, id string, packed uint64) error {
	if fn := c.Interceptor.beforeSave.Load(); fn != nil {
		if err := fn(c.Next.Name(), id, packed); err != nil {
			return err
		}
	}

	if err := c.Next.Save(ctx, id, packed); err != nil {
		return err
	}

	if fn := c.Interceptor.afterSave.Load(); fn != nil {
		if err := fn(c.Next.Name(), id, packed); err != nil {
			return err
		}
	}

	return nil
}

func (c *interceptedColumn) Delete(ctx context.Context, id string) error {
	return c.Next.Delete(ctx, id)
}

func (c *interceptedColumn) Range(ctx context.Context, fn RangeFunc) error {
	return c.Next.Range(ctx, fn)
}

func (c *interceptedColumn) Close() error {
	return c.Next.Close()
}
