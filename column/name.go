package column

import "context"

// WithNameTransform returns a [Store] that uses x to transform the name of each
// column within s.
//
// [Column.Name] returns the untransformed name.
func WithNameTransform(s Store, x func(string) string) Store {
	return &nameTransformStore{s, x}
}

// WithNamePrefix returns a [Store] that adds the given prefix to all column
// names, allowing several applications to share the same underlying store.
func WithNamePrefix(s Store, prefix string) Store {
	return WithNameTransform(
		s,
		func(name string) string {
			return prefix + name
		},
	)
}

type nameTransformStore struct {
	Store
	transform func(string) string
}

func (s *nameTransformStore) Open(ctx context.Context, name string) (Column, error) {
	c, err := s.Store.Open(ctx, s.transform(name))
	if err != nil {
		return nil, err
	}

	return &nameTransformColumn{c, name}, nil
}

type nameTransformColumn struct {
	Column
	name string
}

func (c *nameTransformColumn) Name() string {
	return c.name
}
