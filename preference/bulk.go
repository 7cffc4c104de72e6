package preference

import (
	"cmp"
	"context"
	"iter"
	"reflect"
	"slices"
)

// Pair is a key/value pair used for ordered bulk assignment.
type Pair struct {
	Key   string
	Value any
}

// BulkSet calls [Set.Set] for each key/value pair in source, in the order
// source yields them. Later pairs for the same key win.
//
// source may be a map with string keys (visited in key order), a []Pair, a
// key/value sequence or another *Set. Any other value is ignored. It stops at
// the first persistence error.
func (s *Set) BulkSet(ctx context.Context, source any) error {
	for k, v := range pairs(source) {
		if err := s.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

// pairs returns the key/value pairs in source, or an empty sequence if source
// is not enumerable.
func pairs(source any) iter.Seq2[string, any] {
	switch src := source.(type) {
	case nil:
		return empty
	case *Set:
		if src == nil {
			return empty
		}
		return anyValues(src.Enumerate())
	case []Pair:
		return func(yield func(string, any) bool) {
			for _, p := range src {
				if !yield(p.Key, p.Value) {
					return
				}
			}
		}
	case iter.Seq2[string, any]:
		return src
	case func(func(string, any) bool):
		return src
	case iter.Seq2[string, bool]:
		return anyValues(src)
	case func(func(string, bool) bool):
		return anyValues(iter.Seq2[string, bool](src))
	case iter.Seq2[string, string]:
		return anyValues(src)
	case func(func(string, string) bool):
		return anyValues(iter.Seq2[string, string](src))
	case iter.Seq2[string, int]:
		return anyValues(src)
	case func(func(string, int) bool):
		return anyValues(iter.Seq2[string, int](src))
	}

	return mapPairs(source)
}

// mapPairs returns the entries of a map with string-kinded keys, in key order.
func mapPairs(source any) iter.Seq2[string, any] {
	m := reflect.ValueOf(source)
	if m.Kind() != reflect.Map || m.Type().Key().Kind() != reflect.String {
		return empty
	}

	keys := m.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return cmp.Compare(a.String(), b.String())
	})

	return func(yield func(string, any) bool) {
		for _, k := range keys {
			if !yield(k.String(), m.MapIndex(k).Interface()) {
				return
			}
		}
	}
}

func anyValues[V any](seq iter.Seq2[string, V]) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range seq {
			if !yield(k, v) {
				return
			}
		}
	}
}

func empty(func(string, any) bool) {}
