package bigint

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

// ConvertUnsigned returns a type that can be used in SQL statements and scan
// operations that stores an unsigned 64-bit integer in a signed 64-bit
// integer (which is PostgreSQL's largest integer type).
//
// The bits are stored unchanged, so bit 63 becomes the sign bit. Bitwise
// operators in SQL see the same bits as Go code, but ordering does not match
// the unsigned order.
func ConvertUnsigned[T ~uint64](target *T) interface {
	driver.Valuer
	sql.Scanner
} {
	return value[T]{target}
}

type value[T ~uint64] struct {
	Target *T
}

func (v value[T]) Scan(src any) error {
	if src, ok := src.(int64); ok {
		*v.Target = T(uint64(src))
		return nil
	}

	return fmt.Errorf("cannot scan %T into %T", src, v.Target)
}

func (v value[T]) Value() (driver.Value, error) {
	return int64(uint64(*v.Target)), nil
}
