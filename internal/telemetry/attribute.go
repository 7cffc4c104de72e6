package telemetry

import (
	"math"
	"reflect"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log"
	"golang.org/x/exp/constraints"
)

// Attr is a telemetry attribute.
type Attr struct {
	typ attrType
	key string
	str string
	num uint64
}

// String returns a string attribute.
func String[T ~string](k string, v T) Attr {
	return Attr{
		typ: attrTypeString,
		key: k,
		str: string(v),
	}
}

// Type returns a string attribute set to the name of T.
func Type[T any](k string, v T) Attr {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return String(k, t.String())
}

// Bool returns a boolean attribute.
func Bool[T ~bool](k string, v T) Attr {
	var n uint64
	if v {
		n = 1
	}

	return Attr{
		typ: attrTypeBool,
		key: k,
		num: n,
	}
}

// Int returns an int64 attribute.
func Int[T constraints.Integer](k string, v T) Attr {
	return Attr{
		typ: attrTypeInt64,
		key: k,
		num: uint64(v),
	}
}

// Bits returns an attribute containing a packed value rendered in binary,
// which is easier to correlate with individual preferences than a decimal
// number.
func Bits(k string, v uint64) Attr {
	return String(k, strconv.FormatUint(v, 2))
}

var (
	// ReadDirection is an attribute that marks a measurement as relating to
	// data that was read from the underlying store.
	ReadDirection = String("io.direction", "read")

	// WriteDirection is an attribute that marks a measurement as relating to
	// data that was written to the underlying store.
	WriteDirection = String("io.direction", "write")
)

func (a Attr) asAttrKeyValue() (attribute.KeyValue, bool) {
	switch a.typ {
	case attrTypeNone:
		return attribute.KeyValue{}, false
	case attrTypeString:
		return attribute.String(a.key, a.str), true
	case attrTypeBool:
		return attribute.Bool(a.key, a.num != 0), true
	case attrTypeInt64:
		return attribute.Int64(a.key, int64(a.num)), true
	case attrTypeFloat64:
		return attribute.Float64(a.key, math.Float64frombits(a.num)), true
	default:
		panic("unknown attribute type")
	}
}

func (a Attr) asLogKeyValue() (log.KeyValue, bool) {
	switch a.typ {
	case attrTypeNone:
		return log.KeyValue{}, false
	case attrTypeString:
		return log.String(a.key, a.str), true
	case attrTypeBool:
		return log.Bool(a.key, a.num != 0), true
	case attrTypeInt64:
		return log.Int64(a.key, int64(a.num)), true
	case attrTypeFloat64:
		return log.Float64(a.key, math.Float64frombits(a.num)), true
	default:
		panic("unknown attribute type")
	}
}

type attrType uint8

const (
	attrTypeNone attrType = iota
	attrTypeString
	attrTypeBool
	attrTypeInt64
	attrTypeFloat64
)

func asAttrKeyValues(attrs []Attr) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(attrs))

	for _, attr := range attrs {
		if attr, ok := attr.asAttrKeyValue(); ok {
			kvs = append(kvs, attr)
		}
	}

	return kvs
}

func asLogKeyValues(attrs []Attr) []log.KeyValue {
	kvs := make([]log.KeyValue, 0, len(attrs))

	for _, attr := range attrs {
		if attr, ok := attr.asLogKeyValue(); ok {
			kvs = append(kvs, attr)
		}
	}

	return kvs
}
