package preference

import (
	"fmt"
	"strings"
)

// IsTrue coerces v to a boolean.
//
// The bool true, any integer or float equal to 1, and the strings "1", "y"
// and "yes" (case-insensitive, ignoring surrounding whitespace) are true.
// Everything else, including nil, is false.
func IsTrue(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case int:
		return v == 1
	case int8:
		return v == 1
	case int16:
		return v == 1
	case int32:
		return v == 1
	case int64:
		return v == 1
	case uint:
		return v == 1
	case uint8:
		return v == 1
	case uint16:
		return v == 1
	case uint32:
		return v == 1
	case uint64:
		return v == 1
	case uintptr:
		return v == 1
	case float32:
		return v == 1
	case float64:
		return v == 1
	case string:
		return isTrueString(v)
	case []byte:
		return isTrueString(string(v))
	case fmt.Stringer:
		return isTrueString(v.String())
	default:
		return false
	}
}

func isTrueString(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" ||
		strings.EqualFold(s, "y") ||
		strings.EqualFold(s, "yes")
}
