package marshaler

import "strconv"

// Decimal marshals and unmarshals packed values as base-10 text.
var Decimal = New(
	func(v uint64) ([]byte, error) {
		return strconv.AppendUint(nil, v, 10), nil
	},
	func(data []byte) (uint64, error) {
		return strconv.ParseUint(string(data), 10, 64)
	},
)
