package marshaler

import "google.golang.org/protobuf/types/known/wrapperspb"

// Packed marshals and unmarshals packed values as a protocol buffers
// [wrapperspb.UInt64Value] message.
var Packed = New(
	func(v uint64) ([]byte, error) {
		return uint64Value.Marshal(wrapperspb.UInt64(v))
	},
	func(data []byte) (uint64, error) {
		m, err := uint64Value.Unmarshal(data)
		if err != nil {
			return 0, err
		}
		return m.GetValue(), nil
	},
)

var uint64Value = NewProto[*wrapperspb.UInt64Value]()
