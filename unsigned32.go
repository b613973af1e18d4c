/*
Copyright 2023 Alexander Bartolomey (github@alexanderbartolomey.de)

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package fast

import "io"

// DecodeUInt32 reads a mandatory uInt32 scalar.
func DecodeUInt32(r io.Reader) (Value, error) {
	raw, _, err := readUnsigned(r, maxStopBitBytes32)
	if err != nil {
		return Value{}, err
	}
	if raw > 0xFFFFFFFF {
		return Value{}, Overflow(maxStopBitBytes32)
	}
	return Value{Type: ScalarUInt32, UInt32: uint32(raw)}, nil
}

// DecodeUInt32Optional reads an optional uInt32 scalar, applying the
// add-one-on-wire null convention.
func DecodeUInt32Optional(r io.Reader) (Value, error) {
	raw, isNull, _, err := decodeNullableUnsigned(r, maxStopBitBytes32)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarUInt32, Null: true}, nil
	}
	if raw > 0xFFFFFFFF {
		return Value{}, Overflow(maxStopBitBytes32)
	}
	return Value{Type: ScalarUInt32, UInt32: uint32(raw)}, nil
}

// EncodeUInt32 writes a mandatory uInt32 scalar.
func EncodeUInt32(w io.Writer, v Value) error {
	_, err := writeUnsigned(w, uint64(v.UInt32))
	return err
}

// EncodeUInt32Optional writes an optional uInt32 scalar.
func EncodeUInt32Optional(w io.Writer, v Value) error {
	_, err := encodeNullableUnsigned(w, uint64(v.UInt32), v.Null)
	return err
}
