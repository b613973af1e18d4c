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

// DecodeUInt64 reads a mandatory uInt64 scalar.
func DecodeUInt64(r io.Reader) (Value, error) {
	raw, _, err := readUnsigned(r, maxStopBitBytes10)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ScalarUInt64, UInt64: raw}, nil
}

// DecodeUInt64Optional reads an optional uInt64 scalar.
func DecodeUInt64Optional(r io.Reader) (Value, error) {
	raw, isNull, _, err := decodeNullableUnsigned(r, maxStopBitBytes10)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarUInt64, Null: true}, nil
	}
	return Value{Type: ScalarUInt64, UInt64: raw}, nil
}

// EncodeUInt64 writes a mandatory uInt64 scalar.
func EncodeUInt64(w io.Writer, v Value) error {
	_, err := writeUnsigned(w, v.UInt64)
	return err
}

// EncodeUInt64Optional writes an optional uInt64 scalar.
func EncodeUInt64Optional(w io.Writer, v Value) error {
	_, err := encodeNullableUnsigned(w, v.UInt64, v.Null)
	return err
}
