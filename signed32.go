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

// DecodeInt32 reads a mandatory int32 scalar.
func DecodeInt32(r io.Reader) (Value, error) {
	raw, _, err := readSigned(r, maxStopBitBytes32)
	if err != nil {
		return Value{}, err
	}
	if raw > 0x7FFFFFFF || raw < -0x80000000 {
		return Value{}, Overflow(maxStopBitBytes32)
	}
	return Value{Type: ScalarInt32, Int32: int32(raw)}, nil
}

// DecodeInt32Optional reads an optional int32 scalar.
func DecodeInt32Optional(r io.Reader) (Value, error) {
	raw, isNull, _, err := decodeNullableSigned(r, maxStopBitBytes32)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarInt32, Null: true}, nil
	}
	if raw > 0x7FFFFFFF || raw < -0x80000000 {
		return Value{}, Overflow(maxStopBitBytes32)
	}
	return Value{Type: ScalarInt32, Int32: int32(raw)}, nil
}

// EncodeInt32 writes a mandatory int32 scalar.
func EncodeInt32(w io.Writer, v Value) error {
	_, err := writeSigned(w, int64(v.Int32))
	return err
}

// EncodeInt32Optional writes an optional int32 scalar.
func EncodeInt32Optional(w io.Writer, v Value) error {
	_, err := encodeNullableSigned(w, int64(v.Int32), v.Null)
	return err
}
