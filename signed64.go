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

// DecodeInt64 reads a mandatory int64 scalar. It also decodes the mantissa
// of a split-declared Decimal; the exponent goes through DecodeInt32.
func DecodeInt64(r io.Reader) (Value, error) {
	raw, _, err := readSigned(r, maxStopBitBytes10)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ScalarInt64, Int64: raw}, nil
}

// DecodeInt64Optional reads an optional int64 scalar.
func DecodeInt64Optional(r io.Reader) (Value, error) {
	raw, isNull, _, err := decodeNullableSigned(r, maxStopBitBytes10)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarInt64, Null: true}, nil
	}
	return Value{Type: ScalarInt64, Int64: raw}, nil
}

// EncodeInt64 writes a mandatory int64 scalar.
func EncodeInt64(w io.Writer, v Value) error {
	_, err := writeSigned(w, v.Int64)
	return err
}

// EncodeInt64Optional writes an optional int64 scalar.
func EncodeInt64Optional(w io.Writer, v Value) error {
	_, err := encodeNullableSigned(w, v.Int64, v.Null)
	return err
}
