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

// DecodeUnicodeString reads a mandatory unicodeString field: a u32 length
// prefix followed by that many bytes of UTF-8 content.
func DecodeUnicodeString(r io.Reader) (Value, error) {
	b, _, err := decodeLengthPrefixed(r, false)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ScalarUnicodeString, Text: string(b)}, nil
}

// DecodeUnicodeStringOptional reads an optional unicodeString field.
func DecodeUnicodeStringOptional(r io.Reader) (Value, error) {
	b, isNull, err := decodeLengthPrefixed(r, true)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarUnicodeString, Null: true}, nil
	}
	return Value{Type: ScalarUnicodeString, Text: string(b)}, nil
}

// EncodeUnicodeString writes a mandatory unicodeString field.
func EncodeUnicodeString(w io.Writer, v Value) error {
	return encodeLengthPrefixed(w, []byte(v.Text), false, false)
}

// EncodeUnicodeStringOptional writes an optional unicodeString field.
func EncodeUnicodeStringOptional(w io.Writer, v Value) error {
	return encodeLengthPrefixed(w, []byte(v.Text), v.Null, true)
}
