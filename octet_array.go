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

// byteVector and unicodeString share a u32-length-prefix wire shape. For
// optional presence the length is incremented by one on the wire, with 0
// denoting null; see spec §4.A.
func decodeLengthPrefixed(r io.Reader, optional bool) ([]byte, bool, error) {
	var length uint64
	var isNull bool
	var err error
	if optional {
		length, isNull, _, err = decodeNullableUnsigned(r, maxStopBitBytes32)
	} else {
		length, _, err = readUnsigned(r, maxStopBitBytes32)
	}
	if err != nil {
		return nil, false, err
	}
	if isNull {
		return nil, true, nil
	}
	buf := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, false, Eof("length-prefixed content")
		}
	}
	return buf, false, nil
}

func encodeLengthPrefixed(w io.Writer, content []byte, isNull, optional bool) error {
	if optional {
		if _, err := encodeNullableUnsigned(w, uint64(len(content)), isNull); err != nil {
			return err
		}
	} else {
		if _, err := writeUnsigned(w, uint64(len(content))); err != nil {
			return err
		}
	}
	if isNull || len(content) == 0 {
		return nil
	}
	_, err := w.Write(content)
	return err
}

// DecodeByteVector reads a mandatory byteVector field.
func DecodeByteVector(r io.Reader) (Value, error) {
	b, _, err := decodeLengthPrefixed(r, false)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ScalarByteVector, Bytes: b}, nil
}

// DecodeByteVectorOptional reads an optional byteVector field.
func DecodeByteVectorOptional(r io.Reader) (Value, error) {
	b, isNull, err := decodeLengthPrefixed(r, true)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarByteVector, Null: true}, nil
	}
	return Value{Type: ScalarByteVector, Bytes: b}, nil
}

// EncodeByteVector writes a mandatory byteVector field.
func EncodeByteVector(w io.Writer, v Value) error {
	return encodeLengthPrefixed(w, v.Bytes, false, false)
}

// EncodeByteVectorOptional writes an optional byteVector field.
func EncodeByteVectorOptional(w io.Writer, v Value) error {
	return encodeLengthPrefixed(w, v.Bytes, v.Null, true)
}
