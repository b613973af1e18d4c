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

// scalarCodec bundles the mandatory/optional wire decode and encode
// functions for one scalar representation, so the operator engines in
// op_*.go can be written once and reused across types.
type scalarCodec struct {
	decode         func(io.Reader) (Value, error)
	decodeOptional func(io.Reader) (Value, error)
	encode         func(io.Writer, Value) error
	encodeOptional func(io.Writer, Value) error
}

var scalarCodecs = map[ScalarType]scalarCodec{
	ScalarUInt32: {DecodeUInt32, DecodeUInt32Optional, EncodeUInt32, EncodeUInt32Optional},
	ScalarInt32:  {DecodeInt32, DecodeInt32Optional, EncodeInt32, EncodeInt32Optional},
	ScalarUInt64: {DecodeUInt64, DecodeUInt64Optional, EncodeUInt64, EncodeUInt64Optional},
	ScalarInt64:  {DecodeInt64, DecodeInt64Optional, EncodeInt64, EncodeInt64Optional},
	ScalarASCIIString:   {DecodeASCIIString, DecodeASCIIStringOptional, EncodeASCIIString, EncodeASCIIStringOptional},
	ScalarUnicodeString: {DecodeUnicodeString, DecodeUnicodeStringOptional, EncodeUnicodeString, EncodeUnicodeStringOptional},
	ScalarByteVector:    {DecodeByteVector, DecodeByteVectorOptional, EncodeByteVector, EncodeByteVectorOptional},
}

// exponentCodec is the decimal exponent's codec: a signed integer in the
// range -63..63 (one stop-bit byte, two for the optional form of 63),
// reusing Value.Int32 as its slot.
var exponentCodec = scalarCodec{decodeExponent, decodeExponentOptional, encodeExponent, encodeExponentOptional}

// mantissaCodec is the decimal mantissa's codec: an ordinary int64.
var mantissaCodec = scalarCodec{DecodeInt64, DecodeInt64Optional, EncodeInt64, EncodeInt64Optional}

// decimalCodec treats an atomically-operated decimal (one operator on the
// whole exponent+mantissa pair, the common declaration form) as a single
// wire unit, so op_none/op_constant/op_default/op_copy need no decimal
// special-casing. Split declarations (independent <exponent>/<mantissa>
// sub-elements, each with their own operator) are instead run component by
// component as ordinary int32 exponent / int64 mantissa scalars through
// scalarCodecs (see decimalExponentInstr), so exponentCodec and
// mantissaCodec are not used on that path and a split exponent is not
// range-checked; see decodeDeltaDecimal for the one operator
// that always treats the two components independently regardless of
// declaration form.
var decimalCodec = scalarCodec{DecodeDecimal, DecodeDecimalOptional, EncodeDecimal, EncodeDecimalOptional}

func decodeExponent(r io.Reader) (Value, error) {
	exp, _, err := readSigned(r, 1)
	if err != nil {
		return Value{}, err
	}
	if exp > maxDecimalExponent || exp < minDecimalExponent {
		return Value{}, Overflow(1)
	}
	return Value{Type: ScalarInt32, Int32: int32(exp)}, nil
}

func decodeExponentOptional(r io.Reader) (Value, error) {
	exp, isNull, _, err := decodeNullableSigned(r, 2)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarInt32, Null: true}, nil
	}
	if exp > maxDecimalExponent || exp < minDecimalExponent {
		return Value{}, Overflow(1)
	}
	return Value{Type: ScalarInt32, Int32: int32(exp)}, nil
}

func encodeExponent(w io.Writer, v Value) error {
	_, err := writeSigned(w, int64(v.Int32))
	return err
}

func encodeExponentOptional(w io.Writer, v Value) error {
	_, err := encodeNullableSigned(w, int64(v.Int32), v.Null)
	return err
}
