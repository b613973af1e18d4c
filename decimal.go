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

// maxDecimalExponent/minDecimalExponent bound the decimal exponent to
// -63..63. A mandatory exponent fits a single stop-bit group; the optional
// form's add-one null convention needs a second group for 63.
const (
	maxDecimalExponent = 63
	minDecimalExponent = -63
)

// DecodeDecimal reads a mandatory decimal as a signed exponent followed by
// a signed mantissa, per spec §4.A. Only the exponent may carry the
// optional-presence bit at the PMAP/operator level; the mantissa is always
// mandatory once the exponent establishes the field is present.
func DecodeDecimal(r io.Reader) (Value, error) {
	exp, _, err := readSigned(r, 1)
	if err != nil {
		return Value{}, err
	}
	if exp > maxDecimalExponent || exp < minDecimalExponent {
		return Value{}, Overflow(1)
	}
	mantissa, _, err := readSigned(r, maxStopBitBytes10)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ScalarDecimal, Exponent: int8(exp), Mantissa: mantissa}, nil
}

// DecodeDecimalOptional reads an optional decimal: the exponent carries the
// null convention, and a null exponent means the whole decimal is absent.
func DecodeDecimalOptional(r io.Reader) (Value, error) {
	exp, isNull, _, err := decodeNullableSigned(r, 2)
	if err != nil {
		return Value{}, err
	}
	if isNull {
		return Value{Type: ScalarDecimal, Null: true}, nil
	}
	if exp > maxDecimalExponent || exp < minDecimalExponent {
		return Value{}, Overflow(1)
	}
	mantissa, _, err := readSigned(r, maxStopBitBytes10)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ScalarDecimal, Exponent: int8(exp), Mantissa: mantissa}, nil
}

// EncodeDecimal writes a mandatory decimal.
func EncodeDecimal(w io.Writer, v Value) error {
	if _, err := writeSigned(w, int64(v.Exponent)); err != nil {
		return err
	}
	_, err := writeSigned(w, v.Mantissa)
	return err
}

// EncodeDecimalOptional writes an optional decimal.
func EncodeDecimalOptional(w io.Writer, v Value) error {
	if _, err := encodeNullableSigned(w, int64(v.Exponent), v.Null); err != nil {
		return err
	}
	if v.Null {
		return nil
	}
	_, err := writeSigned(w, v.Mantissa)
	return err
}
