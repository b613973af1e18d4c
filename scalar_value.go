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

import "fmt"

// ScalarType enumerates the field types a Template instruction can declare,
// per spec §4.A and §4.C's operator compatibility matrix.
type ScalarType int

const (
	ScalarUInt32 ScalarType = iota
	ScalarInt32
	ScalarUInt64
	ScalarInt64
	ScalarDecimal
	ScalarASCIIString
	ScalarUnicodeString
	ScalarByteVector
)

func (t ScalarType) String() string {
	switch t {
	case ScalarUInt32:
		return "uInt32"
	case ScalarInt32:
		return "int32"
	case ScalarUInt64:
		return "uInt64"
	case ScalarInt64:
		return "int64"
	case ScalarDecimal:
		return "decimal"
	case ScalarASCIIString:
		return "string"
	case ScalarUnicodeString:
		return "unicode"
	case ScalarByteVector:
		return "byteVector"
	default:
		return fmt.Sprintf("ScalarType(%d)", int(t))
	}
}

// Value is the tagged union passed to MessageFactory.SetValue and read back
// from MessageSource: exactly one field besides Type and Null is meaningful,
// selected by Type. A Decimal value uses both Exponent and Mantissa.
type Value struct {
	Type ScalarType
	Null bool

	UInt32 uint32
	Int32  int32
	UInt64 uint64
	Int64  int64

	Exponent int8
	Mantissa int64

	Text  string
	Bytes []byte
}

// valuesEqual compares two Values of the same ScalarType for equality of
// their meaningful fields, used to decide whether an encoded value matches
// a constant/default/initial without transmitting it.
func valuesEqual(a, b Value) bool {
	if a.Null != b.Null || a.Type != b.Type {
		return false
	}
	if a.Null {
		return true
	}
	switch a.Type {
	case ScalarUInt32:
		return a.UInt32 == b.UInt32
	case ScalarInt32:
		return a.Int32 == b.Int32
	case ScalarUInt64:
		return a.UInt64 == b.UInt64
	case ScalarInt64:
		return a.Int64 == b.Int64
	case ScalarDecimal:
		return a.Exponent == b.Exponent && a.Mantissa == b.Mantissa
	case ScalarASCIIString, ScalarUnicodeString:
		return a.Text == b.Text
	case ScalarByteVector:
		return string(a.Bytes) == string(b.Bytes)
	default:
		return false
	}
}

// nullValue returns the null Value for an optional field of type t.
func nullValue(t ScalarType) Value {
	return Value{Type: t, Null: true}
}

func (v Value) String() string {
	if v.Null {
		return "<null>"
	}
	switch v.Type {
	case ScalarUInt32:
		return fmt.Sprintf("%d", v.UInt32)
	case ScalarInt32:
		return fmt.Sprintf("%d", v.Int32)
	case ScalarUInt64:
		return fmt.Sprintf("%d", v.UInt64)
	case ScalarInt64:
		return fmt.Sprintf("%d", v.Int64)
	case ScalarDecimal:
		return fmt.Sprintf("%de%d", v.Mantissa, v.Exponent)
	case ScalarASCIIString, ScalarUnicodeString:
		return v.Text
	case ScalarByteVector:
		return fmt.Sprintf("% x", v.Bytes)
	default:
		return "<invalid>"
	}
}
