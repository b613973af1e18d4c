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

// delta never reserves a PMAP bit: a value (or, for optional fields, a null
// marker) is always transmitted, read as a delta relative to a dictionary
// base. Spec §4.E. The delta itself is always a signed stop-bit group, even
// for unsigned-typed fields, since the difference between two unsigned
// values can be negative.

// decodeDeltaNumeric implements delta for uInt32/int32/uInt64/int64 fields.
func decodeDeltaNumeric(instr *Instruction, dict *Dictionary, key DictionaryKey, r io.Reader) (Value, error) {
	maxBytes := maxStopBitBytes32
	if instr.ScalarType == ScalarUInt64 || instr.ScalarType == ScalarInt64 {
		maxBytes = maxStopBitBytes10
	}
	var delta int64
	var isNull bool
	var err error
	if instr.Optional {
		delta, isNull, _, err = decodeNullableSigned(r, maxBytes)
	} else {
		delta, _, err = readSigned(r, maxBytes)
	}
	if err != nil {
		return Value{}, err
	}
	if isNull {
		dict.SetEmpty(key)
		return nullValue(instr.ScalarType), nil
	}
	base, err := deltaBase(instr, dict, key)
	if err != nil {
		return Value{}, err
	}
	result := addDeltaToValue(base, delta)
	dict.Assign(key, result)
	return result, nil
}

func encodeDeltaNumeric(instr *Instruction, dict *Dictionary, key DictionaryKey, w io.Writer, v Value) error {
	if instr.Optional && v.Null {
		dict.SetEmpty(key)
		_, err := encodeNullableSigned(w, 0, true)
		return err
	}
	base, err := deltaBase(instr, dict, key)
	if err != nil {
		return err
	}
	delta := valueAsInt64(v) - valueAsInt64(base)
	dict.Assign(key, v)
	if instr.Optional {
		_, err := encodeNullableSigned(w, delta, false)
		return err
	}
	_, err = writeSigned(w, delta)
	return err
}

// deltaBase resolves the prior value a delta is applied against: the
// dictionary's Assigned entry, or the declared initial, or zero; an Empty
// entry fails mandatory fields and nulls optional ones, mirroring copy.
func deltaBase(instr *Instruction, dict *Dictionary, key DictionaryKey) (Value, error) {
	prior, state := dict.Lookup(key)
	switch state {
	case StateAssigned:
		return prior, nil
	case StateUndefined:
		if instr.Initial != nil {
			return *instr.Initial, nil
		}
		return zeroValue(instr.ScalarType), nil
	default: // StateEmpty
		if instr.Optional {
			return nullValue(instr.ScalarType), nil
		}
		return Value{}, MissingPreviousValue(key.Name, instr.Name)
	}
}

func zeroValue(t ScalarType) Value {
	return Value{Type: t}
}

func valueAsInt64(v Value) int64 {
	switch v.Type {
	case ScalarUInt32:
		return int64(v.UInt32)
	case ScalarInt32:
		return int64(v.Int32)
	case ScalarUInt64:
		return int64(v.UInt64)
	case ScalarInt64:
		return v.Int64
	default:
		return 0
	}
}

func addDeltaToValue(base Value, delta int64) Value {
	switch base.Type {
	case ScalarUInt32:
		base.UInt32 = uint32(int64(base.UInt32) + delta)
	case ScalarInt32:
		base.Int32 = int32(int64(base.Int32) + delta)
	case ScalarUInt64:
		base.UInt64 = uint64(int64(base.UInt64) + delta)
	case ScalarInt64:
		base.Int64 += delta
	}
	return base
}

// decodeDeltaDecimal applies independent exponent-delta and mantissa-delta
// reads to an atomically-declared decimal field, per spec §4.E: the two
// components are always delta-coded independently even though a single
// operator and a single dictionary entry cover the pair.
func decodeDeltaDecimal(instr *Instruction, dict *Dictionary, key DictionaryKey, r io.Reader) (Value, error) {
	expDelta, expNull, _, err := decodeNullableSigned(r, 2)
	if err != nil {
		return Value{}, err
	}
	if instr.Optional && expNull {
		dict.SetEmpty(key)
		return nullValue(ScalarDecimal), nil
	}
	mantissaDelta, _, err := readSigned(r, maxStopBitBytes10)
	if err != nil {
		return Value{}, err
	}
	base, err := deltaBase(instr, dict, key)
	if err != nil {
		return Value{}, err
	}
	result := Value{
		Type:     ScalarDecimal,
		Exponent: int8(int64(base.Exponent) + expDelta),
		Mantissa: base.Mantissa + mantissaDelta,
	}
	if result.Exponent > maxDecimalExponent || result.Exponent < minDecimalExponent {
		return Value{}, Overflow(1)
	}
	dict.Assign(key, result)
	return result, nil
}

func encodeDeltaDecimal(instr *Instruction, dict *Dictionary, key DictionaryKey, w io.Writer, v Value) error {
	if instr.Optional && v.Null {
		dict.SetEmpty(key)
		_, err := encodeNullableSigned(w, 0, true)
		return err
	}
	base, err := deltaBase(instr, dict, key)
	if err != nil {
		return err
	}
	expDelta := int64(v.Exponent) - int64(base.Exponent)
	mantissaDelta := v.Mantissa - base.Mantissa
	dict.Assign(key, v)
	if _, err := encodeNullableSigned(w, expDelta, false); err != nil {
		return err
	}
	_, err = writeSigned(w, mantissaDelta)
	return err
}

// decodeDeltaBytes implements delta for string/byteVector fields: a signed
// subtraction-length followed by a suffix, applied to a base drawn from the
// tail (n >= 0) or head (n < 0) of the prior value.
func decodeDeltaBytes(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, r io.Reader) (Value, error) {
	var n int64
	var isNull bool
	var err error
	if instr.Optional {
		n, isNull, _, err = decodeNullableSigned(r, maxStopBitBytes32)
	} else {
		n, _, err = readSigned(r, maxStopBitBytes32)
	}
	if err != nil {
		return Value{}, err
	}
	if isNull {
		dict.SetEmpty(key)
		return nullValue(instr.ScalarType), nil
	}
	var suffix Value
	if instr.Optional {
		suffix, err = codec.decodeOptional(r)
	} else {
		suffix, err = codec.decode(r)
	}
	if err != nil {
		return Value{}, err
	}
	base, err := deltaBaseBytes(instr, dict, key)
	if err != nil {
		return Value{}, err
	}
	result := spliceDelta(instr.ScalarType, base, n, suffix)
	dict.Assign(key, result)
	return result, nil
}

func encodeDeltaBytes(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, w io.Writer, v Value) error {
	if instr.Optional && v.Null {
		dict.SetEmpty(key)
		_, err := encodeNullableSigned(w, 0, true)
		return err
	}
	base, err := deltaBaseBytes(instr, dict, key)
	if err != nil {
		return err
	}
	n, suffix := computeSubtraction(instr.ScalarType, base, v)
	dict.Assign(key, v)
	if instr.Optional {
		if _, err := encodeNullableSigned(w, n, false); err != nil {
			return err
		}
	} else if _, err := writeSigned(w, n); err != nil {
		return err
	}
	if instr.Optional {
		return codec.encodeOptional(w, suffix)
	}
	return codec.encode(w, suffix)
}

// deltaBaseBytes mirrors deltaBase for string/byteVector fields: Undefined
// falls back to initial, else to an empty base rather than zero. An Empty
// prior fails with MissingPreviousValue for mandatory and optional fields
// alike, refusing to splice against an already-null value.
func deltaBaseBytes(instr *Instruction, dict *Dictionary, key DictionaryKey) (Value, error) {
	prior, state := dict.Lookup(key)
	switch state {
	case StateAssigned:
		return prior, nil
	case StateUndefined:
		if instr.Initial != nil {
			return *instr.Initial, nil
		}
		return emptyBytesValue(instr.ScalarType), nil
	default: // StateEmpty
		return Value{}, MissingPreviousValue(key.Name, instr.Name)
	}
}

func emptyBytesValue(t ScalarType) Value {
	if t == ScalarByteVector {
		return Value{Type: t, Bytes: []byte{}}
	}
	return Value{Type: t, Text: ""}
}

// spliceDelta reconstructs a value from a subtraction-length and suffix, per
// spec §4.E: n >= 0 strips n units from the base's tail before appending the
// suffix; n < 0 strips -n-1 units from the base's head before prepending it.
func spliceDelta(t ScalarType, base Value, n int64, suffix Value) Value {
	if t == ScalarByteVector {
		b := base.Bytes
		s := suffix.Bytes
		var out []byte
		if n >= 0 {
			keep := len(b) - int(n)
			if keep < 0 {
				keep = 0
			}
			out = append(append([]byte{}, b[:keep]...), s...)
		} else {
			drop := int(-n - 1)
			if drop > len(b) {
				drop = len(b)
			}
			out = append(append([]byte{}, s...), b[drop:]...)
		}
		return Value{Type: t, Bytes: out}
	}
	b := base.Text
	s := suffix.Text
	var out string
	if n >= 0 {
		keep := len(b) - int(n)
		if keep < 0 {
			keep = 0
		}
		out = b[:keep] + s
	} else {
		drop := int(-n - 1)
		if drop > len(b) {
			drop = len(b)
		}
		out = s + b[drop:]
	}
	return Value{Type: t, Text: out}
}

// computeSubtraction derives a (subtraction-length, suffix) pair that
// reconstructs v from base via spliceDelta. It uses a tail subtraction
// (n >= 0) keeping the longest common prefix whenever base and v share at
// least one leading unit or base is empty, and a head subtraction (n < 0)
// keeping the longest common suffix otherwise; it does not compare the two
// to pick the shorter suffix.
func computeSubtraction(t ScalarType, base, v Value) (int64, Value) {
	if t == ScalarByteVector {
		b, nv := base.Bytes, v.Bytes
		if shared := commonPrefixLen(b, nv); shared > 0 || len(b) == 0 {
			n := int64(len(b) - shared)
			return n, Value{Type: t, Bytes: append([]byte{}, nv[shared:]...)}
		}
		shared := commonSuffixLen(b, nv)
		n := int64(-(len(b)-shared) - 1)
		return n, Value{Type: t, Bytes: append([]byte{}, nv[:len(nv)-shared]...)}
	}
	b, nv := []byte(base.Text), []byte(v.Text)
	if shared := commonPrefixLen(b, nv); shared > 0 || len(b) == 0 {
		n := int64(len(b) - shared)
		return n, Value{Type: t, Text: string(nv[shared:])}
	}
	shared := commonSuffixLen(b, nv)
	n := int64(-(len(b)-shared) - 1)
	return n, Value{Type: t, Text: string(nv[:len(nv)-shared])}
}

func commonPrefixLen(a, b []byte) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffixLen(a, b []byte) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
