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

// decodeTail implements the tail operator (string/byteVector only): a PMAP
// bit is always reserved; bit=1 reads a suffix that replaces the tail of the
// base value; bit=0 reproduces the base unchanged. Spec §4.E. A field
// declared optional whose prior dictionary entry is Empty resolves to null
// rather than erroring, per the declared resolution for that case.
func decodeTail(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, pmap *PMAP, r io.Reader) (Value, error) {
	base, baseState, err := tailBase(instr, dict, key)
	if err != nil {
		return Value{}, err
	}
	if !pmap.Next() {
		return base, nil
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
	if suffix.Null {
		dict.SetEmpty(key)
		return nullValue(instr.ScalarType), nil
	}
	if baseState == StateEmpty {
		// no base to splice onto: the suffix stands alone as the full value
		dict.Assign(key, suffix)
		return suffix, nil
	}
	result := appendTail(instr.ScalarType, base, suffix)
	dict.Assign(key, result)
	return result, nil
}

func encodeTail(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, pmapB *PMAPBuilder, w io.Writer, v Value) error {
	base, baseState, err := tailBase(instr, dict, key)
	if err != nil {
		return err
	}
	omit := valuesEqual(base, v)
	if baseState == StateEmpty {
		omit = instr.Optional && v.Null
	}
	if omit {
		pmapB.Set(false)
		return nil
	}
	pmapB.Set(true)
	if v.Null {
		dict.SetEmpty(key)
		if instr.Optional {
			return codec.encodeOptional(w, v)
		}
		return codec.encode(w, v)
	}
	suffix := v
	if baseState != StateEmpty {
		var err error
		suffix, err = tailSuffix(instr.ScalarType, base, v)
		if err != nil {
			return err
		}
	}
	dict.Assign(key, v)
	if instr.Optional {
		return codec.encodeOptional(w, suffix)
	}
	return codec.encode(w, suffix)
}

// tailBase resolves the value tail splices onto: prior Assigned, or initial,
// or empty when Undefined. An optional field whose prior is Empty resolves
// to null; a mandatory field whose prior is Empty has no valid base.
func tailBase(instr *Instruction, dict *Dictionary, key DictionaryKey) (Value, EntryState, error) {
	prior, state := dict.Lookup(key)
	switch state {
	case StateAssigned:
		return prior, state, nil
	case StateUndefined:
		if instr.Initial != nil {
			return *instr.Initial, state, nil
		}
		return emptyBytesValue(instr.ScalarType), state, nil
	default: // StateEmpty
		if instr.Optional {
			return nullValue(instr.ScalarType), state, nil
		}
		return Value{}, state, MissingPreviousValue(key.Name, instr.Name)
	}
}

// appendTail implements the wire rule verbatim: the retained head length is
// len(base)-len(suffix), clamped to zero once suffix is at least as long as
// base (in which case suffix fully replaces base). Because the retained
// length depends only on base and suffix lengths, a tail-coded value keeps
// base's length exactly when suffix is shorter than base: this operator is
// suited to same-length or growing values sharing a prefix with base, not to
// shrinking them.
func appendTail(t ScalarType, base, suffix Value) Value {
	if t == ScalarByteVector {
		b, s := base.Bytes, suffix.Bytes
		keep := len(b) - len(s)
		if keep < 0 {
			keep = 0
		}
		return Value{Type: t, Bytes: append(append([]byte{}, b[:keep]...), s...)}
	}
	b, s := base.Text, suffix.Text
	keep := len(b) - len(s)
	if keep < 0 {
		keep = 0
	}
	return Value{Type: t, Text: b[:keep] + s}
}

// tailSuffix computes the suffix to transmit so appendTail reconstructs v.
// When v and base share a length, the longest common prefix is retained and
// only the differing remainder is sent. When v is longer, suffix is v in
// full, which appendTail reproduces exactly. When v is shorter than base,
// appendTail's keep=len(base)-len(suffix) rule can't distinguish "shrunk
// value" from "grown value sharing a shorter suffix": there is no suffix
// that round-trips, so this is reported as a DynamicError instead of
// silently emitting one that decodes back to the wrong value.
func tailSuffix(t ScalarType, base, v Value) (Value, error) {
	if t == ScalarByteVector {
		if len(v.Bytes) < len(base.Bytes) {
			return Value{}, DynamicError("tail cannot encode a value shorter than its dictionary base")
		}
		if len(v.Bytes) == len(base.Bytes) {
			shared := commonPrefixLen(base.Bytes, v.Bytes)
			return Value{Type: t, Bytes: append([]byte{}, v.Bytes[shared:]...)}, nil
		}
		return v, nil
	}
	if len(v.Text) < len(base.Text) {
		return Value{}, DynamicError("tail cannot encode a value shorter than its dictionary base")
	}
	if len(v.Text) == len(base.Text) {
		shared := commonPrefixLen([]byte(base.Text), []byte(v.Text))
		return Value{Type: t, Text: v.Text[shared:]}, nil
	}
	return v, nil
}
