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

// decodeIncrement implements the increment operator: bit=1 behaves like
// copy; bit=0 adds one to a prior Assigned value, or falls back to
// initial/error/null exactly like copy's bit=0 branch (without adding
// one) when there is no prior Assigned value. Spec §4.E.
func decodeIncrement(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, pmap *PMAP, r io.Reader) (Value, error) {
	if pmap.Next() {
		var v Value
		var err error
		if instr.Optional {
			v, err = codec.decodeOptional(r)
		} else {
			v, err = codec.decode(r)
		}
		if err != nil {
			return Value{}, err
		}
		if v.Null {
			dict.SetEmpty(key)
		} else {
			dict.Assign(key, v)
		}
		return v, nil
	}
	prior, state := dict.Lookup(key)
	if state == StateAssigned {
		next := incrementValue(prior)
		dict.Assign(key, next)
		return next, nil
	}
	return resolvePriorOrInitial(instr, dict, key)
}

func encodeIncrement(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, pmapB *PMAPBuilder, w io.Writer, v Value) error {
	prior, state := dict.Lookup(key)
	if state == StateAssigned && !v.Null && valuesEqual(incrementValue(prior), v) {
		pmapB.Set(false)
		dict.Assign(key, v)
		return nil
	}
	if matchesPrior(instr, state, prior, v) {
		pmapB.Set(false)
		return nil
	}
	pmapB.Set(true)
	if v.Null {
		dict.SetEmpty(key)
	} else {
		dict.Assign(key, v)
	}
	if instr.Optional {
		return codec.encodeOptional(w, v)
	}
	return codec.encode(w, v)
}

// incrementValue adds one to an integer-scalar Value. Increment is only
// compile-time valid on integer types (spec §4.C).
func incrementValue(v Value) Value {
	switch v.Type {
	case ScalarUInt32:
		v.UInt32++
	case ScalarInt32:
		v.Int32++
	case ScalarUInt64:
		v.UInt64++
	case ScalarInt64:
		v.Int64++
	}
	return v
}
