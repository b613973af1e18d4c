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

// decodeCopy implements the copy operator: bit=1 reads a value (or null)
// from the wire and assigns the dictionary; bit=0 reproduces the prior
// dictionary value, falling back to initial, then to an error or null.
// Spec §4.E.
func decodeCopy(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, pmap *PMAP, r io.Reader) (Value, error) {
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
	return resolvePriorOrInitial(instr, dict, key)
}

func encodeCopy(instr *Instruction, codec scalarCodec, dict *Dictionary, key DictionaryKey, pmapB *PMAPBuilder, w io.Writer, v Value) error {
	prior, state := dict.Lookup(key)
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

// resolvePriorOrInitial implements the bit=0 branch shared by copy and the
// non-incrementing fallback of increment: prior Assigned wins; otherwise
// initial (adopted into the dictionary); otherwise mandatory fields fail
// with MissingPreviousValue and optional fields emit null.
func resolvePriorOrInitial(instr *Instruction, dict *Dictionary, key DictionaryKey) (Value, error) {
	prior, state := dict.Lookup(key)
	switch state {
	case StateAssigned:
		return prior, nil
	case StateUndefined:
		if instr.Initial != nil {
			dict.Assign(key, *instr.Initial)
			return *instr.Initial, nil
		}
		if instr.Optional {
			dict.SetEmpty(key)
			return nullValue(instr.ScalarType), nil
		}
		return Value{}, MissingPreviousValue(key.Name, instr.Name)
	default: // StateEmpty
		if instr.Optional {
			return nullValue(instr.ScalarType), nil
		}
		return Value{}, MissingPreviousValue(key.Name, instr.Name)
	}
}

// matchesPrior reports whether the bit=0 (no transmission) branch of copy
// would reproduce v given the dictionary's current state, so the encoder
// can omit the value exactly when the decoder would infer it.
func matchesPrior(instr *Instruction, state EntryState, prior, v Value) bool {
	switch state {
	case StateAssigned:
		return valuesEqual(prior, v)
	case StateUndefined:
		if instr.Initial != nil {
			return valuesEqual(*instr.Initial, v)
		}
		return instr.Optional && v.Null
	default: // StateEmpty
		return instr.Optional && v.Null
	}
}
