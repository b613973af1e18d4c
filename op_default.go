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

// decodeDefault implements the default operator: the PMAP bit says
// whether a value is transmitted; if not, the field takes its declared
// initial (or null, for an optional field with none). No dictionary
// interaction. Spec §4.E.
func decodeDefault(instr *Instruction, codec scalarCodec, pmap *PMAP, r io.Reader, initial *Value) (Value, error) {
	if pmap.Next() {
		if instr.Optional {
			return codec.decodeOptional(r)
		}
		return codec.decode(r)
	}
	if initial != nil {
		return *initial, nil
	}
	if instr.Optional {
		return nullValue(instr.ScalarType), nil
	}
	return Value{}, MissingInitial(instr.Name)
}

func encodeDefault(instr *Instruction, codec scalarCodec, pmapB *PMAPBuilder, w io.Writer, v Value, initial *Value) error {
	if initial != nil && valuesEqual(v, *initial) {
		pmapB.Set(false)
		return nil
	}
	if initial == nil && instr.Optional && v.Null {
		pmapB.Set(false)
		return nil
	}
	pmapB.Set(true)
	if instr.Optional {
		return codec.encodeOptional(w, v)
	}
	return codec.encode(w, v)
}
