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

// decodeNone implements the none operator: no PMAP bit, the value (or its
// null marker, for an optional field) is always on the wire. Spec §4.E.
func decodeNone(instr *Instruction, codec scalarCodec, r io.Reader) (Value, error) {
	if instr.Optional {
		return codec.decodeOptional(r)
	}
	return codec.decode(r)
}

func encodeNone(instr *Instruction, codec scalarCodec, w io.Writer, v Value) error {
	if instr.Optional {
		return codec.encodeOptional(w, v)
	}
	return codec.encode(w, v)
}
