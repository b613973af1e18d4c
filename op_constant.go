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

// decodeConstant implements the constant operator: mandatory fields carry
// no PMAP bit and no bytes, always emitting initial; optional fields
// reserve one PMAP bit that selects between initial and null. No
// dictionary interaction. Spec §4.E.
func decodeConstant(instr *Instruction, pmap *PMAP, initial Value) (Value, error) {
	if !instr.Optional {
		return initial, nil
	}
	if pmap.Next() {
		return initial, nil
	}
	return nullValue(instr.ScalarType), nil
}

func encodeConstant(instr *Instruction, pmapB *PMAPBuilder, v Value) {
	if !instr.Optional {
		return
	}
	pmapB.Set(!v.Null)
}
