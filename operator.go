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

// Operator selects how a scalar field's wire representation is derived
// from a dictionary-remembered prior value, per spec §4.C.
type Operator int

const (
	OpNone Operator = iota
	OpConstant
	OpDefault
	OpCopy
	OpIncrement
	OpDelta
	OpTail
)

func (o Operator) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpConstant:
		return "constant"
	case OpDefault:
		return "default"
	case OpCopy:
		return "copy"
	case OpIncrement:
		return "increment"
	case OpDelta:
		return "delta"
	case OpTail:
		return "tail"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// UsesPMAPBit reports whether the operator needs a presence-map bit
// allocated for it at all, for a field of the given nullability.
//
// none:    never (the value is always on the wire; optional fields
//
//	carry absence through the scalar-level null convention, with
//	no pmap bit).
//
// constant: only when the field is optional (the bit says whether the
//
//	constant applies or the value is null).
//
// default, copy, increment, tail: always, whether mandatory or optional.
// delta:   never (delta always writes/reads a value relative to the
//
//	dictionary, with its own nullable encoding carrying absence).
func (o Operator) UsesPMAPBit(optional bool) bool {
	switch o {
	case OpNone, OpDelta:
		return false
	case OpConstant:
		return optional
	default:
		return true
	}
}

// operatorCompatibility is the matrix from spec §4.C: which operators a
// scalar type may declare. Decimal delta is handled at the instruction
// level rather than here: decodeDeltaDecimal delta-codes the exponent and
// the mantissa independently.
var operatorCompatibility = map[ScalarType]map[Operator]bool{
	ScalarUInt32: {OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpIncrement: true, OpDelta: true},
	ScalarInt32:  {OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpIncrement: true, OpDelta: true},
	ScalarUInt64: {OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpIncrement: true, OpDelta: true},
	ScalarInt64:  {OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpIncrement: true, OpDelta: true},
	ScalarDecimal: {
		OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpDelta: true,
	},
	ScalarASCIIString:   {OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpDelta: true, OpTail: true},
	ScalarUnicodeString: {OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpDelta: true, OpTail: true},
	ScalarByteVector:    {OpNone: true, OpConstant: true, OpDefault: true, OpCopy: true, OpDelta: true, OpTail: true},
}

// CheckOperatorCompatibility validates op against typ, returning
// IncompatibleOperator if the pairing is not in the matrix.
func CheckOperatorCompatibility(op Operator, typ ScalarType) error {
	if ops, ok := operatorCompatibility[typ]; ok && ops[op] {
		return nil
	}
	return IncompatibleOperator(op.String(), typ.String())
}
