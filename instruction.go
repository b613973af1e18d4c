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

// InstructionKind discriminates the Instruction variants of spec §4.C: a
// scalar field, a nested group, a sequence of repeated groups, or a
// reference to another template (static, resolved at compile time, or
// dynamic, resolved from the wire at decode time).
type InstructionKind int

const (
	InstructionScalar InstructionKind = iota
	InstructionGroup
	InstructionSequence
	InstructionTemplateRef
)

func (k InstructionKind) String() string {
	switch k {
	case InstructionScalar:
		return "scalar"
	case InstructionGroup:
		return "group"
	case InstructionSequence:
		return "sequence"
	case InstructionTemplateRef:
		return "templateRef"
	default:
		return fmt.Sprintf("InstructionKind(%d)", int(k))
	}
}

// Instruction is one node of a compiled Template's field tree.
type Instruction struct {
	Kind     InstructionKind
	Id       uint32
	Name     string
	Optional bool

	// Scalar
	ScalarType ScalarType
	Op         Operator
	Initial    *Value

	// Decimal composite: exponent and mantissa carry independent operators,
	// per spec §4.C.
	ExponentOp      Operator
	MantissaOp      Operator
	ExponentInitial *Value
	MantissaInitial *Value

	// Group / Sequence children
	Children []*Instruction

	// NeedsPMAP reports, for a Group or Sequence instruction, whether the
	// scope it introduces carries its own presence map at all: a group or
	// sequence item's PMAP is allocated only when one of its direct
	// children would reserve a bit in it, per spec §4.C ("if mandated by
	// the group declaration" / "if required"). Computed once at compile
	// time by finalizePMAPNeeds; unused on other instruction kinds.
	NeedsPMAP bool

	// Sequence: Length is a synthetic uInt32 scalar instruction counting
	// items.
	Length *Instruction

	// DictScope/DictKey override the default template-scoped dictionary
	// key, per a field's dictionary="global|template|type|<name>"
	// attribute. DictKey is the type name (ScopeType) or user dictionary
	// name (ScopeUser); it is unused for ScopeGlobal/ScopeTemplate.
	DictScope DictionaryScope
	DictKey   string

	// TemplateRef: Static is false for a dynamic reference (resolved from
	// the wire); RefName/RefTemplate are populated only when Static.
	Static      bool
	RefName     string
	RefTemplate *Template
}

// fieldKey resolves the dictionary key this instruction's operator reads
// and writes prior values under, given the enclosing template's name.
func (i *Instruction) fieldKey(templateName string) DictionaryKey {
	switch i.DictScope {
	case ScopeGlobal:
		return DictionaryKey{Scope: ScopeGlobal, Field: i.Name}
	case ScopeType:
		return DictionaryKey{Scope: ScopeType, Name: i.DictKey, Field: i.Name}
	case ScopeUser:
		return DictionaryKey{Scope: ScopeUser, Name: i.DictKey, Field: i.Name}
	default:
		return DictionaryKey{Scope: ScopeTemplate, Name: templateName, Field: i.Name}
	}
}

// finalizePMAPNeeds sets NeedsPMAP on every Group/Sequence instruction in
// set, once static template references have been resolved. Called by
// Compile and CompileYAML as the last compilation step.
func finalizePMAPNeeds(set *TemplateSet) {
	for _, t := range set.byId {
		computeNeedsPMAP(t.Instructions)
	}
}

func computeNeedsPMAP(instructions []*Instruction) {
	for _, instr := range instructions {
		switch instr.Kind {
		case InstructionGroup, InstructionSequence:
			instr.NeedsPMAP = instructionsNeedPMAP(instr.Children)
			computeNeedsPMAP(instr.Children)
		}
	}
}

// instructionsNeedPMAP reports whether any instruction in the list would
// reserve a presence bit in the scope that encloses it: an ordinary field
// whose operator uses a bit, an optional nested group (the bit says whether
// the group is present), a sequence's length field, or (since a static
// templateRef inlines its target's fields into the same scope) anything
// the referenced template's own fields would need.
func instructionsNeedPMAP(instructions []*Instruction) bool {
	for _, instr := range instructions {
		switch instr.Kind {
		case InstructionScalar:
			if instr.ScalarType == ScalarDecimal && decimalSplit(instr) {
				if instr.ExponentOp.UsesPMAPBit(instr.Optional) || instr.MantissaOp.UsesPMAPBit(false) {
					return true
				}
				continue
			}
			if instr.Op.UsesPMAPBit(instr.Optional) {
				return true
			}
		case InstructionGroup:
			if instr.Optional {
				return true
			}
		case InstructionSequence:
			if instr.Length.Op.UsesPMAPBit(instr.Length.Optional) {
				return true
			}
		case InstructionTemplateRef:
			if instr.Static && instr.RefTemplate != nil && instructionsNeedPMAP(instr.RefTemplate.Instructions) {
				return true
			}
		}
	}
	return false
}
