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

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// CompileYAML is a sibling to Compile for a YAML template-definition
// document: a terser format for tests and examples, avoiding XML
// boilerplate for small fixture templates. It produces the same compiled
// *TemplateSet a hand-written FAST template-definition XML document would,
// including static templateRef resolution.
func CompileYAML(r io.Reader) (*TemplateSet, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc yamlDocument
	if err := dec.Decode(&doc); err != nil {
		TemplateCompilesTotal.WithLabelValues("error").Inc()
		return nil, TemplateError(err.Error())
	}

	set := newTemplateSet()
	for _, yt := range doc.Templates {
		instructions, err := compileYAMLFields(yt.Fields)
		if err != nil {
			TemplateCompilesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		set.add(&Template{Id: yt.Id, Name: yt.Name, Instructions: instructions})
	}

	if err := resolveStaticRefs(set); err != nil {
		TemplateCompilesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	finalizePMAPNeeds(set)
	TemplateCompilesTotal.WithLabelValues("ok").Inc()
	return set, nil
}

type yamlDocument struct {
	Templates []yamlTemplate `yaml:"templates"`
}

type yamlTemplate struct {
	Id     uint32      `yaml:"id"`
	Name   string      `yaml:"name"`
	Fields []yamlField `yaml:"fields"`
}

// yamlField mirrors Instruction closely enough that compileYAMLField is a
// near-direct translation; unset string fields default the same way the
// XML compiler's missing attributes do (Kind -> scalar, Op -> none,
// dictionary -> template-scoped).
type yamlField struct {
	Kind     string `yaml:"kind,omitempty"`
	Id       uint32 `yaml:"id,omitempty"`
	Name     string `yaml:"name"`
	Optional bool   `yaml:"optional,omitempty"`

	Type    string `yaml:"type,omitempty"`
	Op      string `yaml:"op,omitempty"`
	Initial *Value `yaml:"initial,omitempty"`

	ExponentOp      string `yaml:"exponentOp,omitempty"`
	ExponentInitial *Value `yaml:"exponentInitial,omitempty"`
	MantissaOp      string `yaml:"mantissaOp,omitempty"`
	MantissaInitial *Value `yaml:"mantissaInitial,omitempty"`

	Dictionary string `yaml:"dictionary,omitempty"`

	Fields []yamlField `yaml:"fields,omitempty"`
	Length *yamlField  `yaml:"length,omitempty"`

	// templateRef: Ref names a static reference; a dynamic reference
	// leaves it empty.
	Ref string `yaml:"ref,omitempty"`
}

var operatorNames = map[string]Operator{
	"none":      OpNone,
	"constant":  OpConstant,
	"default":   OpDefault,
	"copy":      OpCopy,
	"increment": OpIncrement,
	"delta":     OpDelta,
	"tail":      OpTail,
}

func yamlOperator(name string) Operator {
	if name == "" {
		return OpNone
	}
	return operatorNames[name]
}

// yamlDictionary parses a "scope" or "scope:key" dictionary designator,
// e.g. "global", "type:flowKey", "user:session", defaulting to
// ScopeTemplate for an empty/"template" designator, matching xml.go's
// dictionaryAttrs.
func yamlDictionary(designator string) (DictionaryScope, string) {
	if designator == "" || designator == "template" {
		return ScopeTemplate, ""
	}
	if designator == "global" {
		return ScopeGlobal, ""
	}
	scope, key, _ := strings.Cut(designator, ":")
	if scope == "type" {
		return ScopeType, key
	}
	return ScopeUser, key
}

func compileYAMLFields(fields []yamlField) ([]*Instruction, error) {
	out := make([]*Instruction, 0, len(fields))
	for _, f := range fields {
		instr, err := compileYAMLField(f)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

func compileYAMLField(f yamlField) (*Instruction, error) {
	switch f.Kind {
	case "group":
		children, err := compileYAMLFields(f.Fields)
		if err != nil {
			return nil, err
		}
		return &Instruction{Kind: InstructionGroup, Id: f.Id, Name: f.Name, Optional: f.Optional, Children: children}, nil

	case "sequence":
		children, err := compileYAMLFields(f.Fields)
		if err != nil {
			return nil, err
		}
		length := &Instruction{Kind: InstructionScalar, Name: f.Name + ".length", Optional: f.Optional, ScalarType: ScalarUInt32, Op: OpNone}
		if f.Length != nil {
			l, err := compileYAMLField(*f.Length)
			if err != nil {
				return nil, err
			}
			length = l
		}
		return &Instruction{Kind: InstructionSequence, Id: f.Id, Name: f.Name, Optional: f.Optional, Length: length, Children: children}, nil

	case "templateRef":
		return &Instruction{Kind: InstructionTemplateRef, Static: f.Ref != "", RefName: f.Ref}, nil

	default:
		scope, key := yamlDictionary(f.Dictionary)
		typ, ok := scalarTypeNames[f.Type]
		if !ok && f.Type != "decimal" {
			return nil, TemplateError("field \"" + f.Name + "\" has unknown type \"" + f.Type + "\"")
		}
		if f.Type == "decimal" {
			instr := &Instruction{
				Kind: InstructionScalar, Id: f.Id, Name: f.Name, Optional: f.Optional,
				ScalarType: ScalarDecimal, Op: yamlOperator(f.Op), Initial: f.Initial,
				ExponentOp: yamlOperator(f.ExponentOp), ExponentInitial: f.ExponentInitial,
				MantissaOp: yamlOperator(f.MantissaOp), MantissaInitial: f.MantissaInitial,
				DictScope: scope, DictKey: key,
			}
			return instr, nil
		}
		instr := &Instruction{
			Kind: InstructionScalar, Id: f.Id, Name: f.Name, Optional: f.Optional,
			ScalarType: typ, Op: yamlOperator(f.Op), Initial: f.Initial,
			DictScope: scope, DictKey: key,
		}
		if err := CheckOperatorCompatibility(instr.Op, instr.ScalarType); err != nil {
			return nil, err
		}
		return instr, nil
	}
}

// DictionaryExport is a human-readable snapshot of a Dictionary's entries,
// for inspecting or replaying session state across process restarts. A
// Dictionary's internal map is otherwise opaque outside this package.
type DictionaryExport struct {
	Entries []DictionaryRecord `yaml:"entries"`
}

// DictionaryRecord is one dictionary entry rendered for export: the key
// fields flattened out of DictionaryKey, plus its state and, when Assigned,
// the remembered value.
type DictionaryRecord struct {
	Scope string `yaml:"scope"`
	Name  string `yaml:"name,omitempty"`
	Field string `yaml:"field"`
	State string `yaml:"state"`
	Value *Value `yaml:"value,omitempty"`
}

// MustWriteYAML is WriteYAML, panicking on error, for call sites (tooling,
// tests) that treat a marshal failure as a programmer error.
func MustWriteYAML(w io.Writer, dict *Dictionary) {
	if err := WriteYAML(w, dict); err != nil {
		panic(err)
	}
}

// WriteYAML renders dict's current entries as a DictionaryExport document.
func WriteYAML(w io.Writer, dict *Dictionary) error {
	records := make([]DictionaryRecord, 0, len(dict.entries))
	for key, e := range dict.entries {
		rec := DictionaryRecord{
			Scope: key.Scope.String(),
			Name:  key.Name,
			Field: key.Field,
			State: e.state.String(),
		}
		if e.state == StateAssigned {
			v := e.value
			rec.Value = &v
		}
		records = append(records, rec)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(DictionaryExport{Entries: records})
}

// MustReadYAML is ReadYAML, panicking on error.
func MustReadYAML(r io.Reader) *Dictionary {
	d, err := ReadYAML(r)
	if err != nil {
		panic(err)
	}
	return d
}

var scopeByName = map[string]DictionaryScope{
	"global":   ScopeGlobal,
	"template": ScopeTemplate,
	"type":     ScopeType,
	"user":     ScopeUser,
}

// ReadYAML reconstructs a Dictionary from a document previously produced by
// WriteYAML, restoring each entry's scope, state, and value.
func ReadYAML(r io.Reader) (*Dictionary, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var export DictionaryExport
	if err := dec.Decode(&export); err != nil {
		return nil, err
	}

	dict := NewDictionary()
	for _, rec := range export.Entries {
		key := DictionaryKey{Scope: scopeByName[rec.Scope], Name: rec.Name, Field: rec.Field}
		switch rec.State {
		case StateAssigned.String():
			if rec.Value != nil {
				dict.Assign(key, *rec.Value)
			}
		case StateEmpty.String():
			dict.SetEmpty(key)
		}
	}
	return dict, nil
}
