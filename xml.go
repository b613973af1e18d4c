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
	"encoding/xml"
	"io"
	"strconv"
)

// Compile parses a FAST template-definition XML document (the schema
// conventionally lives under the http://www.fixprotocol.org/ns/fast/td/1.1
// namespace, though the compiler does not require it) into a TemplateSet.
//
// Field declaration order in the XML is significant, since it is the order
// PMAP bits and wire values are consumed in, so Compile walks the document
// with a streaming xml.Decoder rather than encoding/xml's declarative
// Unmarshal, which does not preserve order across differently-named
// sibling elements.
func Compile(r io.Reader) (*TemplateSet, error) {
	dec := xml.NewDecoder(r)
	set := newTemplateSet()

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			TemplateCompilesTotal.WithLabelValues("error").Inc()
			return nil, TemplateError(err.Error())
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "template" {
			continue
		}
		t, err := compileTemplate(dec, start)
		if err != nil {
			TemplateCompilesTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		set.add(t)
	}

	if err := resolveStaticRefs(set); err != nil {
		TemplateCompilesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	finalizePMAPNeeds(set)
	TemplateCompilesTotal.WithLabelValues("ok").Inc()
	return set, nil
}

func xmlAttr(start xml.StartElement, name string) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// fieldId parses an element's optional "id" attribute, defaulting to 0 when
// absent: unlike a template's id, a field id is informational (correlated
// to the message factory/source callbacks) and not required for decoding.
func fieldId(start xml.StartElement) uint32 {
	raw, ok := xmlAttr(start, "id")
	if !ok {
		return 0
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

func compileTemplate(dec *xml.Decoder, start xml.StartElement) (*Template, error) {
	name, _ := xmlAttr(start, "name")
	idStr, _ := xmlAttr(start, "id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return nil, TemplateError("template \"" + name + "\" has a missing or invalid id attribute")
	}
	// A field's dictionary scope defaults to this template's own scope
	// (itself defaulting to ScopeTemplate) unless the field overrides it.
	defaultScope, defaultKey := dictionaryAttrs(start, ScopeTemplate, "")
	instructions, err := compileInstructions(dec, "template", defaultScope, defaultKey)
	if err != nil {
		return nil, err
	}
	return &Template{Id: uint32(id), Name: name, Instructions: instructions}, nil
}

// compileInstructions consumes field elements until the enclosing
// element (named by closeName) ends. defaultScope/defaultKey are the
// enclosing template's dictionary default, inherited by every field here
// that doesn't declare its own "dictionary" attribute.
func compileInstructions(dec *xml.Decoder, closeName string, defaultScope DictionaryScope, defaultKey string) ([]*Instruction, error) {
	var out []*Instruction
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, TemplateError(err.Error())
		}
		switch el := tok.(type) {
		case xml.EndElement:
			if el.Name.Local == closeName {
				return out, nil
			}
		case xml.StartElement:
			instr, err := compileInstruction(dec, el, defaultScope, defaultKey)
			if err != nil {
				return nil, err
			}
			if instr != nil {
				out = append(out, instr)
			}
		}
	}
}

var scalarTypeNames = map[string]ScalarType{
	"uInt32":     ScalarUInt32,
	"int32":      ScalarInt32,
	"uInt64":     ScalarUInt64,
	"int64":      ScalarInt64,
	"string":     ScalarASCIIString,
	"unicode":    ScalarUnicodeString,
	"byteVector": ScalarByteVector,
}

// stringScalarType resolves a <string> element's scalar type from its
// charset attribute, per spec §6 (<string charset="ascii|unicode">);
// charset defaults to ascii when absent. The <unicode> element name
// remains a supported alias for charset="unicode".
func stringScalarType(start xml.StartElement) ScalarType {
	if charset, ok := xmlAttr(start, "charset"); ok && charset == "unicode" {
		return ScalarUnicodeString
	}
	return ScalarASCIIString
}

func compileInstruction(dec *xml.Decoder, start xml.StartElement, defaultScope DictionaryScope, defaultKey string) (*Instruction, error) {
	switch start.Name.Local {
	case "decimal":
		return compileDecimal(dec, start, defaultScope, defaultKey)
	case "group":
		return compileGroup(dec, start, defaultScope, defaultKey)
	case "sequence":
		return compileSequence(dec, start, defaultScope, defaultKey)
	case "templateRef":
		return compileTemplateRef(start)
	case "string":
		return compileScalar(dec, start, stringScalarType(start), defaultScope, defaultKey)
	default:
		typ, ok := scalarTypeNames[start.Name.Local]
		if !ok {
			return nil, TemplateError("unknown instruction element \"" + start.Name.Local + "\"")
		}
		return compileScalar(dec, start, typ, defaultScope, defaultKey)
	}
}

// dictionaryAttrs reads a "dictionary"/"key" attribute pair, falling back to
// the caller-supplied default (the enclosing template's own scope) when the
// element declares no override.
func dictionaryAttrs(start xml.StartElement, defaultScope DictionaryScope, defaultKey string) (DictionaryScope, string) {
	dict, ok := xmlAttr(start, "dictionary")
	if !ok {
		return defaultScope, defaultKey
	}
	switch dict {
	case "global":
		return ScopeGlobal, ""
	case "template":
		return ScopeTemplate, ""
	case "type":
		key, _ := xmlAttr(start, "key")
		return ScopeType, key
	default:
		return ScopeUser, dict
	}
}

func compileScalar(dec *xml.Decoder, start xml.StartElement, typ ScalarType, defaultScope DictionaryScope, defaultKey string) (*Instruction, error) {
	name, _ := xmlAttr(start, "name")
	presence, _ := xmlAttr(start, "presence")
	scope, key := dictionaryAttrs(start, defaultScope, defaultKey)
	instr := &Instruction{
		Kind:       InstructionScalar,
		Id:         fieldId(start),
		Name:       name,
		Optional:   presence == "optional",
		ScalarType: typ,
		Op:         OpNone,
		DictScope:  scope,
		DictKey:    key,
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, TemplateError(err.Error())
		}
		switch el := tok.(type) {
		case xml.EndElement:
			if el.Name.Local == start.Name.Local {
				if err := CheckOperatorCompatibility(instr.Op, instr.ScalarType); err != nil {
					return nil, err
				}
				return instr, nil
			}
		case xml.StartElement:
			op, initial, err := compileOperator(dec, el, typ)
			if err != nil {
				return nil, err
			}
			instr.Op = op
			instr.Initial = initial
		}
	}
}

// compileOperator reads one operator element (<none/>, <constant .../>,
// <default .../>, <copy/>, <increment .../>, <delta/>, <tail/>), consuming
// its end tag, and returns the operator plus any declared initial value.
func compileOperator(dec *xml.Decoder, start xml.StartElement, typ ScalarType) (Operator, *Value, error) {
	var op Operator
	switch start.Name.Local {
	case "none":
		op = OpNone
	case "constant":
		op = OpConstant
	case "default":
		op = OpDefault
	case "copy":
		op = OpCopy
	case "increment":
		op = OpIncrement
	case "delta":
		op = OpDelta
	case "tail":
		op = OpTail
	default:
		return 0, nil, TemplateError("unknown operator element \"" + start.Name.Local + "\"")
	}
	value, hasValue := xmlAttr(start, "value")
	if err := consumeElement(dec, start.Name.Local); err != nil {
		return 0, nil, err
	}
	if !hasValue {
		return op, nil, nil
	}
	v, err := parseInitialValue(value, typ)
	if err != nil {
		return 0, nil, err
	}
	return op, &v, nil
}

func parseInitialValue(raw string, typ ScalarType) (Value, error) {
	switch typ {
	case ScalarUInt32:
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return Value{}, TemplateError("invalid uInt32 initial value \"" + raw + "\"")
		}
		return Value{Type: ScalarUInt32, UInt32: uint32(n)}, nil
	case ScalarInt32:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return Value{}, TemplateError("invalid int32 initial value \"" + raw + "\"")
		}
		return Value{Type: ScalarInt32, Int32: int32(n)}, nil
	case ScalarUInt64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Value{}, TemplateError("invalid uInt64 initial value \"" + raw + "\"")
		}
		return Value{Type: ScalarUInt64, UInt64: n}, nil
	case ScalarInt64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, TemplateError("invalid int64 initial value \"" + raw + "\"")
		}
		return Value{Type: ScalarInt64, Int64: n}, nil
	case ScalarASCIIString, ScalarUnicodeString:
		return Value{Type: typ, Text: raw}, nil
	case ScalarByteVector:
		return Value{Type: typ, Bytes: []byte(raw)}, nil
	default:
		return Value{}, TemplateError("scalar type does not take an initial value here")
	}
}

func compileDecimal(dec *xml.Decoder, start xml.StartElement, defaultScope DictionaryScope, defaultKey string) (*Instruction, error) {
	name, _ := xmlAttr(start, "name")
	presence, _ := xmlAttr(start, "presence")
	scope, key := dictionaryAttrs(start, defaultScope, defaultKey)
	instr := &Instruction{
		Kind:       InstructionScalar,
		Id:         fieldId(start),
		Name:       name,
		Optional:   presence == "optional",
		ScalarType: ScalarDecimal,
		Op:         OpNone,
		ExponentOp: OpNone,
		MantissaOp: OpNone,
		DictScope:  scope,
		DictKey:    key,
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, TemplateError(err.Error())
		}
		switch el := tok.(type) {
		case xml.EndElement:
			if el.Name.Local == "decimal" {
				return instr, nil
			}
		case xml.StartElement:
			switch el.Name.Local {
			case "exponent":
				op, initial, err := compileComposite(dec, "exponent", ScalarInt32)
				if err != nil {
					return nil, err
				}
				instr.ExponentOp, instr.ExponentInitial = op, initial
			case "mantissa":
				op, initial, err := compileComposite(dec, "mantissa", ScalarInt64)
				if err != nil {
					return nil, err
				}
				instr.MantissaOp, instr.MantissaInitial = op, initial
			default:
				op, initial, err := compileOperator(dec, el, ScalarInt64)
				if err != nil {
					return nil, err
				}
				instr.Op, instr.Initial = op, initial
			}
		}
	}
}

func compileComposite(dec *xml.Decoder, closeName string, typ ScalarType) (Operator, *Value, error) {
	var op Operator
	var initial *Value
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, nil, TemplateError(err.Error())
		}
		switch el := tok.(type) {
		case xml.EndElement:
			if el.Name.Local == closeName {
				return op, initial, nil
			}
		case xml.StartElement:
			op, initial, err = compileOperator(dec, el, typ)
			if err != nil {
				return 0, nil, err
			}
		}
	}
}

func compileGroup(dec *xml.Decoder, start xml.StartElement, defaultScope DictionaryScope, defaultKey string) (*Instruction, error) {
	name, _ := xmlAttr(start, "name")
	presence, _ := xmlAttr(start, "presence")
	children, err := compileInstructions(dec, "group", defaultScope, defaultKey)
	if err != nil {
		return nil, err
	}
	return &Instruction{
		Kind:     InstructionGroup,
		Name:     name,
		Optional: presence == "optional",
		Children: children,
	}, nil
}

func compileSequence(dec *xml.Decoder, start xml.StartElement, defaultScope DictionaryScope, defaultKey string) (*Instruction, error) {
	name, _ := xmlAttr(start, "name")
	presence, _ := xmlAttr(start, "presence")
	var length *Instruction
	var children []*Instruction
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, TemplateError(err.Error())
		}
		switch el := tok.(type) {
		case xml.EndElement:
			if el.Name.Local == "sequence" {
				if length == nil {
					length = &Instruction{Kind: InstructionScalar, Name: name + ".length", Optional: presence == "optional", ScalarType: ScalarUInt32, Op: OpNone}
				}
				return &Instruction{
					Kind:     InstructionSequence,
					Id:       fieldId(start),
					Name:     name,
					Optional: presence == "optional",
					Length:   length,
					Children: children,
				}, nil
			}
		case xml.StartElement:
			if el.Name.Local == "length" {
				lenName, _ := xmlAttr(el, "name")
				if lenName == "" {
					lenName = name + ".length"
				}
				l, err := compileScalar(dec, el, ScalarUInt32, defaultScope, defaultKey)
				if err != nil {
					return nil, err
				}
				l.Name = lenName
				length = l
				continue
			}
			instr, err := compileInstruction(dec, el, defaultScope, defaultKey)
			if err != nil {
				return nil, err
			}
			children = append(children, instr)
		}
	}
}

func compileTemplateRef(start xml.StartElement) (*Instruction, error) {
	name, hasName := xmlAttr(start, "name")
	return &Instruction{
		Kind:    InstructionTemplateRef,
		Static:  hasName && name != "",
		RefName: name,
	}, nil
}

func consumeElement(dec *xml.Decoder, name string) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return TemplateError(err.Error())
		}
		switch el := tok.(type) {
		case xml.EndElement:
			if el.Name.Local == name {
				return nil
			}
		case xml.StartElement:
			if err := consumeElement(dec, el.Name.Local); err != nil {
				return err
			}
		}
	}
}

// resolveStaticRefs binds every static templateRef's RefTemplate, failing
// with TemplateError on an unknown name or a reference cycle.
func resolveStaticRefs(set *TemplateSet) error {
	for _, t := range set.byId {
		visited := map[string]bool{t.Name: true}
		if err := resolveRefsIn(t.Instructions, set, visited); err != nil {
			return err
		}
	}
	return nil
}

func resolveRefsIn(instructions []*Instruction, set *TemplateSet, visited map[string]bool) error {
	for _, instr := range instructions {
		switch instr.Kind {
		case InstructionTemplateRef:
			if !instr.Static {
				continue
			}
			if visited[instr.RefName] {
				return TemplateError("template reference cycle through \"" + instr.RefName + "\"")
			}
			ref, ok := set.ByName(instr.RefName)
			if !ok {
				return TemplateError("static templateRef to unknown template \"" + instr.RefName + "\"")
			}
			instr.RefTemplate = ref
			nested := make(map[string]bool, len(visited)+1)
			for k := range visited {
				nested[k] = true
			}
			nested[instr.RefName] = true
			if err := resolveRefsIn(ref.Instructions, set, nested); err != nil {
				return err
			}
		case InstructionGroup, InstructionSequence:
			if err := resolveRefsIn(instr.Children, set, visited); err != nil {
				return err
			}
		}
	}
	return nil
}
