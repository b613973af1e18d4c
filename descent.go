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
	"bytes"
	"errors"
	"io"
)

// scalarCodecFor returns the wire codec for a scalar type, treating an
// atomically-operated decimal as a single unit (decimalCodec); a
// split-declared decimal never reaches this, since decodeScalar/encodeScalar
// dispatch its exponent and mantissa independently before a codec is needed.
func scalarCodecFor(t ScalarType) scalarCodec {
	if t == ScalarDecimal {
		return decimalCodec
	}
	return scalarCodecs[t]
}

// decimalSplit reports whether a decimal instruction was declared with
// independent <exponent>/<mantissa> sub-elements (each carrying its own
// operator) rather than one operator on the whole pair. Spec §4.E.
func decimalSplit(instr *Instruction) bool {
	return instr.ExponentOp != OpNone || instr.MantissaOp != OpNone
}

// decodeScalar runs one field's operator and returns its decoded value,
// recording dictionary updates along the way. It is the single dispatch
// point every scalar-bearing instruction (ordinary field, sequence length,
// decimal sub-component) goes through.
func decodeScalar(instr *Instruction, templateName string, dict *Dictionary, pmap *PMAP, r io.Reader) (Value, error) {
	v, err := decodeScalarDispatch(instr, templateName, dict, pmap, r)
	if err != nil {
		recordOperatorFailure(instr.Op, err)
	}
	return v, err
}

func decodeScalarDispatch(instr *Instruction, templateName string, dict *Dictionary, pmap *PMAP, r io.Reader) (Value, error) {
	if instr.ScalarType == ScalarDecimal && decimalSplit(instr) {
		return decodeDecimalSplit(instr, templateName, dict, pmap, r)
	}
	codec := scalarCodecFor(instr.ScalarType)
	key := instr.fieldKey(templateName)
	switch instr.Op {
	case OpNone:
		return decodeNone(instr, codec, r)
	case OpConstant:
		if instr.Initial == nil {
			return Value{}, MissingInitial(instr.Name)
		}
		return decodeConstant(instr, pmap, *instr.Initial)
	case OpDefault:
		return decodeDefault(instr, codec, pmap, r, instr.Initial)
	case OpCopy:
		return decodeCopy(instr, codec, dict, key, pmap, r)
	case OpIncrement:
		return decodeIncrement(instr, codec, dict, key, pmap, r)
	case OpDelta:
		switch instr.ScalarType {
		case ScalarDecimal:
			return decodeDeltaDecimal(instr, dict, key, r)
		case ScalarASCIIString, ScalarUnicodeString, ScalarByteVector:
			return decodeDeltaBytes(instr, codec, dict, key, r)
		default:
			return decodeDeltaNumeric(instr, dict, key, r)
		}
	case OpTail:
		return decodeTail(instr, codec, dict, key, pmap, r)
	default:
		return Value{}, TemplateError("field \"" + instr.Name + "\" declares an unrecognized operator")
	}
}

// recordOperatorFailure classifies an operator-engine error against
// fast_operator_failures_total's two known failure kinds, leaving
// unrelated errors (Eof, Overflow, ...) uncounted: those already surface
// through DecodeErrorsTotal/EncodeErrorsTotal.
func recordOperatorFailure(op Operator, err error) {
	switch {
	case errors.Is(err, ErrMissingPreviousValue):
		OperatorFailuresTotal.WithLabelValues(op.String(), "missing_previous_value").Inc()
	case errors.Is(err, ErrMissingInitial):
		OperatorFailuresTotal.WithLabelValues(op.String(), "missing_initial").Inc()
	}
}

func decodeDecimalSplit(instr *Instruction, templateName string, dict *Dictionary, pmap *PMAP, r io.Reader) (Value, error) {
	exp, err := decodeScalar(decimalExponentInstr(instr), templateName, dict, pmap, r)
	if err != nil {
		return Value{}, err
	}
	if exp.Null {
		return Value{Type: ScalarDecimal, Null: true}, nil
	}
	mant, err := decodeScalar(decimalMantissaInstr(instr), templateName, dict, pmap, r)
	if err != nil {
		return Value{}, err
	}
	return Value{Type: ScalarDecimal, Exponent: int8(exp.Int32), Mantissa: mant.Int64}, nil
}

// decimalExponentInstr/decimalMantissaInstr synthesize the independent
// scalar instructions a split decimal's two components decode/encode
// through: they share the parent's dictionary scope/key and name prefix.
// The mantissa never carries the optional-presence bit itself; the
// exponent's nullability alone signals whether the whole field is absent,
// matching DecodeDecimalOptional's wire convention.
func decimalExponentInstr(instr *Instruction) *Instruction {
	return &Instruction{
		Kind: InstructionScalar, Name: instr.Name + ".exponent", Optional: instr.Optional,
		ScalarType: ScalarInt32, Op: instr.ExponentOp, Initial: instr.ExponentInitial,
		DictScope: instr.DictScope, DictKey: instr.DictKey,
	}
}

func decimalMantissaInstr(instr *Instruction) *Instruction {
	return &Instruction{
		Kind: InstructionScalar, Name: instr.Name + ".mantissa", Optional: false,
		ScalarType: ScalarInt64, Op: instr.MantissaOp, Initial: instr.MantissaInitial,
		DictScope: instr.DictScope, DictKey: instr.DictKey,
	}
}

// decodeTemplateBody decodes one template instance directly: its own PMAP,
// its fields in order, bracketed by StartTemplate/StopTemplate. This is the
// entry point for a dynamic template reference, which introduces a fresh
// nested template instance with its own presence map. The top-level message
// case is different: spec §4.F's envelope bit sharing the very same PMAP as
// the top-level template's own fields is handled by decodeTemplateBodyWithPMAP,
// called directly from Decoder.decode once it has read that one shared PMAP.
func decodeTemplateBody(t *Template, set *TemplateSet, dict *Dictionary, factory MessageFactory, r io.Reader) error {
	pmap, err := ReadPMAP(r)
	if err != nil {
		return err
	}
	return decodeTemplateBodyWithPMAP(t, set, dict, pmap, factory, r)
}

// decodeTemplateBodyWithPMAP decodes a template instance's fields against a
// PMAP the caller has already read (or built), in field declaration order.
func decodeTemplateBodyWithPMAP(t *Template, set *TemplateSet, dict *Dictionary, pmap *PMAP, factory MessageFactory, r io.Reader) error {
	factory.StartTemplate(t.Id, t.Name)
	if err := decodeInstructions(t.Instructions, t.Name, dict, pmap, factory, set, r); err != nil {
		return err
	}
	factory.StopTemplate()
	return nil
}

func decodeInstructions(instructions []*Instruction, templateName string, dict *Dictionary, pmap *PMAP, factory MessageFactory, set *TemplateSet, r io.Reader) error {
	for _, instr := range instructions {
		if err := decodeInstruction(instr, templateName, dict, pmap, factory, set, r); err != nil {
			return err
		}
	}
	return nil
}

func decodeInstruction(instr *Instruction, templateName string, dict *Dictionary, pmap *PMAP, factory MessageFactory, set *TemplateSet, r io.Reader) error {
	switch instr.Kind {
	case InstructionScalar:
		v, err := decodeScalar(instr, templateName, dict, pmap, r)
		if err != nil {
			return err
		}
		factory.SetValue(instr.Id, instr.Name, v)
		return nil

	case InstructionGroup:
		if instr.Optional && !pmap.Next() {
			return nil
		}
		groupPMAP := &PMAP{}
		if instr.NeedsPMAP {
			var err error
			groupPMAP, err = ReadPMAP(r)
			if err != nil {
				return err
			}
		}
		factory.StartGroup(instr.Name)
		if err := decodeInstructions(instr.Children, templateName, dict, groupPMAP, factory, set, r); err != nil {
			return err
		}
		factory.StopGroup()
		return nil

	case InstructionSequence:
		length, err := decodeScalar(instr.Length, templateName, dict, pmap, r)
		if err != nil {
			return err
		}
		if length.Null {
			return nil
		}
		n := length.UInt32
		factory.StartSequence(instr.Id, instr.Name, n)
		for i := 0; i < int(n); i++ {
			itemPMAP := &PMAP{}
			if instr.NeedsPMAP {
				var err error
				itemPMAP, err = ReadPMAP(r)
				if err != nil {
					return err
				}
			}
			factory.StartSequenceItem(i)
			if err := decodeInstructions(instr.Children, templateName, dict, itemPMAP, factory, set, r); err != nil {
				return err
			}
			factory.StopSequenceItem()
		}
		factory.StopSequence()
		return nil

	case InstructionTemplateRef:
		if instr.Static {
			factory.StartTemplateRef(instr.RefTemplate.Name, false)
			if err := decodeInstructions(instr.RefTemplate.Instructions, templateName, dict, pmap, factory, set, r); err != nil {
				return err
			}
			factory.StopTemplateRef()
			return nil
		}
		id, _, err := readUnsigned(r, maxStopBitBytes32)
		if err != nil {
			return err
		}
		target, ok := set.ById(uint32(id))
		if !ok {
			return UnknownTemplate(uint32(id))
		}
		factory.StartTemplateRef(target.Name, true)
		if err := decodeTemplateBody(target, set, dict, factory, r); err != nil {
			return err
		}
		factory.StopTemplateRef()
		return nil

	default:
		return TemplateError("unrecognized instruction kind in compiled template")
	}
}

// encodeScalar is decodeScalar's mirror: given the application value for one
// field, it applies the operator's encode rule, updates the dictionary, and
// writes wire bytes to w, returning a presence bit to pmapB when the
// operator uses one.
func encodeScalar(instr *Instruction, templateName string, dict *Dictionary, pmapB *PMAPBuilder, w io.Writer, v Value) error {
	err := encodeScalarDispatch(instr, templateName, dict, pmapB, w, v)
	if err != nil {
		recordOperatorFailure(instr.Op, err)
	}
	return err
}

func encodeScalarDispatch(instr *Instruction, templateName string, dict *Dictionary, pmapB *PMAPBuilder, w io.Writer, v Value) error {
	if instr.ScalarType == ScalarDecimal && decimalSplit(instr) {
		return encodeDecimalSplit(instr, templateName, dict, pmapB, w, v)
	}
	codec := scalarCodecFor(instr.ScalarType)
	key := instr.fieldKey(templateName)
	switch instr.Op {
	case OpNone:
		return encodeNone(instr, codec, w, v)
	case OpConstant:
		if instr.Initial == nil {
			return MissingInitial(instr.Name)
		}
		if !instr.Optional && !v.Null && !valuesEqual(v, *instr.Initial) {
			return DynamicError("field \"" + instr.Name + "\" is constant and cannot encode a different value")
		}
		encodeConstant(instr, pmapB, v)
		return nil
	case OpDefault:
		return encodeDefault(instr, codec, pmapB, w, v, instr.Initial)
	case OpCopy:
		return encodeCopy(instr, codec, dict, key, pmapB, w, v)
	case OpIncrement:
		return encodeIncrement(instr, codec, dict, key, pmapB, w, v)
	case OpDelta:
		switch instr.ScalarType {
		case ScalarDecimal:
			return encodeDeltaDecimal(instr, dict, key, w, v)
		case ScalarASCIIString, ScalarUnicodeString, ScalarByteVector:
			return encodeDeltaBytes(instr, codec, dict, key, w, v)
		default:
			return encodeDeltaNumeric(instr, dict, key, w, v)
		}
	case OpTail:
		return encodeTail(instr, codec, dict, key, pmapB, w, v)
	default:
		return TemplateError("field \"" + instr.Name + "\" declares an unrecognized operator")
	}
}

func encodeDecimalSplit(instr *Instruction, templateName string, dict *Dictionary, pmapB *PMAPBuilder, w io.Writer, v Value) error {
	expVal := Value{Type: ScalarInt32, Null: v.Null}
	if !v.Null {
		expVal.Int32 = int32(v.Exponent)
	}
	if err := encodeScalar(decimalExponentInstr(instr), templateName, dict, pmapB, w, expVal); err != nil {
		return err
	}
	if v.Null {
		return nil
	}
	mantVal := Value{Type: ScalarInt64, Int64: v.Mantissa}
	return encodeScalar(decimalMantissaInstr(instr), templateName, dict, pmapB, w, mantVal)
}

// encodeTemplateBody is decodeTemplateBody's mirror: it builds this
// template's own PMAP and body in a scratch buffer (so the PMAP's trailing
// bits can be trimmed once every field has reported presence), then writes
// PMAP followed by body to w. Used for a dynamic template reference, which
// introduces a fresh nested template instance with its own presence map.
// Encoder.Encode does not go through here: it shares its PMAP with the
// envelope's template-id bit and runs encodeInstructions itself, so that it
// can write the template id between the PMAP and the body.
func encodeTemplateBody(t *Template, set *TemplateSet, dict *Dictionary, source MessageSource, w io.Writer) error {
	return encodeTemplateBodyWithPMAP(t, set, dict, NewPMAPBuilder(), source, w)
}

// encodeTemplateBodyWithPMAP encodes a template instance's fields into a
// PMAP builder the caller already owns, writing the finished PMAP then body
// to w.
func encodeTemplateBodyWithPMAP(t *Template, set *TemplateSet, dict *Dictionary, pmapB *PMAPBuilder, source MessageSource, w io.Writer) error {
	var body bytes.Buffer
	if err := encodeInstructions(t.Instructions, t.Name, dict, pmapB, source, set, &body); err != nil {
		return err
	}
	if err := pmapB.WritePMAP(w); err != nil {
		return err
	}
	_, err := w.Write(body.Bytes())
	return err
}

func encodeInstructions(instructions []*Instruction, templateName string, dict *Dictionary, pmapB *PMAPBuilder, source MessageSource, set *TemplateSet, w io.Writer) error {
	for _, instr := range instructions {
		if err := encodeInstruction(instr, templateName, dict, pmapB, source, set, w); err != nil {
			return err
		}
	}
	return nil
}

func encodeInstruction(instr *Instruction, templateName string, dict *Dictionary, pmapB *PMAPBuilder, source MessageSource, set *TemplateSet, w io.Writer) error {
	switch instr.Kind {
	case InstructionScalar:
		v, err := source.NextValue(instr.Name)
		if err != nil {
			return err
		}
		return encodeScalar(instr, templateName, dict, pmapB, w, v)

	case InstructionGroup:
		present := true
		if instr.Optional {
			var err error
			present, err = source.EnterGroup(instr.Name)
			if err != nil {
				return err
			}
			pmapB.Set(present)
			if !present {
				return nil
			}
		} else {
			if _, err := source.EnterGroup(instr.Name); err != nil {
				return err
			}
		}
		groupPMAPB := NewPMAPBuilder()
		var groupBody bytes.Buffer
		if err := encodeInstructions(instr.Children, templateName, dict, groupPMAPB, source, set, &groupBody); err != nil {
			return err
		}
		source.LeaveGroup()
		if instr.NeedsPMAP {
			if err := groupPMAPB.WritePMAP(w); err != nil {
				return err
			}
		}
		_, err := w.Write(groupBody.Bytes())
		return err

	case InstructionSequence:
		lengthVal, err := source.NextValue(instr.Length.Name)
		if err != nil {
			return err
		}
		if err := encodeScalar(instr.Length, templateName, dict, pmapB, w, lengthVal); err != nil {
			return err
		}
		if lengthVal.Null {
			return nil
		}
		for i := 0; i < int(lengthVal.UInt32); i++ {
			if err := source.EnterSequenceItem(i); err != nil {
				return err
			}
			itemPMAPB := NewPMAPBuilder()
			var itemBody bytes.Buffer
			if err := encodeInstructions(instr.Children, templateName, dict, itemPMAPB, source, set, &itemBody); err != nil {
				return err
			}
			source.LeaveSequenceItem()
			if instr.NeedsPMAP {
				if err := itemPMAPB.WritePMAP(w); err != nil {
					return err
				}
			}
			if _, err := w.Write(itemBody.Bytes()); err != nil {
				return err
			}
		}
		return nil

	case InstructionTemplateRef:
		if instr.Static {
			if _, err := source.EnterTemplateRef(instr.RefTemplate.Name, false); err != nil {
				return err
			}
			if err := encodeInstructions(instr.RefTemplate.Instructions, templateName, dict, pmapB, source, set, w); err != nil {
				return err
			}
			source.LeaveTemplateRef()
			return nil
		}
		id, err := source.EnterTemplateRef("", true)
		if err != nil {
			return err
		}
		target, ok := set.ById(id)
		if !ok {
			return UnknownTemplate(id)
		}
		if _, err := writeUnsigned(w, uint64(id)); err != nil {
			return err
		}
		if err := encodeTemplateBody(target, set, dict, source, w); err != nil {
			return err
		}
		source.LeaveTemplateRef()
		return nil

	default:
		return TemplateError("unrecognized instruction kind in compiled template")
	}
}
