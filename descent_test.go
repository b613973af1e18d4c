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
	"testing"
)

// S1 - unsigned stop-bit: the 7-bit group 0x39 with the stop bit set (0xB9)
// decodes as u32 (no op) -> 57; leading zero groups up to the declared width
// are permitted.
func TestScenarioS1UnsignedStopBit(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpNone}
	dict := NewDictionary()
	pmap := &PMAP{}

	got, err := decodeScalar(instr, "t", dict, pmap, bytes.NewReader([]byte{0xB9}))
	if err != nil {
		t.Fatal(err)
	}
	if got.UInt32 != 57 {
		t.Errorf("got %d, want 57", got.UInt32)
	}

	dict2 := NewDictionary()
	got2, err := decodeScalar(instr, "t", dict2, pmap, bytes.NewReader([]byte{0x00, 0x00, 0xB9}))
	if err != nil {
		t.Fatal(err)
	}
	if got2.UInt32 != 57 {
		t.Errorf("got %d, want 57", got2.UInt32)
	}
}

// S2 - optional null u32: 0x80 -> null; 0x82 -> 1 (1-added convention).
func TestScenarioS2OptionalNullU32(t *testing.T) {
	instr := &Instruction{Name: "f", Optional: true, ScalarType: ScalarUInt32, Op: OpNone}
	dict := NewDictionary()
	pmap := &PMAP{}

	got, err := decodeScalar(instr, "t", dict, pmap, bytes.NewReader([]byte{0x80}))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Null {
		t.Error("expected null")
	}

	got2, err := decodeScalar(instr, "t", dict, pmap, bytes.NewReader([]byte{0x82}))
	if err != nil {
		t.Fatal(err)
	}
	if got2.Null || got2.UInt32 != 1 {
		t.Errorf("got (%d, null=%v), want (1, false)", got2.UInt32, got2.Null)
	}
}

// S3 - constant optional, PMAP bit 0: template with one field "optional
// uInt32 constant(7)". PMAP 0x80 -> null. PMAP 0xC0 -> 7.
func TestScenarioS3ConstantOptional(t *testing.T) {
	initial := Value{Type: ScalarUInt32, UInt32: 7}
	instr := &Instruction{Name: "f", Optional: true, ScalarType: ScalarUInt32, Op: OpConstant, Initial: &initial}
	dict := NewDictionary()

	pmapNull, err := ReadPMAP(bytes.NewReader([]byte{0x80}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeScalar(instr, "t", dict, pmapNull, bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}
	if !got.Null {
		t.Error("expected null for PMAP 0x80")
	}

	pmapSet, err := ReadPMAP(bytes.NewReader([]byte{0xC0}))
	if err != nil {
		t.Fatal(err)
	}
	got2, err := decodeScalar(instr, "t", dict, pmapSet, bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got2.Null || got2.UInt32 != 7 {
		t.Errorf("got (%d, null=%v), want (7, false) for PMAP 0xC0", got2.UInt32, got2.Null)
	}
}

// S4 - copy operator persistence: mandatory uInt32 copy. First message
// PMAP=0xC0 value=0x81 -> 1. Second message PMAP=0x80 (no value) -> 1 again.
func TestScenarioS4CopyPersistence(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpCopy}
	dict := NewDictionary()

	pmap1, err := ReadPMAP(bytes.NewReader([]byte{0xC0}))
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeScalar(instr, "t", dict, pmap1, bytes.NewReader([]byte{0x81}))
	if err != nil {
		t.Fatal(err)
	}
	if got.UInt32 != 1 {
		t.Fatalf("got %d, want 1", got.UInt32)
	}

	pmap2, err := ReadPMAP(bytes.NewReader([]byte{0x80}))
	if err != nil {
		t.Fatal(err)
	}
	got2, err := decodeScalar(instr, "t", dict, pmap2, bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got2.UInt32 != 1 {
		t.Fatalf("got %d, want 1 on second message", got2.UInt32)
	}
}

// S5 - delta ASCII string: base "ABCDE", subtraction-length 0x82 (+2),
// suffix "XY" -> "ABCXY" (strip 2 from tail, append "XY"). Encoding "ABCXY"
// against base "ABCDE" produces the same wire bytes.
func TestScenarioS5DeltaASCIIString(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarASCIIString, Op: OpDelta}
	dict := NewDictionary()
	key := instr.fieldKey("t")
	dict.Assign(key, Value{Type: ScalarASCIIString, Text: "ABCDE"})

	// subtraction-length 2 on a mandatory field, a plain signed stop-bit
	// integer -> single byte 0x82, followed by the ASCII suffix "XY" with the
	// stop bit set on its last byte.
	wire := []byte{0x82, 'X', 'Y' | 0x80}
	got, err := decodeScalar(instr, "t", dict, &PMAP{}, bytes.NewReader(wire))
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "ABCXY" {
		t.Fatalf("got %q, want %q", got.Text, "ABCXY")
	}

	dict2 := NewDictionary()
	dict2.Assign(key, Value{Type: ScalarASCIIString, Text: "ABCDE"})
	var buf bytes.Buffer
	pmapB := NewPMAPBuilder()
	if err := encodeScalar(instr, "t", dict2, pmapB, &buf, Value{Type: ScalarASCIIString, Text: "ABCXY"}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf.Bytes(), wire) {
		t.Errorf("encode got % x, want % x", buf.Bytes(), wire)
	}
}

// S6 - decimal round-trip: Decimal(exp=-2, mantissa=12345) encoded with
// none produces <signed stop-bit -2><signed stop-bit 12345> and decodes
// exactly.
func TestScenarioS6DecimalRoundTrip(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarDecimal, Op: OpNone}
	dict := NewDictionary()

	var buf bytes.Buffer
	pmapB := NewPMAPBuilder()
	v := Value{Type: ScalarDecimal, Exponent: -2, Mantissa: 12345}
	if err := encodeScalar(instr, "t", dict, pmapB, &buf, v); err != nil {
		t.Fatal(err)
	}

	var wantExp, wantMant bytes.Buffer
	writeSigned(&wantExp, -2)
	writeSigned(&wantMant, 12345)
	want := append(append([]byte{}, wantExp.Bytes()...), wantMant.Bytes()...)
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("encode got % x, want % x", buf.Bytes(), want)
	}

	dict2 := NewDictionary()
	got, err := decodeScalar(instr, "t", dict2, &PMAP{}, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Exponent != -2 || got.Mantissa != 12345 {
		t.Fatalf("got (%d, %d), want (-2, 12345)", got.Exponent, got.Mantissa)
	}
}

func TestDecodeTemplateBodySequence(t *testing.T) {
	seq := &Instruction{
		Kind: InstructionSequence,
		Name: "items",
		Length: &Instruction{
			Kind: InstructionScalar, Name: "items.length", ScalarType: ScalarUInt32, Op: OpNone,
		},
		Children: []*Instruction{
			{Kind: InstructionScalar, Id: 1, Name: "value", ScalarType: ScalarUInt32, Op: OpNone},
		},
	}
	tmpl := &Template{Id: 1, Name: "t", Instructions: []*Instruction{seq}}
	set := newTemplateSet()
	set.add(tmpl)
	dict := NewDictionary()

	source := &fakeMessageSource{
		values: map[string]Value{
			"items.length": {Type: ScalarUInt32, UInt32: 2},
		},
		itemValues: []Value{
			{Type: ScalarUInt32, UInt32: 10},
			{Type: ScalarUInt32, UInt32: 20},
		},
	}
	var wire bytes.Buffer
	if err := encodeTemplateBody(tmpl, set, dict, source, &wire); err != nil {
		t.Fatal(err)
	}

	factory := &fakeMessageFactory{}
	dict2 := NewDictionary()
	if err := decodeTemplateBody(tmpl, set, dict2, factory, &wire); err != nil {
		t.Fatal(err)
	}
	if len(factory.values) != 2 || factory.values[0].UInt32 != 10 || factory.values[1].UInt32 != 20 {
		t.Fatalf("got %v, want [10, 20]", factory.values)
	}
}

// fakeMessageFactory/fakeMessageSource are minimal MessageFactory/
// MessageSource implementations for exercising descent.go directly,
// without a full application-level message model.

type fakeMessageFactory struct {
	values []Value
}

func (f *fakeMessageFactory) StartTemplate(id uint32, name string)  {}
func (f *fakeMessageFactory) SetValue(id uint32, name string, v Value) {
	f.values = append(f.values, v)
}
func (f *fakeMessageFactory) StartSequence(id uint32, name string, length uint32) {}
func (f *fakeMessageFactory) StartSequenceItem(index int)                        {}
func (f *fakeMessageFactory) StopSequenceItem()                                  {}
func (f *fakeMessageFactory) StopSequence()                                      {}
func (f *fakeMessageFactory) StartGroup(name string)                            {}
func (f *fakeMessageFactory) StopGroup()                                        {}
func (f *fakeMessageFactory) StartTemplateRef(name string, dynamic bool)        {}
func (f *fakeMessageFactory) StopTemplateRef()                                  {}
func (f *fakeMessageFactory) StopTemplate()                                     {}

type fakeMessageSource struct {
	values     map[string]Value
	itemValues []Value
	itemIndex  int
}

func (s *fakeMessageSource) NextValue(name string) (Value, error) {
	if name == "value" {
		v := s.itemValues[s.itemIndex]
		s.itemIndex++
		return v, nil
	}
	return s.values[name], nil
}
func (s *fakeMessageSource) EnterGroup(name string) (bool, error) { return true, nil }
func (s *fakeMessageSource) LeaveGroup()                         {}
func (s *fakeMessageSource) EnterSequenceItem(index int) error    { return nil }
func (s *fakeMessageSource) LeaveSequenceItem()                  {}
func (s *fakeMessageSource) EnterTemplateRef(name string, dynamic bool) (uint32, error) {
	return 0, nil
}
func (s *fakeMessageSource) LeaveTemplateRef() {}
