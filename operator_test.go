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

// roundTripScalar runs instr's encodeScalar then decodeScalar against a
// fresh dictionary and PMAP pair, returning the decoded value.
func roundTripScalar(t *testing.T, instr *Instruction, v Value) Value {
	t.Helper()
	dict := NewDictionary()
	pmapB := NewPMAPBuilder()
	var body bytes.Buffer
	if err := encodeScalar(instr, "t", dict, pmapB, &body, v); err != nil {
		t.Fatalf("encodeScalar: %v", err)
	}
	var wire bytes.Buffer
	if err := pmapB.WritePMAP(&wire); err != nil {
		t.Fatal(err)
	}
	wire.Write(body.Bytes())

	dict2 := NewDictionary()
	pmap, err := ReadPMAP(&wire)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeScalar(instr, "t", dict2, pmap, &wire)
	if err != nil {
		t.Fatalf("decodeScalar: %v", err)
	}
	return got
}

func TestOpNoneRoundTrip(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpNone}
	got := roundTripScalar(t, instr, Value{Type: ScalarUInt32, UInt32: 99})
	if got.UInt32 != 99 {
		t.Errorf("got %d, want 99", got.UInt32)
	}
}

func TestOpNoneOptionalNull(t *testing.T) {
	instr := &Instruction{Name: "f", Optional: true, ScalarType: ScalarUInt32, Op: OpNone}
	got := roundTripScalar(t, instr, Value{Type: ScalarUInt32, Null: true})
	if !got.Null {
		t.Error("expected null")
	}
}

func TestOpConstantMandatoryOmitsWire(t *testing.T) {
	initial := Value{Type: ScalarUInt32, UInt32: 7}
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpConstant, Initial: &initial}
	got := roundTripScalar(t, instr, Value{Type: ScalarUInt32, UInt32: 7})
	if got.UInt32 != 7 {
		t.Errorf("got %d, want 7", got.UInt32)
	}
}

func TestOpConstantMismatchFailsToEncode(t *testing.T) {
	initial := Value{Type: ScalarUInt32, UInt32: 7}
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpConstant, Initial: &initial}
	dict := NewDictionary()
	pmapB := NewPMAPBuilder()
	var body bytes.Buffer
	err := encodeScalar(instr, "t", dict, pmapB, &body, Value{Type: ScalarUInt32, UInt32: 8})
	if err == nil {
		t.Fatal("expected DynamicError for constant value mismatch")
	}
}

func TestOpDefaultUsesInitialWhenOmitted(t *testing.T) {
	initial := Value{Type: ScalarUInt32, UInt32: 42}
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpDefault, Initial: &initial}
	got := roundTripScalar(t, instr, Value{Type: ScalarUInt32, UInt32: 42})
	if got.UInt32 != 42 {
		t.Errorf("got %d, want 42", got.UInt32)
	}
}

func TestOpDefaultTransmitsDifferentValue(t *testing.T) {
	initial := Value{Type: ScalarUInt32, UInt32: 42}
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpDefault, Initial: &initial}
	got := roundTripScalar(t, instr, Value{Type: ScalarUInt32, UInt32: 100})
	if got.UInt32 != 100 {
		t.Errorf("got %d, want 100", got.UInt32)
	}
}

func TestOpCopyReusesPriorAcrossMessages(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpCopy}
	dict := NewDictionary()
	key := instr.fieldKey("t")

	// first message: transmitted
	pmapB := NewPMAPBuilder()
	var body bytes.Buffer
	if err := encodeCopy(instr, scalarCodecFor(ScalarUInt32), dict, key, pmapB, &body, Value{Type: ScalarUInt32, UInt32: 5}); err != nil {
		t.Fatal(err)
	}
	if !pmapB.bits[0] {
		t.Fatal("expected presence bit set on first transmission")
	}

	// second message: same value, should omit
	pmapB2 := NewPMAPBuilder()
	var body2 bytes.Buffer
	if err := encodeCopy(instr, scalarCodecFor(ScalarUInt32), dict, key, pmapB2, &body2, Value{Type: ScalarUInt32, UInt32: 5}); err != nil {
		t.Fatal(err)
	}
	if pmapB2.bits[0] {
		t.Error("expected presence bit cleared when value matches prior")
	}
}

func TestOpIncrementAutoIncrementsOnOmit(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarUInt32, Op: OpIncrement}
	dict := NewDictionary()
	key := instr.fieldKey("t")
	dict.Assign(key, Value{Type: ScalarUInt32, UInt32: 5})

	pmap := &PMAP{bits: []bool{false}}
	got, err := decodeIncrement(instr, scalarCodecFor(ScalarUInt32), dict, key, pmap, bytes.NewReader(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got.UInt32 != 6 {
		t.Errorf("got %d, want 6", got.UInt32)
	}
}

func TestOpTailSameLengthSharesPrefix(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarASCIIString, Op: OpTail}
	got := roundTripScalar(t, instr, Value{Type: ScalarASCIIString, Text: "hello"})
	if got.Text != "hello" {
		t.Errorf("got %q, want %q", got.Text, "hello")
	}
	// second message replaces the tail of a same-length value while sharing
	// the prefix
	dict := NewDictionary()
	key := instr.fieldKey("t")
	dict.Assign(key, Value{Type: ScalarASCIIString, Text: "hello"})
	pmapB := NewPMAPBuilder()
	var body bytes.Buffer
	if err := encodeTail(instr, scalarCodecFor(ScalarASCIIString), dict, key, pmapB, &body, Value{Type: ScalarASCIIString, Text: "helps"}); err != nil {
		t.Fatal(err)
	}
	var wire bytes.Buffer
	pmapB.WritePMAP(&wire)
	wire.Write(body.Bytes())
	dict2 := NewDictionary()
	dict2.Assign(key, Value{Type: ScalarASCIIString, Text: "hello"})
	pmap, err := ReadPMAP(&wire)
	if err != nil {
		t.Fatal(err)
	}
	got2, err := decodeTail(instr, scalarCodecFor(ScalarASCIIString), dict2, key, pmap, &wire)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Text != "helps" {
		t.Errorf("got %q, want %q", got2.Text, "helps")
	}
}

func TestOpDeltaNumericRoundTrip(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarInt32, Op: OpDelta}
	dict := NewDictionary()
	key := instr.fieldKey("t")

	var buf bytes.Buffer
	if err := encodeDeltaNumeric(instr, dict, key, &buf, Value{Type: ScalarInt32, Int32: 10}); err != nil {
		t.Fatal(err)
	}
	dict2 := NewDictionary()
	got, err := decodeDeltaNumeric(instr, dict2, key, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Int32 != 10 {
		t.Errorf("got %d, want 10", got.Int32)
	}

	// second value is a delta off the first
	var buf2 bytes.Buffer
	if err := encodeDeltaNumeric(instr, dict, key, &buf2, Value{Type: ScalarInt32, Int32: 7}); err != nil {
		t.Fatal(err)
	}
	got2, err := decodeDeltaNumeric(instr, dict2, key, &buf2)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Int32 != 7 {
		t.Errorf("got %d, want 7", got2.Int32)
	}
}
