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

func TestDeltaBytesSharedPrefixGrowth(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarASCIIString, Op: OpDelta}
	codec := scalarCodecFor(ScalarASCIIString)
	dict := NewDictionary()
	key := instr.fieldKey("t")

	var buf bytes.Buffer
	if err := encodeDeltaBytes(instr, codec, dict, key, &buf, Value{Type: ScalarASCIIString, Text: "example"}); err != nil {
		t.Fatal(err)
	}
	dict2 := NewDictionary()
	got, err := decodeDeltaBytes(instr, codec, dict2, key, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "example" {
		t.Fatalf("got %q, want %q", got.Text, "example")
	}

	var buf2 bytes.Buffer
	if err := encodeDeltaBytes(instr, codec, dict, key, &buf2, Value{Type: ScalarASCIIString, Text: "examples"}); err != nil {
		t.Fatal(err)
	}
	got2, err := decodeDeltaBytes(instr, codec, dict2, key, &buf2)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Text != "examples" {
		t.Fatalf("got %q, want %q", got2.Text, "examples")
	}
}

func TestDeltaBytesHeadSubtraction(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarASCIIString, Op: OpDelta}
	dict := NewDictionary()
	key := instr.fieldKey("t")
	dict.Assign(key, Value{Type: ScalarASCIIString, Text: "worldwide"})

	n, suffix := computeSubtraction(ScalarASCIIString, Value{Type: ScalarASCIIString, Text: "worldwide"}, Value{Type: ScalarASCIIString, Text: "newworld"})
	rebuilt := spliceDelta(ScalarASCIIString, Value{Type: ScalarASCIIString, Text: "worldwide"}, n, suffix)
	if rebuilt.Text != "newworld" {
		t.Fatalf("spliceDelta(computeSubtraction(...)) = %q, want %q", rebuilt.Text, "newworld")
	}
}

func TestDeltaDecimalRoundTrip(t *testing.T) {
	instr := &Instruction{Name: "f", ScalarType: ScalarDecimal, Op: OpDelta}
	dict := NewDictionary()
	key := instr.fieldKey("t")

	var buf bytes.Buffer
	if err := encodeDeltaDecimal(instr, dict, key, &buf, Value{Type: ScalarDecimal, Exponent: -2, Mantissa: 12345}); err != nil {
		t.Fatal(err)
	}
	dict2 := NewDictionary()
	got, err := decodeDeltaDecimal(instr, dict2, key, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.Exponent != -2 || got.Mantissa != 12345 {
		t.Fatalf("got (%d, %d), want (-2, 12345)", got.Exponent, got.Mantissa)
	}

	var buf2 bytes.Buffer
	if err := encodeDeltaDecimal(instr, dict, key, &buf2, Value{Type: ScalarDecimal, Exponent: -1, Mantissa: 12300}); err != nil {
		t.Fatal(err)
	}
	got2, err := decodeDeltaDecimal(instr, dict2, key, &buf2)
	if err != nil {
		t.Fatal(err)
	}
	if got2.Exponent != -1 || got2.Mantissa != 12300 {
		t.Fatalf("got (%d, %d), want (-1, 12300)", got2.Exponent, got2.Mantissa)
	}
}
