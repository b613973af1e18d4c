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

func TestPMAPBuilderTrimsTrailingBits(t *testing.T) {
	b := NewPMAPBuilder()
	b.Set(true)
	b.Set(false)
	b.Set(false)
	got := b.Bytes()
	want := []byte{0xC0} // trailing false bits trimmed, leaving just bit 0 set, plus the stop bit
	if !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestPMAPBuilderEmpty(t *testing.T) {
	b := NewPMAPBuilder()
	got := b.Bytes()
	if !bytes.Equal(got, []byte{0x80}) {
		t.Errorf("empty pmap: got % x, want 80", got)
	}
}

func TestPMAPRoundTrip(t *testing.T) {
	b := NewPMAPBuilder()
	bits := []bool{true, false, true, true, false, false, true, true, false}
	for _, bit := range bits {
		b.Set(bit)
	}
	var buf bytes.Buffer
	if err := b.WritePMAP(&buf); err != nil {
		t.Fatal(err)
	}
	p, err := ReadPMAP(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i, bit := range bits {
		if got := p.Next(); got != bit {
			t.Errorf("bit %d: got %v, want %v", i, got, bit)
		}
	}
	// past the end of the map, further reads default false
	if p.Next() {
		t.Error("expected false past end of pmap")
	}
}

func TestPMAPNextPastEndDefaultsFalse(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(0x80) // stop bit only, no set bits
	p, err := ReadPMAP(&buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		if p.Next() {
			t.Fatalf("bit %d: expected false", i)
		}
	}
}
