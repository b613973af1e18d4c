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

func TestWriteReadUnsigned(t *testing.T) {
	cases := []uint64{0, 1, 63, 64, 127, 128, 16383, 16384, 0xFFFFFFFF}
	for _, v := range cases {
		var buf bytes.Buffer
		if _, err := writeUnsigned(&buf, v); err != nil {
			t.Fatalf("writeUnsigned(%d): %v", v, err)
		}
		got, n, err := readUnsigned(&buf, maxStopBitBytes10)
		if err != nil {
			t.Fatalf("readUnsigned(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip %d: got %d", v, got)
		}
		if n == 0 {
			t.Errorf("round-trip %d: read 0 bytes", v)
		}
	}
}

func TestWriteReadSigned(t *testing.T) {
	cases := []int64{0, 1, -1, 63, -64, 8191, -8192, 1 << 20, -(1 << 20)}
	for _, v := range cases {
		var buf bytes.Buffer
		if _, err := writeSigned(&buf, v); err != nil {
			t.Fatalf("writeSigned(%d): %v", v, err)
		}
		got, _, err := readSigned(&buf, maxStopBitBytes10)
		if err != nil {
			t.Fatalf("readSigned(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip %d: got %d", v, got)
		}
	}
}

func TestUnsignedOverflow(t *testing.T) {
	// 5 continuation bytes, stop bit only on the 6th: none within maxBytes=5
	buf := bytes.NewReader([]byte{0x01, 0x01, 0x01, 0x01, 0x01, 0x81})
	if _, _, err := readUnsigned(buf, maxStopBitBytes32); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestNullableUnsignedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if _, err := encodeNullableUnsigned(&buf, 41, false); err != nil {
		t.Fatal(err)
	}
	v, isNull, _, err := decodeNullableUnsigned(&buf, maxStopBitBytes32)
	if err != nil {
		t.Fatal(err)
	}
	if isNull || v != 41 {
		t.Errorf("got (%d, %v), want (41, false)", v, isNull)
	}

	buf.Reset()
	if _, err := encodeNullableUnsigned(&buf, 0, true); err != nil {
		t.Fatal(err)
	}
	_, isNull, _, err = decodeNullableUnsigned(&buf, maxStopBitBytes32)
	if err != nil {
		t.Fatal(err)
	}
	if !isNull {
		t.Error("expected null")
	}
}

func TestNullableSignedRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 100, -100} {
		var buf bytes.Buffer
		if _, err := encodeNullableSigned(&buf, v, false); err != nil {
			t.Fatal(err)
		}
		got, isNull, _, err := decodeNullableSigned(&buf, maxStopBitBytes10)
		if err != nil {
			t.Fatal(err)
		}
		if isNull || got != v {
			t.Errorf("round-trip %d: got (%d, %v)", v, got, isNull)
		}
	}

	var buf bytes.Buffer
	if _, err := encodeNullableSigned(&buf, 0, true); err != nil {
		t.Fatal(err)
	}
	_, isNull, _, err := decodeNullableSigned(&buf, maxStopBitBytes10)
	if err != nil {
		t.Fatal(err)
	}
	if !isNull {
		t.Error("expected null")
	}
}
