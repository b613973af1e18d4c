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
	"context"
	"io"
	"time"
)

// Decoder holds a compiled template set and the session dictionaries that
// copy/increment/delta/tail read and write across messages, per spec §4.G.
// A Decoder is not safe for concurrent use: Dictionary keeps no lock, and
// lastTemplateId is session state shared across Decode calls.
type Decoder struct {
	templates      *TemplateSet
	dict           *Dictionary
	options        DecoderOptions
	lastTemplateId *uint32
}

// NewDecoder compiles a template-definition document and returns a Decoder
// ready to decode messages against it.
func NewDecoder(r io.Reader, opts ...DecoderOptions) (*Decoder, error) {
	set, err := Compile(r)
	if err != nil {
		return nil, err
	}
	options := DefaultDecoderOptions
	options.Merge(opts...)
	return &Decoder{
		templates: set,
		dict:      NewDictionary(),
		options:   options,
	}, nil
}

// Decode reads exactly one top-level message from payload into factory.
// Per spec §4.F, the message starts with a single presence map shared by the
// envelope and the selected template's own fields: bit 0 says whether a
// template id follows (an absent id reuses the previously selected
// template, letting a run of same-template messages elide it), and bits
// 1..N are that template's field presence bits, consumed in declaration
// order from the same bitstream.
func (d *Decoder) Decode(ctx context.Context, payload *bytes.Buffer, factory MessageFactory) (err error) {
	start := time.Now()
	log := FromContext(ctx)
	defer func() {
		DecodeDurationMicroseconds.Observe(float64(time.Since(start).Nanoseconds()) / 1000)
		MessagesDecodedTotal.Inc()
		if err != nil {
			DecodeErrorsTotal.Inc()
			log.Error(err, "failed to decode message")
		}
	}()

	return d.decode(payload, factory)
}

// DecodeStream is Decode's counterpart for an arbitrary io.Reader rather
// than a buffer the caller has already sized to one message.
func (d *Decoder) DecodeStream(ctx context.Context, r io.Reader, factory MessageFactory) (err error) {
	start := time.Now()
	log := FromContext(ctx)
	defer func() {
		DecodeDurationMicroseconds.Observe(float64(time.Since(start).Nanoseconds()) / 1000)
		MessagesDecodedTotal.Inc()
		if err != nil {
			DecodeErrorsTotal.Inc()
			log.Error(err, "failed to decode message")
		}
	}()

	return d.decode(r, factory)
}

func (d *Decoder) decode(r io.Reader, factory MessageFactory) error {
	pmap, err := ReadPMAP(r)
	if err != nil {
		return err
	}
	var id uint32
	if pmap.Next() {
		raw, _, err := readUnsigned(r, maxStopBitBytes32)
		if err != nil {
			return err
		}
		id = uint32(raw)
		d.lastTemplateId = &id
	} else {
		if d.lastTemplateId == nil || d.options.RequireTemplateId {
			return TemplateError("message omits template id with no previous template selected")
		}
		id = *d.lastTemplateId
	}

	t, ok := d.templates.ById(id)
	if !ok {
		return UnknownTemplate(id)
	}
	return decodeTemplateBodyWithPMAP(t, d.templates, d.dict, pmap, factory, r)
}

// Reset clears all dictionary state and forgets the last selected template
// id, per Testable Property 4.
func (d *Decoder) Reset() {
	d.dict.Reset()
	d.lastTemplateId = nil
	DictionaryResetsTotal.Inc()
}
