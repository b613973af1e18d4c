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

// Encoder mirrors Decoder: a compiled template set plus the session
// dictionaries encodeScalar's operator engines read and write.
type Encoder struct {
	templates      *TemplateSet
	dict           *Dictionary
	options        EncoderOptions
	lastTemplateId *uint32
}

// NewEncoder compiles a template-definition document and returns an Encoder
// ready to encode messages against it.
func NewEncoder(r io.Reader, opts ...EncoderOptions) (*Encoder, error) {
	set, err := Compile(r)
	if err != nil {
		return nil, err
	}
	options := DefaultEncoderOptions
	options.Merge(opts...)
	return &Encoder{
		templates: set,
		dict:      NewDictionary(),
		options:   options,
	}, nil
}

// Encode drives source to supply one top-level message's field events and
// writes the resulting message to w, per spec §4.G. A single presence map
// is shared by the envelope and the template's own fields: bit 0 says
// whether a template id follows (elided when it matches the previously
// encoded message's template and options.ElideRepeatedTemplateId is set),
// and bits 1..N are the template's field presence bits in declaration
// order, exactly as Decoder.decode reads them back.
func (e *Encoder) Encode(ctx context.Context, templateId uint32, source MessageSource, w io.Writer) (err error) {
	start := time.Now()
	log := FromContext(ctx)
	defer func() {
		EncodeDurationMicroseconds.Observe(float64(time.Since(start).Nanoseconds()) / 1000)
		MessagesEncodedTotal.Inc()
		if err != nil {
			EncodeErrorsTotal.Inc()
			log.Error(err, "failed to encode message")
		}
	}()

	t, ok := e.templates.ById(templateId)
	if !ok {
		return UnknownTemplate(templateId)
	}

	writeId := !e.options.ElideRepeatedTemplateId || e.lastTemplateId == nil || *e.lastTemplateId != templateId
	pmapB := NewPMAPBuilder()
	pmapB.Set(writeId)

	var body bytes.Buffer
	if err := encodeInstructions(t.Instructions, t.Name, e.dict, pmapB, source, e.templates, &body); err != nil {
		return err
	}
	if err := pmapB.WritePMAP(w); err != nil {
		return err
	}
	if writeId {
		if _, err := writeUnsigned(w, uint64(templateId)); err != nil {
			return err
		}
	}
	e.lastTemplateId = &templateId

	_, err = w.Write(body.Bytes())
	return err
}

// Reset clears all dictionary state and forgets the last encoded template
// id, per Testable Property 4.
func (e *Encoder) Reset() {
	e.dict.Reset()
	e.lastTemplateId = nil
	DictionaryResetsTotal.Inc()
}
