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

// DecoderOptions configures a Decoder's tolerance for wire deviations.
type DecoderOptions struct {
	// RequireTemplateId rejects a message that omits the envelope's
	// template id rather than falling back to the previously selected
	// template.
	RequireTemplateId bool
}

var DefaultDecoderOptions = DecoderOptions{
	RequireTemplateId: false,
}

func (o *DecoderOptions) Merge(opts ...DecoderOptions) {
	for _, opt := range opts {
		o.RequireTemplateId = o.RequireTemplateId || opt.RequireTemplateId
	}
}

// EncoderOptions configures an Encoder's output conventions.
type EncoderOptions struct {
	// ElideRepeatedTemplateId opts into omitting the envelope's template id
	// when the outgoing message reuses the previously encoded template,
	// instead of writing it on every message.
	ElideRepeatedTemplateId bool
}

var DefaultEncoderOptions = EncoderOptions{
	ElideRepeatedTemplateId: false,
}

func (o *EncoderOptions) Merge(opts ...EncoderOptions) {
	for _, opt := range opts {
		o.ElideRepeatedTemplateId = o.ElideRepeatedTemplateId || opt.ElideRepeatedTemplateId
	}
}
