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

// MessageFactory receives decode events from the descent engine, in the
// order spec §4.F bracketss them: one StartTemplate/StopTemplate pair per
// message, matched StartGroup/StopGroup and StartSequence/.../StopSequence
// pairs for nested structure, and one SetValue per scalar field (including
// each leaf of an atomically-operated decimal, represented as a single
// Decimal-typed Value).
type MessageFactory interface {
	StartTemplate(id uint32, name string)
	SetValue(id uint32, name string, v Value)
	StartSequence(id uint32, name string, length uint32)
	StartSequenceItem(index int)
	StopSequenceItem()
	StopSequence()
	StartGroup(name string)
	StopGroup()
	StartTemplateRef(name string, dynamic bool)
	StopTemplateRef()
	StopTemplate()
}

// MessageSource supplies encode events: the caller walks its own
// application structure and issues the same calls a MessageFactory would
// receive, driving Encoder.Encode. A sequence's length is not requested
// separately: it is the Value returned for its synthesized length field's
// name (Null for an absent optional sequence), exactly like any other
// scalar, and the encoder then issues that many EnterSequenceItem calls.
type MessageSource interface {
	NextValue(name string) (Value, error)
	EnterGroup(name string) (present bool, err error)
	LeaveGroup()
	EnterSequenceItem(index int) error
	LeaveSequenceItem()
	// EnterTemplateRef is called for both static and dynamic references.
	// For a static reference the returned id is ignored. For a dynamic
	// reference it selects which compiled template to descend into.
	EnterTemplateRef(name string, dynamic bool) (templateId uint32, err error)
	LeaveTemplateRef()
}
