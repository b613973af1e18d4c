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
	"errors"
	"fmt"
)

// Sentinel errors for the FAST error kinds in spec §7. Use errors.Is against
// these; the constructor functions below wrap them with contextual detail.
var (
	ErrEof                  error = errors.New("fast: input exhausted mid-field")
	ErrOverflow             error = errors.New("fast: value exceeds declared width")
	ErrUnexpected           error = errors.New("fast: wire content violates primitive rules")
	ErrMissingPreviousValue error = errors.New("fast: dictionary inference failed for a mandatory field")
	ErrMissingInitial       error = errors.New("fast: operator requires an initial value but none was supplied")
	ErrTemplate             error = errors.New("fast: template definition is invalid")
	ErrDynamic              error = errors.New("fast: message factory/source violated the active instruction")
	ErrIo                   error = errors.New("fast: underlying stream failed")
)

// Eof reports that the input stream was exhausted while decoding the named
// primitive.
func Eof(where string) error {
	return fmt.Errorf("%w: %s", ErrEof, where)
}

// Overflow reports that a stop-bit integer exceeded its maximum legal byte
// length for the declared width.
func Overflow(maxBytes int) error {
	return fmt.Errorf("%w: stop-bit sequence exceeds %d bytes", ErrOverflow, maxBytes)
}

// Unexpected reports malformed wire content, e.g. an overlong null/empty
// string sequence.
func Unexpected(msg string) error {
	return fmt.Errorf("%w: %s", ErrUnexpected, msg)
}

// MissingPreviousValue reports that a mandatory field's operator required a
// prior dictionary value that was Undefined or Empty, and no initial value
// was declared to fall back on.
func MissingPreviousValue(templateName, fieldName string) error {
	return fmt.Errorf("%w: field %q in template %q has no prior value and no initial", ErrMissingPreviousValue, fieldName, templateName)
}

// MissingInitial reports that an operator (constant, or default on a
// mandatory field) required an initial value that the template did not
// declare.
func MissingInitial(fieldName string) error {
	return fmt.Errorf("%w: field %q", ErrMissingInitial, fieldName)
}

// TemplateError reports a template-compile-time failure: malformed XML, an
// unknown template id referenced statically, an illegal operator/type
// pairing, or a reference cycle.
func TemplateError(msg string) error {
	return fmt.Errorf("%w: %s", ErrTemplate, msg)
}

// DynamicError reports a runtime semantic error raised by the message
// factory or message source, e.g. emitting a value for a field that is not
// the one the descent engine currently expects.
func DynamicError(msg string) error {
	return fmt.Errorf("%w: %s", ErrDynamic, msg)
}

// IoError wraps an error surfaced by the caller-supplied io.Reader/io.Writer.
func IoError(err error) error {
	return fmt.Errorf("%w: %v", ErrIo, err)
}

// UnknownTemplate reports that a dynamic template reference or top-level
// message selected a template id with no compiled definition.
func UnknownTemplate(id uint32) error {
	return fmt.Errorf("%w: unknown template id %d", ErrTemplate, id)
}

// IncompatibleOperator reports an operator declared on a scalar type that
// does not support it, per the compatibility matrix in spec §4.C.
func IncompatibleOperator(op, typ string) error {
	return fmt.Errorf("%w: operator %q is not compatible with type %q", ErrTemplate, op, typ)
}
