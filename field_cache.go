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

import "fmt"

// EntryState is a dictionary entry's lifecycle state, per spec §4.D.
type EntryState int

const (
	StateUndefined EntryState = iota
	StateEmpty
	StateAssigned
)

func (s EntryState) String() string {
	switch s {
	case StateUndefined:
		return "undefined"
	case StateEmpty:
		return "empty"
	case StateAssigned:
		return "assigned"
	default:
		return fmt.Sprintf("EntryState(%d)", int(s))
	}
}

// DictionaryScope names which of the four dictionary scopes a key belongs
// to, per spec §4.D.
type DictionaryScope int

const (
	ScopeGlobal DictionaryScope = iota
	ScopeTemplate
	ScopeType
	ScopeUser
)

func (s DictionaryScope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeTemplate:
		return "template"
	case ScopeType:
		return "type"
	case ScopeUser:
		return "user"
	default:
		return fmt.Sprintf("DictionaryScope(%d)", int(s))
	}
}

// DictionaryKey identifies one remembered prior value. Name is the
// template name, type name, or user dictionary name that scopes the
// lookup; it is empty for ScopeGlobal. Field is the field's declared key
// within that scope.
type DictionaryKey struct {
	Scope DictionaryScope
	Name  string
	Field string
}

func (k DictionaryKey) String() string {
	if k.Scope == ScopeGlobal {
		return fmt.Sprintf("%s/%s", k.Scope, k.Field)
	}
	return fmt.Sprintf("%s:%s/%s", k.Scope, k.Name, k.Field)
}

type dictionaryEntry struct {
	state EntryState
	value Value
}

// Dictionary is the session-scoped prior-value store that copy, increment,
// delta, and tail read from and write to, per spec §4.D.
//
// Unlike the teacher's FieldCache/TemplateCache, Dictionary holds no mutex:
// concurrent use of a single codec instance is explicitly out of scope, so
// there is nothing here for a lock to protect.
type Dictionary struct {
	entries map[DictionaryKey]*dictionaryEntry
}

// NewDictionary returns an empty dictionary with every key implicitly
// Undefined.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[DictionaryKey]*dictionaryEntry)}
}

// Lookup returns the remembered value and state for key. A key never
// written to reports StateUndefined with a zero Value.
func (d *Dictionary) Lookup(key DictionaryKey) (Value, EntryState) {
	e, ok := d.entries[key]
	if !ok {
		return Value{}, StateUndefined
	}
	return e.value, e.state
}

// Assign records v as key's new prior value, moving it to StateAssigned.
func (d *Dictionary) Assign(key DictionaryKey, v Value) {
	d.entries[key] = &dictionaryEntry{state: StateAssigned, value: v}
}

// SetEmpty moves key to StateEmpty, used when an optional field's operator
// observes an explicit null.
func (d *Dictionary) SetEmpty(key DictionaryKey) {
	d.entries[key] = &dictionaryEntry{state: StateEmpty}
}

// Reset clears every entry back to StateUndefined, per Testable Property 4
// (Decoder.Reset/Encoder.Reset).
func (d *Dictionary) Reset() {
	d.entries = make(map[DictionaryKey]*dictionaryEntry)
}
