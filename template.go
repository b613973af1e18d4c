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

// Template is a compiled, immutable field tree for one message type, per
// spec §4.C. Templates are built once by Compile (from XML) and reused for
// the lifetime of a Decoder/Encoder session.
type Template struct {
	Id           uint32
	Name         string
	Instructions []*Instruction
}

// TemplateSet is the immutable, compile-time-built registry of templates a
// Decoder or Encoder session holds, keyed by template id.
type TemplateSet struct {
	byId   map[uint32]*Template
	byName map[string]*Template
}

func newTemplateSet() *TemplateSet {
	return &TemplateSet{
		byId:   make(map[uint32]*Template),
		byName: make(map[string]*Template),
	}
}

func (s *TemplateSet) add(t *Template) {
	s.byId[t.Id] = t
	s.byName[t.Name] = t
}

// ById looks up a compiled template by id, for dynamic template-ref
// resolution and top-level message dispatch.
func (s *TemplateSet) ById(id uint32) (*Template, bool) {
	t, ok := s.byId[id]
	return t, ok
}

// ByName looks up a compiled template by name, used by static template
// refs during compilation.
func (s *TemplateSet) ByName(name string) (*Template, bool) {
	t, ok := s.byName[name]
	return t, ok
}
