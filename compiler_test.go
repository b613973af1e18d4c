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
	"strings"
	"testing"
)

const compilerTestXML = `<templates>
  <template name="quote" id="1">
    <uInt32 name="seq" id="1"><copy/></uInt32>
    <string name="symbol" id="2" presence="optional"><constant value="USD"/></string>
    <decimal name="price" id="3"><delta/></decimal>
  </template>
</templates>`

const compilerTestYAML = `
templates:
  - id: 1
    name: quote
    fields:
      - name: seq
        type: uInt32
        op: copy
      - name: symbol
        type: string
        optional: true
        op: constant
        initial: {type: 5, text: USD}
      - name: price
        type: decimal
        op: delta
`

func TestCompileXMLProducesExpectedInstructions(t *testing.T) {
	set, err := Compile(strings.NewReader(compilerTestXML))
	if err != nil {
		t.Fatal(err)
	}
	tmpl, ok := set.ById(1)
	if !ok {
		t.Fatal("template 1 not found")
	}
	if tmpl.Name != "quote" || len(tmpl.Instructions) != 3 {
		t.Fatalf("got name=%q, %d instructions", tmpl.Name, len(tmpl.Instructions))
	}
	if tmpl.Instructions[0].Op != OpCopy || tmpl.Instructions[0].ScalarType != ScalarUInt32 {
		t.Errorf("seq: got op=%v type=%v", tmpl.Instructions[0].Op, tmpl.Instructions[0].ScalarType)
	}
	if tmpl.Instructions[1].Op != OpConstant || !tmpl.Instructions[1].Optional {
		t.Errorf("symbol: got op=%v optional=%v", tmpl.Instructions[1].Op, tmpl.Instructions[1].Optional)
	}
	if tmpl.Instructions[1].Initial == nil || tmpl.Instructions[1].Initial.Text != "USD" {
		t.Errorf("symbol: got initial=%v", tmpl.Instructions[1].Initial)
	}
	if tmpl.Instructions[2].Op != OpDelta || tmpl.Instructions[2].ScalarType != ScalarDecimal {
		t.Errorf("price: got op=%v type=%v", tmpl.Instructions[2].Op, tmpl.Instructions[2].ScalarType)
	}
}

func TestCompileYAMLMatchesCompileXML(t *testing.T) {
	xmlSet, err := Compile(strings.NewReader(compilerTestXML))
	if err != nil {
		t.Fatal(err)
	}
	yamlSet, err := CompileYAML(strings.NewReader(compilerTestYAML))
	if err != nil {
		t.Fatal(err)
	}

	xmlTmpl, _ := xmlSet.ById(1)
	yamlTmpl, ok := yamlSet.ById(1)
	if !ok {
		t.Fatal("template 1 not found in yaml-compiled set")
	}
	if yamlTmpl.Name != xmlTmpl.Name {
		t.Errorf("name: got %q, want %q", yamlTmpl.Name, xmlTmpl.Name)
	}
	if len(yamlTmpl.Instructions) != len(xmlTmpl.Instructions) {
		t.Fatalf("got %d instructions, want %d", len(yamlTmpl.Instructions), len(xmlTmpl.Instructions))
	}
	for i := range xmlTmpl.Instructions {
		x, y := xmlTmpl.Instructions[i], yamlTmpl.Instructions[i]
		if x.Name != y.Name || x.Op != y.Op || x.ScalarType != y.ScalarType || x.Optional != y.Optional {
			t.Errorf("instruction %d: xml=%+v yaml=%+v", i, x, y)
		}
	}
}

func TestCompileYAMLSequenceSynthesizesLength(t *testing.T) {
	doc := `
templates:
  - id: 2
    name: withSeq
    fields:
      - kind: sequence
        name: items
        fields:
          - name: value
            type: uInt32
`
	set, err := CompileYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	tmpl, ok := set.ById(2)
	if !ok {
		t.Fatal("template 2 not found")
	}
	if len(tmpl.Instructions) != 1 || tmpl.Instructions[0].Kind != InstructionSequence {
		t.Fatal("expected a single sequence instruction")
	}
	seq := tmpl.Instructions[0]
	if seq.Length == nil || seq.Length.Name != "items.length" {
		t.Errorf("got length=%v, want synthesized items.length", seq.Length)
	}
	if len(seq.Children) != 1 || seq.Children[0].Name != "value" {
		t.Errorf("got children=%v", seq.Children)
	}
}
