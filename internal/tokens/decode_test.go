package tokens

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeColorDefinition(t *testing.T) {
	root, err := Decode([]byte(`{
		"brand": {
			"primary": {"$type": "color", "$value": "#13BC90", "$description": "Brand green"},
			"meta": {"$type": "dimension", "$value": "4px"}
		}
	}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	brand, ok := root.Child("brand")
	if !ok || brand.Kind != KindMapping {
		t.Fatalf("expected brand mapping, got %+v", brand)
	}

	primary, _ := brand.Child("primary")
	def, ok := primary.Color()
	if !ok {
		t.Fatalf("expected primary to be a color leaf, got %s", primary.Kind)
	}
	if def.Value != "#13BC90" || def.Type != "color" || def.Description != "Brand green" {
		t.Fatalf("unexpected definition: %+v", def)
	}

	meta, _ := brand.Child("meta")
	if meta.Kind != KindMapping {
		t.Fatalf("non-color $type should decode as mapping, got %s", meta.Kind)
	}
}

func TestDecodeNonStringValueIsMapping(t *testing.T) {
	root, err := Decode([]byte(`{"a": {"$type": "color", "$value": 12}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	a, _ := root.Child("a")
	if a.Kind != KindMapping {
		t.Fatalf("expected mapping, got %s", a.Kind)
	}
	if got := a.Len(); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
}

func TestDecodeScalarsAndSequences(t *testing.T) {
	root, err := Decode([]byte(`{"s": "x", "n": 1.5, "b": true, "z": null, "list": [1, {"k": "v"}, []]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	tests := []struct {
		key  string
		want any
	}{
		{key: "s", want: "x"},
		{key: "n", want: json.Number("1.5")},
		{key: "b", want: true},
		{key: "z", want: nil},
	}
	for _, tt := range tests {
		node, ok := root.Child(tt.key)
		if !ok || node.Kind != KindScalar {
			t.Fatalf("%s: expected scalar, got %+v", tt.key, node)
		}
		if node.Scalar() != tt.want {
			t.Fatalf("%s: got %v, want %v", tt.key, node.Scalar(), tt.want)
		}
	}

	list, _ := root.Child("list")
	if list.Kind != KindSequence || len(list.Items()) != 3 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list.Items()[1].Kind != KindMapping || list.Items()[2].Kind != KindSequence {
		t.Fatalf("unexpected list element kinds")
	}
}

func TestDecodeOutOfRangeNumber(t *testing.T) {
	root, err := Decode([]byte(`{"big": 1e400, "neg": -1e400, "c": {"$type": "color", "$value": "#ABCDEF"}, "esc": "a\"b\u00e9"}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	big, _ := root.Child("big")
	if big.Scalar() != json.Number("1e400") {
		t.Fatalf("big = %v", big.Scalar())
	}
	neg, _ := root.Child("neg")
	if neg.Scalar() != json.Number("-1e400") {
		t.Fatalf("neg = %v", neg.Scalar())
	}
	esc, _ := root.Child("esc")
	if esc.Scalar() != "a\"b\u00e9" {
		t.Fatalf("esc = %q", esc.Scalar())
	}
	c, _ := root.Child("c")
	if v, ok := c.Value(); !ok || v != "#ABCDEF" {
		t.Fatalf("color leaf lost next to big number: %q %v", v, ok)
	}
}

func TestDecodeKeepsDocumentOrder(t *testing.T) {
	root, err := Decode([]byte(`{"zeta": 1, "alpha": 2, "mid": 3, "alpha": 4}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	keys := root.Keys()
	want := []string{"zeta", "alpha", "mid"}
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	alpha, _ := root.Child("alpha")
	if alpha.Scalar() != json.Number("4") {
		t.Fatalf("duplicate key should keep last value, got %v", alpha.Scalar())
	}
}

func TestDecodeMalformed(t *testing.T) {
	inputs := []string{
		``,
		`{`,
		`{"a": }`,
		`{"a": 1} trailing`,
		`{"a" 1}`,
		`[1, 2`,
	}
	for _, in := range inputs {
		if _, err := Decode([]byte(in)); !errors.Is(err, ErrMalformedSource) {
			t.Fatalf("Decode(%q) error = %v, want ErrMalformedSource", in, err)
		}
	}
}
