package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodePreservesFieldOrder(t *testing.T) {
	s, err := Decode([]byte(`{
		"zeta":  {"type": "string"},
		"alpha": {"type": "integer", "min": 1, "max": 5},
		"mid":   {"type": "object", "schema": {"b": {"type": "boolean"}, "a": {"type": "uuid"}}}
	}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, s.Names()); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}

	mid := s[2].Spec
	obj, ok := mid.(*ObjectSpec)
	if !ok {
		t.Fatalf("Expected *ObjectSpec, got %T", mid)
	}
	if diff := cmp.Diff([]string{"b", "a"}, obj.Fields.Names()); diff != "" {
		t.Errorf("nested field order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeTypedConstraints(t *testing.T) {
	s, err := Decode([]byte(`{
		"age":   {"type": "integer", "min": 18, "max": 65, "unique": true},
		"score": {"type": "float", "min": 0.5},
		"born":  {"type": "date", "min": "1990-01-01", "max": "1999-12-31"},
		"code":  {"type": "string", "regex": "[A-Z]{3}"},
		"tags":  {"type": "array", "length": 2, "items": {"type": "enum", "enum": ["a", "b"]}}
	}`))
	if err == nil {
		t.Fatalf("Expected enum as a type token to be unsupported, got schema %v", s)
	}
	var unsupported *UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected UnsupportedTypeError, got %v", err)
	}
	if unsupported.Path != "tags[]" {
		t.Errorf("Expected path tags[], got %q", unsupported.Path)
	}

	s, err = Decode([]byte(`{
		"age":   {"type": "integer", "min": 18, "max": 65, "unique": true},
		"score": {"type": "float", "min": 0.5},
		"born":  {"type": "date", "min": "1990-01-01", "max": "1999-12-31"},
		"code":  {"type": "string", "regex": "[A-Z]{3}"},
		"tags":  {"type": "array", "length": 2, "items": {"type": "string", "enum": ["a", "b"]}}
	}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	age := s[0].Spec.(*IntegerSpec)
	if *age.Min != 18 || *age.Max != 65 || !age.Unique {
		t.Errorf("Unexpected integer spec: min=%d max=%d unique=%v", *age.Min, *age.Max, age.Unique)
	}

	score := s[1].Spec.(*FloatSpec)
	if score.Min == nil || *score.Min != 0.5 || score.Max != nil {
		t.Errorf("Unexpected float bounds: %v %v", score.Min, score.Max)
	}

	born := s[2].Spec.(*DateSpec)
	if got := born.Min.Format(DateLayout); got != "1990-01-01" {
		t.Errorf("Expected date min 1990-01-01, got %s", got)
	}

	code := s[3].Spec.(*StringSpec)
	if code.Regex != "[A-Z]{3}" {
		t.Errorf("Expected regex [A-Z]{3}, got %q", code.Regex)
	}

	tags := s[4].Spec.(*ArraySpec)
	if tags.Length == nil || *tags.Length != 2 {
		t.Errorf("Expected array length 2, got %v", tags.Length)
	}
	if diff := cmp.Diff([]any{"a", "b"}, tags.Items.Base().Enum); diff != "" {
		t.Errorf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
		path   string
	}{
		{"not an object", `[1, 2]`, ErrSchema, ""},
		{"malformed json", `{"a": `, ErrSchema, ""},
		{"missing type", `{"a": {"min": 1}}`, ErrSchema, "a"},
		{"spec not an object", `{"a": "string"}`, ErrSchema, "a"},
		{"unknown type", `{"a": {"type": "currency"}}`, ErrUnsupportedType, "a"},
		{"integer range", `{"a": {"type": "integer", "min": 10, "max": 1}}`, ErrInvalidRange, "a"},
		{"float range", `{"a": {"type": "float", "min": 2.5, "max": 1.5}}`, ErrInvalidRange, "a"},
		{"date range", `{"a": {"type": "date", "min": "2020-01-02", "max": "2020-01-01"}}`, ErrInvalidRange, "a"},
		{"bad date", `{"a": {"type": "date", "min": "01/02/2020"}}`, ErrSchema, "a"},
		{"fractional integer bound", `{"a": {"type": "integer", "min": 1.5}}`, ErrSchema, "a"},
		{"bad regex", `{"a": {"type": "string", "regex": "[a-"}}`, ErrSchema, "a"},
		{"empty enum", `{"a": {"type": "string", "enum": []}}`, ErrSchema, "a"},
		{"array without items", `{"a": {"type": "array", "length": 2}}`, ErrSchema, "a"},
		{"negative length", `{"a": {"type": "array", "length": -1, "items": {"type": "name"}}}`, ErrSchema, "a"},
		{"object without schema", `{"a": {"type": "object"}}`, ErrSchema, "a"},
		{"unique array", `{"a": {"type": "array", "unique": true, "items": {"type": "uuid"}}}`, ErrSchema, "a"},
		{"nested unknown type", `{"a": {"type": "object", "schema": {"b": {"type": "array", "items": {"type": "nope"}}}}}`, ErrUnsupportedType, "a.b[]"},
		{"duplicate field", `{"a": {"type": "name"}, "a": {"type": "email"}}`, ErrSchema, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			if err == nil {
				t.Fatal("Expected an error, got nil")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("Expected error matching %v, got %v", tt.target, err)
			}
			if got := errorPath(err); got != tt.path {
				t.Errorf("Expected error path %q, got %q", tt.path, got)
			}
		})
	}
}

func TestInvalidRangeIsSchemaError(t *testing.T) {
	_, err := Decode([]byte(`{"n": {"type": "integer", "min": 5, "max": 4}}`))
	if !errors.Is(err, ErrSchema) {
		t.Errorf("Expected invalid range to match ErrSchema, got %v", err)
	}
	want := "invalid range at n: integer min 5 is greater than max 4"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestDecodeEqualBoundsAllowed(t *testing.T) {
	_, err := Decode([]byte(`{
		"i": {"type": "integer", "min": 7, "max": 7},
		"d": {"type": "date", "min": "2024-02-29", "max": "2024-02-29"}
	}`))
	if err != nil {
		t.Errorf("Expected equal bounds to be accepted, got %v", err)
	}
}

func TestDecodeEmptySchema(t *testing.T) {
	s, err := Decode([]byte(`{}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(s) != 0 {
		t.Errorf("Expected no fields, got %d", len(s))
	}
}

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest([]byte(`{"schema": {"id": {"type": "uuid"}}, "count": 3}`))
	if err != nil {
		t.Fatalf("DecodeRequest failed: %v", err)
	}
	if req.Count != 3 || len(req.Schema) != 1 {
		t.Errorf("Unexpected request: count=%d fields=%d", req.Count, len(req.Schema))
	}

	req, err = DecodeRequest([]byte(`{"schema": {}}`))
	if err != nil {
		t.Fatalf("DecodeRequest failed: %v", err)
	}
	if req.Count != DefaultCount {
		t.Errorf("Expected default count %d, got %d", DefaultCount, req.Count)
	}

	if _, err := DecodeRequest([]byte(`{"count": 2}`)); !errors.Is(err, ErrSchema) {
		t.Errorf("Expected missing schema to be a schema error, got %v", err)
	}
	if _, err := DecodeRequest([]byte(`{"schema": {}, "count": "two"}`)); !errors.Is(err, ErrSchema) {
		t.Errorf("Expected non-numeric count to be a schema error, got %v", err)
	}
}

func TestPathRendering(t *testing.T) {
	p := Path{}.Field("orders").Index(2).Field("items").Index(0).Field("sku")

	if got := p.String(); got != "orders[2].items[0].sku" {
		t.Errorf("Expected orders[2].items[0].sku, got %s", got)
	}
	if got := p.Key(); got != "orders[].items[].sku" {
		t.Errorf("Expected orders[].items[].sku, got %s", got)
	}

	base := Path{}.Field("a")
	left := base.Field("b")
	right := base.Field("c")
	if left.String() != "a.b" || right.String() != "a.c" {
		t.Errorf("Expected sibling paths to be independent, got %s and %s", left, right)
	}
	if (Path{}).String() != "" {
		t.Errorf("Expected the root path to render empty, got %q", Path{}.String())
	}
}

func errorPath(err error) string {
	var schemaErr *SchemaError
	var rangeErr *InvalidRangeError
	var typeErr *UnsupportedTypeError
	switch {
	case errors.As(err, &rangeErr):
		return rangeErr.Path
	case errors.As(err, &typeErr):
		return typeErr.Path
	case errors.As(err, &schemaErr):
		return schemaErr.Path
	}
	return ""
}
