package record

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

func TestMarshalKeepsInsertionOrder(t *testing.T) {
	inner := New()
	inner.Set("lat", 1.5)
	inner.Set("lng", -2.25)

	r := New()
	r.Set("zeta", "z")
	r.Set("alpha", int64(7))
	r.Set("nested", inner)
	r.Set("list", []any{"a", true})

	got, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	want := `{"zeta":"z","alpha":7,"nested":{"lat":1.5,"lng":-2.25},"list":["a",true]}`
	if string(got) != want {
		t.Errorf("unexpected JSON\nwant %s\ngot  %s", want, got)
	}
}

func TestSetExistingKeyKeepsPosition(t *testing.T) {
	r := New()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 3)

	if diff := cmp.Diff([]string{"a", "b"}, r.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := r.Get("a"); v != 3 {
		t.Errorf("expected overwritten value 3, got %v", v)
	}
}

func TestMapConvertsNestedRecords(t *testing.T) {
	inner := New()
	inner.Set("city", "Oslo")

	r := New()
	r.Set("address", inner)
	r.Set("tags", []any{inner})

	want := map[string]any{
		"address": map[string]any{"city": "Oslo"},
		"tags":    []any{map[string]any{"city": "Oslo"}},
	}
	if diff := cmp.Diff(want, r.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyRecordMarshalsToEmptyObject(t *testing.T) {
	got, err := json.Marshal([]*Record{New(), New()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `[{},{}]` {
		t.Errorf("expected [{},{}], got %s", got)
	}
}
