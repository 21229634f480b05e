package scope

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

func TestDict(t *testing.T) {
	tr := newTracker()
	d := newDict("", map[string]any{"seed": 1, "opt": map[string]any{"lr": 0.1}}, tr)

	d.SetKey("seed", 2)
	d.SetKey("b", map[string]any{"y": 1, "x": []any{1}})
	d.SetKey("opt", map[string]any{"lr": 1.0, "momentum": 0.9})

	if diff := cmp.Diff([]string{"b", "opt", "seed"}, d.Keys()); diff != "" {
		t.Errorf("Keys() (-want +got):\n%s", diff)
	}
	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Len())
	}
	if !d.IsPinned("seed") || d.IsPinned("b") {
		t.Errorf("IsPinned is wrong")
	}
	if v, _ := d.Index("seed"); v != 1 {
		t.Errorf("seed = %v, want 1", v)
	}
	b, _ := d.Index("b")
	if _, ok := b.(*Dict); !ok {
		t.Errorf("map value is stored as %T, want *Dict", b)
	}
	want := map[string]any{
		"b":    map[string]any{"x": []any{1}, "y": 1},
		"opt":  map[string]any{"lr": 0.1, "momentum": 0.9},
		"seed": 1,
	}
	if diff := cmp.Diff(want, vals.Copy(d)); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
	if got := vals.Repr(d); got != "{b: {x: [1], y: 1}, opt: {lr: 0.1, momentum: 0.9}, seed: 1}" {
		t.Errorf("Repr = %s", got)
	}
	if !vals.Equal(d, want) {
		t.Errorf("Dict is not equal to a map with the same content")
	}
}

func TestDict_StoresCopies(t *testing.T) {
	d := newDict("", nil, newTracker())
	l := []any{1, 2}
	m := map[string]any{"k": []any{"v"}}
	d.SetKey("l", l)
	d.SetKey("m", m)
	l[0] = 100
	m["k"].([]any)[0] = "changed"

	want := map[string]any{"l": []any{1, 2}, "m": map[string]any{"k": []any{"v"}}}
	if diff := cmp.Diff(want, vals.Copy(d)); diff != "" {
		t.Errorf("content (-want +got):\n%s", diff)
	}
}

func TestDict_Paths(t *testing.T) {
	tr := newTracker()
	d := newDict("", nil, tr)
	d.SetKey("a", map[string]any{"b": map[string]any{"c": 1}})
	d.SetKey("a", map[string]any{"b": map[string]any{"c": "one"}})

	want := map[string]TypeChange{"a.b.c": {"int", "string"}}
	if diff := cmp.Diff(want, tr.changes); diff != "" {
		t.Errorf("changes (-want +got):\n%s", diff)
	}
}
