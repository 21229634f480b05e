package scope

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluateChain(t *testing.T) {
	a := script(t, "a", nil, "x = 1")
	b := script(t, "b", []string{"x"}, "y = x + 1")

	got, err := EvaluateChain([]*Scope{a, b}, nil, map[string]any{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"x": 1, "y": 2}, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
}

func TestEvaluateChain_LaterScopeWins(t *testing.T) {
	a := script(t, "a", nil, "x = 1; only_a = true")
	b := script(t, "b", nil, `x = "b"`)

	got, err := EvaluateChain([]*Scope{a, b}, nil, map[string]any{"kept": 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"x": "b", "only_a": true, "kept": 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
}

func TestEvaluateChain_FixedWinsEverywhere(t *testing.T) {
	a := script(t, "a", nil, "x = 1; y = x * 10")
	b := script(t, "b", []string{"y"}, "x = 2; z = y + x")

	got, err := EvaluateChain([]*Scope{a, b}, map[string]any{"x": 5}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"x": 5, "y": 50, "z": 55}, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
}

func TestEvaluateChain_FallbackIsSharedButNotMerged(t *testing.T) {
	a := script(t, "a", []string{"pool"}, "n = len(pool)")
	b := script(t, "b", []string{"pool", "n"}, "m = n + len(pool)")

	got, err := EvaluateChain([]*Scope{a, b}, nil, nil, map[string]any{"pool": []any{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"n": 2, "m": 4}, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
}

func TestEvaluateChain_ErrorAborts(t *testing.T) {
	ran := false
	a := script(t, "a", []string{"missing"}, "")
	b := Must("b", nil, BodyFunc(func(*Env) error { ran = true; return nil }))

	_, err := EvaluateChain([]*Scope{a, b}, nil, nil, nil)

	var mb *MissingBindingError
	if !errors.As(err, &mb) || mb.Scope != "a" {
		t.Errorf("got error %v, want a missing binding in a", err)
	}
	if ran {
		t.Errorf("scope after the failing one was evaluated")
	}
}

func TestEvaluateChain_DoesNotModifyPreset(t *testing.T) {
	preset := map[string]any{"net": map[string]any{"h": 1}}
	a := script(t, "a", []string{"net"}, "net.h = 2")

	got, err := EvaluateChain([]*Scope{a}, nil, preset, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"net": map[string]any{"h": 2}}, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"net": map[string]any{"h": 1}}, preset); diff != "" {
		t.Errorf("preset changed (-want +got):\n%s", diff)
	}
}

func TestEvaluateChain_Empty(t *testing.T) {
	got, err := EvaluateChain(nil, nil, map[string]any{"a": int64(1)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"a": 1}, got); diff != "" {
		t.Errorf("merged (-want +got):\n%s", diff)
	}
}
