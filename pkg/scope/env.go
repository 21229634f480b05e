package scope

import (
	"sort"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/eval"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// Env is the namespace a scope body runs against. It implements
// eval.Namespace.
//
// An Env is created for one evaluation and must not be used after the
// evaluation is done.
type Env struct {
	root     *Dict
	fallback map[string]any
	// Union of fixed and preset when the Env was created.
	start map[string]any
	tr    *tracker
}

var _ eval.Namespace = (*Env)(nil)

// Creates an Env with the fixed values pinned. Both arguments must be
// normalized plain maps.
func newEnv(fixed, preset map[string]any) *Env {
	tr := newTracker()
	tr.seed("", preset)
	tr.seed("", fixed)
	return &Env{
		root:     newDict("", fixed, tr),
		fallback: map[string]any{},
		start:    deepMerge(vals.CopyMap(preset), fixed),
		tr:       tr,
	}
}

// Get returns the value of a name. Fixed and written values take precedence
// over the fallback view. Maps are returned as a *Dict.
func (env *Env) Get(name string) (any, error) {
	if v, ok := env.root.Index(name); ok {
		return v, nil
	}
	if v, ok := env.fallback[name]; ok {
		return v, nil
	}
	return nil, &NameNotFoundError{Name: name}
}

// Set assigns a name. Writes to fixed names are ignored; see Dict.SetKey.
func (env *Env) Set(name string, v any) error {
	env.root.SetKey(name, v)
	return nil
}

// Root returns the Dict holding the fixed and written values.
func (env *Env) Root() *Dict { return env.root }

// AddedValues returns the sorted keys present now that were absent from both
// the fixed values and the preset when the Env was created. Keys inside maps
// that existed before are dotted paths, like "net.hidden".
func (env *Env) AddedValues() []string {
	var added []string
	addedKeys(env.root, env.start, &added)
	sort.Strings(added)
	return added
}

func addedKeys(d *Dict, start map[string]any, added *[]string) {
	for _, k := range d.Keys() {
		sv, ok := start[k]
		if !ok {
			*added = append(*added, joinPath(d.path, k))
			continue
		}
		child, isDict := d.values[k].(*Dict)
		sm, isMap := sv.(map[string]any)
		if isDict && isMap {
			addedKeys(child, sm, added)
		}
	}
}

// TypeChanges returns the type changes recorded so far, keyed by dotted
// paths.
func (env *Env) TypeChanges() map[string]TypeChange {
	changes := make(map[string]TypeChange, len(env.tr.changes))
	for k, c := range env.tr.changes {
		changes[k] = c
	}
	return changes
}

// Copies the entries of preset that are not in the Env into it. Maps present
// in both are filled in recursively.
func (env *Env) fillIn(preset map[string]any) {
	fillIn(env.root, preset)
}

func fillIn(d *Dict, preset map[string]any) {
	for _, k := range sortedKeys(preset) {
		pv := preset[k]
		v, ok := d.values[k]
		if !ok {
			d.SetKey(k, pv)
			continue
		}
		child, isDict := v.(*Dict)
		pm, isMap := pv.(map[string]any)
		if isDict && isMap {
			fillIn(child, pm)
		}
	}
}

// Extracts the serializable top-level entries of the Env, skipping private
// keys and functions. It also returns the sorted keys of other values that
// were dropped because they could not be serialized.
func (env *Env) snapshot() (Snapshot, []string) {
	snap := Snapshot{}
	var dropped []string
	for _, k := range env.root.Keys() {
		v := env.root.values[k]
		if strings.HasPrefix(k, "_") || vals.Kind(v) == "fn" {
			continue
		}
		v = vals.CoerceBool(v)
		if !vals.Serializable(v) {
			dropped = append(dropped, k)
			continue
		}
		snap[k] = vals.Copy(v)
	}
	return snap, dropped
}

// Merges src into dst recursively. Entries of src win, except that maps
// present on both sides are merged.
func deepMerge(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dm, dOK := dst[k].(map[string]any)
		sm, sOK := v.(map[string]any)
		if dOK && sOK {
			dst[k] = deepMerge(dm, sm)
		} else {
			dst[k] = vals.Copy(v)
		}
	}
	return dst
}
