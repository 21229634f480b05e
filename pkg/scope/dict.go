package scope

import (
	"sort"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// TypeChange records that a key changed its runtime type, as returned by
// vals.TypeName.
type TypeChange struct {
	From string
	To   string
}

// Records the type changes of one evaluation. Keys are dotted paths.
type tracker struct {
	// Type of each key when it was first observed.
	orig    map[string]string
	changes map[string]TypeChange
}

func newTracker() *tracker {
	return &tracker{map[string]string{}, map[string]TypeChange{}}
}

// Records the types of all the entries of m, recursively, as the original
// types of their paths.
func (tr *tracker) seed(prefix string, m map[string]any) {
	for k, v := range m {
		path := joinPath(prefix, k)
		tr.orig[path] = vals.TypeName(v)
		if sub, ok := v.(map[string]any); ok {
			tr.seed(path, sub)
		}
	}
}

// Called on every write to a key that is not pinned.
func (tr *tracker) observe(path string, v any) {
	t := vals.TypeName(v)
	orig, ok := tr.orig[path]
	switch {
	case !ok:
		tr.orig[path] = t
	case orig == t:
		delete(tr.changes, path)
	default:
		tr.changes[path] = TypeChange{orig, t}
	}
}

// Called on every write to a pinned key. A write of a different type means
// that the fixed value changed the type the scope expects.
func (tr *tracker) pinned(path string, written, fixed any) {
	if from, to := vals.TypeName(written), vals.TypeName(fixed); from != to {
		tr.changes[path] = TypeChange{from, to}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// Dict is a map in an Env. It pins fixed keys and reports writes to the
// tracker of the evaluation. Map values stored in a Dict are themselves
// wrapped in a Dict, so nested writes are handled the same way.
//
// Dict implements vals.Dict.
type Dict struct {
	path   string
	values map[string]any
	// Pinned entries. Pinned maps are stored in values as a Dict whose
	// fixed field holds the pinned map.
	fixed map[string]any
	tr    *tracker
}

var _ vals.Dict = (*Dict)(nil)

func newDict(path string, fixed map[string]any, tr *tracker) *Dict {
	d := &Dict{path, map[string]any{}, fixed, tr}
	for k, v := range fixed {
		if m, ok := v.(map[string]any); ok {
			d.values[k] = newDict(joinPath(path, k), m, tr)
		} else {
			d.values[k] = v
		}
	}
	return d
}

// Len implements vals.Dict.
func (d *Dict) Len() int { return len(d.values) }

// Keys implements vals.Dict.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Index implements vals.Dict. Map values are returned as a *Dict, and writes
// to it are tracked.
func (d *Dict) Index(key string) (any, bool) {
	v, ok := d.values[key]
	return v, ok
}

// IsPinned returns whether the key is fixed.
func (d *Dict) IsPinned(key string) bool {
	_, ok := d.fixed[key]
	return ok
}

// SetKey implements vals.Dict. The value is normalized and copied. Writes to
// pinned keys are ignored, except that a map written to a pinned map is
// merged into it key by key.
func (d *Dict) SetKey(key string, v any) {
	v = vals.Copy(vals.Normalize(v))
	path := joinPath(d.path, key)
	if fv, ok := d.fixed[key]; ok {
		d.tr.pinned(path, v, fv)
		child, isDict := d.values[key].(*Dict)
		m, isMap := v.(map[string]any)
		if isDict && isMap {
			for _, k := range sortedKeys(m) {
				child.SetKey(k, m[k])
			}
			return
		}
		logger.Printf("ignoring write to fixed key %s", path)
		return
	}
	d.tr.observe(path, v)
	if m, ok := v.(map[string]any); ok {
		child := newDict(path, nil, d.tr)
		for _, k := range sortedKeys(m) {
			child.SetKey(k, m[k])
		}
		d.values[key] = child
		return
	}
	d.values[key] = v
}

func sortedKeys(m map[string]any) []string {
	keys, _ := vals.SortedKeys(m)
	return keys
}
