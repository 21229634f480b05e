package scope

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
	"github.com/dr-dahou-adrar/sacred/pkg/logutil"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

var logger = logutil.GetLogger("[scope] ")

// Body is the logic of a scope.
type Body interface {
	// Exec runs the logic against env. The returned error is passed through
	// by Scope.Evaluate unchanged.
	Exec(env *Env) error
}

// BodyFunc is a Body implemented by a Go function.
type BodyFunc func(env *Env) error

// Exec calls f(env).
func (f BodyFunc) Exec(env *Env) error { return f(env) }

// ProgramBody returns a Body that runs a compiled program with the Env as its
// namespace.
func ProgramBody(p *eval.Program) Body { return programBody{p} }

type programBody struct{ p *eval.Program }

func (b programBody) Exec(env *Env) error { return b.p.Run(env) }

// Scope is a named piece of configuration logic with declared parameters.
//
// A Scope caches the result of its last evaluation. It is not safe to
// evaluate the same Scope concurrently; distinct Scopes can be evaluated
// concurrently.
type Scope struct {
	name   string
	params []string
	body   Body

	evaluated   bool
	snapshot    Snapshot
	added       []string
	typeChanges map[string]TypeChange
	dropped     []string
}

// A parameter as declared.
type paramDecl struct {
	name     string
	variadic bool
	keyword  bool
	dflt     bool
	ctx      *diag.Context
}

// New creates a Scope. Each parameter is a name, and may also be written as
// "...name" (variadic), "**name" (keyword catch-all) or "name=value" (with a
// default value), all of which are rejected with a *ConstructionError.
func New(name string, params []string, body Body) (*Scope, error) {
	decls := make([]paramDecl, len(params))
	for i, p := range params {
		decls[i] = parseParamDecl(p)
	}
	return newScope(name, decls, body)
}

// Must is like New, but panics on error.
func Must(name string, params []string, body Body) *Scope {
	s, err := New(name, params, body)
	if err != nil {
		panic(err)
	}
	return s
}

func parseParamDecl(p string) paramDecl {
	var d paramDecl
	p = strings.TrimSpace(p)
	if rest, ok := strings.CutPrefix(p, "..."); ok {
		d.variadic, p = true, rest
	} else if rest, ok := strings.CutPrefix(p, "**"); ok {
		d.keyword, p = true, rest
	}
	if i := strings.IndexByte(p, '='); i != -1 {
		d.dflt, p = true, p[:i]
	}
	d.name = strings.TrimSpace(p)
	return d
}

func newScope(name string, decls []paramDecl, body Body) (*Scope, error) {
	bad := func(ctx *diag.Context, format string, args ...any) error {
		return &ConstructionError{Scope: name, Message: fmt.Sprintf(format, args...), Context: ctx}
	}
	if body == nil {
		return nil, bad(nil, "body is nil")
	}
	params := make([]string, 0, len(decls))
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		switch {
		case d.variadic:
			return nil, bad(d.ctx, "variadic parameter ...%s not allowed", d.name)
		case d.keyword:
			return nil, bad(d.ctx, "keyword catch-all parameter **%s not allowed", d.name)
		case d.dflt:
			return nil, bad(d.ctx, "parameter %s must not have a default value", d.name)
		case !parse.IsIdent(d.name):
			return nil, bad(d.ctx, "invalid parameter name %s", parse.Quote(d.name))
		case seen[d.name]:
			return nil, bad(d.ctx, "duplicate parameter %s", d.name)
		}
		seen[d.name] = true
		params = append(params, d.name)
	}
	return &Scope{name: name, params: params, body: body}, nil
}

// Name returns the name of the scope.
func (s *Scope) Name() string { return s.name }

// Params returns the declared parameters.
func (s *Scope) Params() []string { return append([]string(nil), s.params...) }

// Evaluate runs the scope and returns its snapshot.
//
// The fixed values are pinned, and declared parameters are read from the
// preset, or from the fallback when they are not in the preset. Entries of the
// preset not written by the body are carried into the snapshot. An error from
// the body is returned as is.
func (s *Scope) Evaluate(fixed, preset, fallback map[string]any) (Snapshot, error) {
	s.reset()
	fixed, preset, fallback = normalizeMap(fixed), normalizeMap(preset), normalizeMap(fallback)

	for _, p := range s.params {
		_, inPreset := preset[p]
		_, inFallback := fallback[p]
		if !inPreset && !inFallback {
			return nil, &MissingBindingError{s.name, p, availableKeys(preset, fallback)}
		}
	}

	env := newEnv(fixed, preset)
	for _, p := range s.params {
		if v, ok := preset[p]; ok {
			env.Set(p, v)
		} else {
			env.fallback[p] = fallback[p]
		}
	}

	logger.Printf("evaluating scope %s", s.name)
	if err := s.body.Exec(env); err != nil {
		logger.Printf("scope %s failed: %v", s.name, err)
		return nil, err
	}

	added, typeChanges := env.AddedValues(), env.TypeChanges()
	env.fillIn(preset)
	snap, dropped := env.snapshot()
	for _, k := range dropped {
		logger.Printf("scope %s: dropping key %s with a value that cannot be serialized", s.name, k)
	}

	s.evaluated = true
	s.snapshot = snap
	s.added = added
	s.typeChanges = typeChanges
	s.dropped = dropped
	return snap, nil
}

func (s *Scope) reset() {
	s.evaluated = false
	s.snapshot = nil
	s.added = nil
	s.typeChanges = nil
	s.dropped = nil
}

// Evaluated returns whether the last evaluation succeeded.
func (s *Scope) Evaluated() bool { return s.evaluated }

// Snapshot returns the snapshot of the last evaluation.
func (s *Scope) Snapshot() (Snapshot, error) {
	if !s.evaluated {
		return nil, &AccessBeforeEvaluationError{s.name}
	}
	return s.snapshot, nil
}

// Get returns an entry of the snapshot of the last evaluation.
func (s *Scope) Get(key string) (any, error) {
	if !s.evaluated {
		return nil, &AccessBeforeEvaluationError{s.name}
	}
	v, ok := s.snapshot[key]
	if !ok {
		return nil, &NoSuchKeyError{s.name, key}
	}
	return v, nil
}

// AddedValues returns the sorted keys added by the last evaluation: keys that
// were in neither the fixed values nor the preset. Keys inside maps that
// were already there are dotted paths.
func (s *Scope) AddedValues() []string { return s.added }

// TypeChanges returns the keys whose type changed during the last
// evaluation.
func (s *Scope) TypeChanges() map[string]TypeChange { return s.typeChanges }

// Dropped returns the sorted keys left out of the last snapshot because
// their values cannot be serialized.
func (s *Scope) Dropped() []string { return s.dropped }

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return vals.Copy(vals.Normalize(m)).(map[string]any)
}

func availableKeys(ms ...map[string]any) []string {
	set := map[string]struct{}{}
	for _, m := range ms {
		for k := range m {
			set[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Returns the name of a scope loaded from a source that is not made of scope
// declarations.
func sourceScopeName(src parse.Source) string {
	if !src.IsFile {
		return src.Name
	}
	base := filepath.Base(src.Name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
