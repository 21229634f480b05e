package scope

import (
	"github.com/dr-dahou-adrar/sacred/pkg/diag"
	"github.com/dr-dahou-adrar/sacred/pkg/eval"
	"github.com/dr-dahou-adrar/sacred/pkg/parse"
)

// Load compiles the scopes of a source.
//
// A source made of scope declarations yields one Scope for each declaration,
// in order. Any other source is the body of a single Scope without
// parameters, named after the source: the base name without extension for a
// file, the name of the source otherwise. A source mixing scope declarations
// and other statements is a compilation error.
func Load(ev *eval.Evaler, src parse.Source) ([]*Scope, error) {
	chunk, err := parse.Parse(src)
	if err != nil {
		return nil, err
	}

	var decls []*parse.ScopeDecl
	var others []parse.Stmt
	for _, stmt := range chunk.Stmts {
		if d, ok := stmt.(*parse.ScopeDecl); ok {
			decls = append(decls, d)
		} else {
			others = append(others, stmt)
		}
	}

	if len(decls) == 0 {
		p, err := ev.CompileChunk(src, chunk)
		if err != nil {
			return nil, err
		}
		return []*Scope{{name: sourceScopeName(src), body: ProgramBody(p)}}, nil
	}
	if len(others) > 0 {
		return nil, compilationError(src, others[0], "statement outside of scope declarations")
	}

	scopes := make([]*Scope, 0, len(decls))
	names := make(map[string]bool, len(decls))
	for _, d := range decls {
		if names[d.Name.Name] {
			return nil, compilationError(src, d.Name, "duplicate scope "+d.Name.Name)
		}
		names[d.Name.Name] = true

		params := make([]paramDecl, len(d.Params))
		for i, p := range d.Params {
			params[i] = paramDecl{
				name: p.Name, variadic: p.Variadic, keyword: p.Keyword,
				dflt: p.Default != nil,
				ctx:  diag.NewContext(src.Name, src.Code, p)}
		}
		p, err := ev.CompileChunk(src, d.Body)
		if err != nil {
			return nil, err
		}
		s, err := newScope(d.Name.Name, params, ProgramBody(p))
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, nil
}

// LoadFile reads a file and loads the scopes in it.
func LoadFile(ev *eval.Evaler, path string) ([]*Scope, error) {
	src, err := parse.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(ev, src)
}

func compilationError(src parse.Source, r diag.Ranger, msg string) error {
	return &eval.CompilationError{
		Type:    eval.CompilationErrorType,
		Message: msg,
		Context: *diag.NewContext(src.Name, src.Code, r)}
}
