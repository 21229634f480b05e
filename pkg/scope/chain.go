package scope

import (
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// EvaluateChain evaluates scopes in order. The preset of each scope is the
// preset merged with the snapshots of the scopes before it, with later
// snapshots winning; the fixed values and the fallback are the same for all
// of them. It returns the final merged mapping, which contains only plain
// values.
//
// The first error aborts the chain.
func EvaluateChain(scopes []*Scope, fixed, preset, fallback map[string]any) (map[string]any, error) {
	running := normalizeMap(preset)
	for _, s := range scopes {
		snap, err := s.Evaluate(fixed, running, fallback)
		if err != nil {
			return nil, err
		}
		for k, v := range snap {
			running[k] = vals.Copy(v)
		}
	}
	return running, nil
}
