package cfgfile

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// ParseAssignment parses an assignment of the form key=value, as given on the
// command line. The value is parsed as a YAML flow value, so 1 is an int,
// 0.5 a float, [1, 2] a list and {a: 1} a map; a value that is not valid
// YAML is taken as a string.
func ParseAssignment(s string) (key string, value any, err error) {
	key, text, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("bad assignment %q, should be key=value", s)
	}
	for _, part := range strings.Split(key, ".") {
		if part == "" {
			return "", nil, fmt.Errorf("bad key %q in assignment %q", key, s)
		}
	}
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return key, text, nil
	}
	return key, vals.Normalize(v), nil
}

// Assign sets a value in m at a dotted key, creating intermediate maps as
// needed. An intermediate value that is not a map is replaced.
func Assign(m map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		sub, ok := m[part].(map[string]any)
		if !ok {
			sub = map[string]any{}
			m[part] = sub
		}
		m = sub
	}
	m[parts[len(parts)-1]] = value
}
