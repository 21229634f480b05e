// Package cfgfile reads and writes configuration mappings in the file formats
// supported by the driver: JSON (with comments and trailing commas allowed
// when reading), YAML and CBOR.
//
// Decoded mappings are normalized with vals.Normalize, so numbers are int or
// float64 whatever the format.
package cfgfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dr-dahou-adrar/sacred/pkg/codec"
	"github.com/dr-dahou-adrar/sacred/pkg/eval/vals"
)

// Format is a file format.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// ParseFormat parses the name of a format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case JSON, YAML, CBOR:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown format %q, should be json, yaml or cbor", name)
}

// FormatOf returns the format of a file from its extension: .json and .jsonc
// for JSON, .yaml and .yml for YAML, and .cbor for CBOR.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".jsonc":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".cbor":
		return CBOR, nil
	default:
		return "", fmt.Errorf("%s: unknown file extension %q", path, ext)
	}
}

// Load reads a file and decodes the mapping in it, using the format implied by
// the extension.
func Load(path string) (map[string]any, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	m, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode decodes a mapping. An empty document decodes to an empty mapping; any
// other document must hold a mapping at the top level.
func Decode(data []byte, f Format) (map[string]any, error) {
	var v any
	switch f {
	case JSON:
		stripped := jsonc.ToJSON(data)
		if len(bytes.TrimSpace(stripped)) == 0 {
			break
		}
		dec := json.NewDecoder(bytes.NewReader(stripped))
		dec.UseNumber()
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("parsing JSON: %w", err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case CBOR:
		if len(data) == 0 {
			break
		}
		if err := codec.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing CBOR: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
	if v == nil {
		return map[string]any{}, nil
	}
	m, ok := vals.Normalize(v).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value must be a map, got %s", vals.TypeName(vals.Normalize(v)))
	}
	return m, nil
}

// Encode writes v in a format. JSON and YAML output ends with a newline; map
// keys are sorted in all formats.
func Encode(w io.Writer, v any, f Format) error {
	v = vals.Copy(v)
	switch f {
	case JSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case CBOR:
		return codec.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("unknown format %q", f)
}
