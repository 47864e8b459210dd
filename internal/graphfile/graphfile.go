package graphfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/nodemachine/internal/node"
)

// Format names a serialized graph encoding.
type Format string

const (
	HCL  Format = "hcl"
	JSON Format = "json"
	YAML Format = "yaml"
)

// Extensions maps every recognized file extension to its format.
var Extensions = map[string]Format{
	".hcl":  HCL,
	".json": JSON,
	".yaml": YAML,
	".yml":  YAML,
}

// FormatOf returns the format matching the extension of path.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	f, ok := Extensions[ext]
	if !ok {
		return "", fmt.Errorf("unsupported graph file extension '%s' in %s", ext, path)
	}
	return f, nil
}

// Encode serializes a node map. Output is deterministic: nodes and map keys
// are written in sorted order.
func Encode(format Format, nodes node.Map) ([]byte, error) {
	switch format {
	case HCL:
		return encodeHCL(nodes)
	case JSON:
		return encodeJSON(nodes)
	case YAML:
		return encodeYAML(nodes)
	default:
		return nil, fmt.Errorf("unknown graph format '%s'", format)
	}
}

// Decode parses a serialized node map. filename is only used in diagnostics.
func Decode(format Format, filename string, src []byte) (node.Map, error) {
	var (
		nodes node.Map
		err   error
	)
	switch format {
	case HCL:
		nodes, err = decodeHCL(filename, src)
	case JSON:
		nodes, err = decodeJSON(src)
	case YAML:
		nodes, err = decodeYAML(src)
	default:
		return nil, fmt.Errorf("unknown graph format '%s'", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s graph %s: %w", format, filename, err)
	}
	return canonicalize(nodes), nil
}

// Load reads a graph file, choosing the decoder by extension.
func Load(path string) (node.Map, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}
	return Decode(format, path, src)
}

// Save writes a graph file, choosing the encoder by extension. Missing
// parent directories are created.
func Save(path string, nodes node.Map) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	out, err := Encode(format, nodes)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write graph file: %w", err)
	}
	return nil
}

// canonicalize makes the map key the node id, guarantees a non-nil InputPins
// map and normalizes numbers in data.
func canonicalize(nodes node.Map) node.Map {
	if nodes == nil {
		return node.Map{}
	}
	for id, n := range nodes {
		if n == nil {
			delete(nodes, id)
			continue
		}
		n.ID = id
		if n.InputPins == nil {
			n.InputPins = map[string]string{}
		}
		if n.Data != nil {
			n.Data = normalize(n.Data).(map[string]any)
		}
	}
	return nodes
}

// normalize converts every number to float64 and every nested mapping to
// map[string]any.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}
