// Package preview provides the DataPreview node type, a sink that displays
// whatever is wired into its single input.
package preview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
)

const (
	// TypeName is the registered type name.
	TypeName = "DataPreview"
	// InA is the previewed input pin.
	InA = "A"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Compute echoes the inputs so the render hook can display them.
func Compute(_ *node.Node, inputs node.Inputs) (node.Outputs, error) {
	return node.Outputs(inputs), nil
}

// Render formats the previewed value. Maps are printed one sorted key per
// line; a missing value prints as (null).
func Render(req registry.RenderRequest) any {
	return Format(req.Resolved[InA])
}

// Format renders a value the way the preview displays it.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "(null)"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "%s = %v", k, x[k])
		}
		return b.String()
	default:
		return fmt.Sprint(v)
	}
}

// Register registers the node type with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(registry.Descriptor{
		TypeName:    TypeName,
		DisplayName: "Data Preview",
		Inputs:      []registry.InputPin{{Name: InA, Kinds: []string{"any"}}},
		Compute:     Compute,
		Render:      Render,
	})
}
