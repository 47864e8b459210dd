// Package numberinput provides the InputVariable node type: a value entered by
// the user, usually a number, exposed on a single untyped output pin.
package numberinput

import (
	"fmt"
	"maps"

	"github.com/specialistvlad/nodemachine/internal/datakind"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
)

const (
	// TypeName is the registered type name.
	TypeName = "InputVariable"
	// OutValue is the output pin carrying the value.
	OutValue = "value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Construct creates the node with default data {value: 0, name: ""}; data
// passed in args overrides the defaults key by key.
func Construct(args node.Args) *node.Node {
	n := node.New(args)
	data := map[string]any{"value": 0.0, "name": ""}
	maps.Copy(data, args.Data)
	n.Data = data
	return n
}

// Compute exposes data["value"] unchanged.
func Compute(n *node.Node, _ node.Inputs) (node.Outputs, error) {
	return node.Outputs{OutValue: n.Data["value"]}, nil
}

// Render prints the variable as `name = value`, or just the value when the
// variable is unnamed.
func Render(req registry.RenderRequest) any {
	name, _ := req.Node.Data["name"].(string)
	value := req.Resolved[OutValue]
	if name == "" {
		return fmt.Sprint(value)
	}
	return fmt.Sprintf("%s = %v", name, value)
}

// Register registers the node type with the engine.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterType(registry.Descriptor{
		TypeName:    TypeName,
		DisplayName: "Input Variable",
		Outputs:     []registry.OutputPin{{Name: OutValue, Kind: datakind.Any}},
		MinimumSize: &registry.Size{Height: 14 * 8},
		Construct:   Construct,
		Compute:     Compute,
		Render:      Render,
	})
}
