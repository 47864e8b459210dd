package registry

import (
	"github.com/specialistvlad/nodemachine/internal/node"
)

// InputPin declares one input slot of a node type.
type InputPin struct {
	Name string
	// Kinds lists the accepted data kinds. Empty means any.
	Kinds []string
	// Label is the visual name shown next to the pin.
	Label string
}

// OutputPin declares one output slot of a node type.
type OutputPin struct {
	Name string
	// Kind is the produced data kind. Empty means any.
	Kind string
}

// Size is a width/height pair.
type Size struct {
	Width  float64
	Height float64
}

// ConstructFunc builds a new node instance from construction arguments.
type ConstructFunc func(args node.Args) *node.Node

// ComputeFunc computes a node's outputs from its resolved inputs. It must not
// modify the node. Returning nil outputs signals that there is no output yet.
type ComputeFunc func(n *node.Node, inputs node.Inputs) (node.Outputs, error)

// RenderFunc draws a node. Its result is opaque to the engine.
type RenderFunc func(req RenderRequest) any

// Resolver is the part of the resolution engine exposed to render hooks.
type Resolver interface {
	Resolve(n *node.Node) (node.Outputs, error)
}

// RenderRequest is what a render hook receives: the node, the resolver that
// produced its values, and the node's resolved outputs.
type RenderRequest struct {
	Node     *node.Node
	Resolver Resolver
	Resolved node.Outputs
}

// Descriptor is the registered definition of a node type.
type Descriptor struct {
	TypeName    string
	DisplayName string

	// Inputs is the ordered input schema, nil if the type accepts no inputs.
	Inputs []InputPin
	// Outputs is the ordered output schema, nil if the type produces nothing.
	Outputs []OutputPin

	// MinimumSize is the floor applied to width and height on instantiation.
	MinimumSize *Size

	// Construct defaults to node.New when nil.
	Construct ConstructFunc
	// Compute defaults to producing no output when nil.
	Compute ComputeFunc
	Render  RenderFunc
}

// Input returns the declared input pin with the given name.
func (d Descriptor) Input(name string) (InputPin, bool) {
	for _, p := range d.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return InputPin{}, false
}

// Output returns the declared output pin with the given name.
func (d Descriptor) Output(name string) (OutputPin, bool) {
	for _, p := range d.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return OutputPin{}, false
}
