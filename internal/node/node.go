// Package node defines the mutable node record owned by the graph store,
// the patch applied on update, and the connection value linking two pins.
package node

import (
	"maps"

	"github.com/specialistvlad/nodemachine/internal/pinid"
)

// Node is a single placed instance of a registered node type.
//
// Nodes are treated as values: the store never edits a Node that has been
// handed out, it replaces it with a modified copy instead.
type Node struct {
	// ID is the unique identifier of the node. It must not contain pinid.Separator.
	ID string `json:"id" yaml:"id"`
	// Type is the registered type name driving the node's behavior.
	Type string `json:"type" yaml:"type"`

	// Geometry is opaque to the engine and exists for layout only.
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`

	// InputPins maps an input pin name to the pin identifier of its source.
	// Unconnected pins are absent.
	InputPins map[string]string `json:"inputPins" yaml:"inputPins"`

	// Data is the type-specific payload. Changing it is what callers signal
	// with an output invalidation.
	Data map[string]any `json:"data,omitempty" yaml:"data,omitempty"`
}

// Args are the construction arguments handed to a type's constructor.
type Args struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Data   map[string]any
}

// New is the default constructor: it copies the arguments into a fresh node
// with no connected inputs.
func New(args Args) *Node {
	return &Node{
		ID:        args.ID,
		X:         args.X,
		Y:         args.Y,
		Width:     args.Width,
		Height:    args.Height,
		InputPins: map[string]string{},
		Data:      maps.Clone(args.Data),
	}
}

// Clone returns a copy of the node that shares no maps with the original.
// Values inside Data are copied shallowly.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := *n
	cp.InputPins = maps.Clone(n.InputPins)
	if cp.InputPins == nil {
		cp.InputPins = map[string]string{}
	}
	cp.Data = maps.Clone(n.Data)
	return &cp
}

// WithInput returns a copy of the node with pinName wired to sourcePinID.
func (n *Node) WithInput(pinName, sourcePinID string) *Node {
	cp := n.Clone()
	cp.InputPins[pinName] = sourcePinID
	return cp
}

// WithoutInput returns a copy of the node with pinName disconnected.
func (n *Node) WithoutInput(pinName string) *Node {
	cp := n.Clone()
	delete(cp.InputPins, pinName)
	return cp
}

// PinID returns the identifier of one of this node's pins.
func (n *Node) PinID(pinName string) string {
	return pinid.Encode(n.ID, pinName)
}

// Map is the full node set keyed by node id. Maps handed to observers are
// snapshots and are never modified afterwards.
type Map map[string]*Node

// Inputs are the resolved values of a node's input pins keyed by pin name.
// Unconnected pins resolve to nil.
type Inputs map[string]any

// Outputs are the computed values of a node's output pins keyed by pin name.
// A nil Outputs means the node has no output yet.
type Outputs map[string]any
