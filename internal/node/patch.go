package node

import "maps"

// Patch is a shallow update of a node. Nil fields are left untouched; a
// non-nil Data or InputPins replaces the whole map.
type Patch struct {
	X         *float64
	Y         *float64
	Width     *float64
	Height    *float64
	InputPins map[string]string
	Data      map[string]any
}

// Float returns a pointer to v, for building patches.
func Float(v float64) *float64 {
	return &v
}

// Apply merges the patch into a copy of n. A nil n yields a node carrying
// only the patched fields.
func (p Patch) Apply(n *Node) *Node {
	var out *Node
	if n == nil {
		out = &Node{InputPins: map[string]string{}}
	} else {
		out = n.Clone()
	}

	if p.X != nil {
		out.X = *p.X
	}
	if p.Y != nil {
		out.Y = *p.Y
	}
	if p.Width != nil {
		out.Width = *p.Width
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	if p.InputPins != nil {
		out.InputPins = maps.Clone(p.InputPins)
	}
	if p.Data != nil {
		out.Data = maps.Clone(p.Data)
	}
	return out
}
