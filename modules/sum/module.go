// Package sum provides the SumNumbers node type: a binary arithmetic
// operation over two numbers, a number and a list, or two lists of equal
// length.
package sum

import (
	"fmt"
	"maps"

	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
)

const (
	// TypeName is the registered type name.
	TypeName = "SumNumbers"

	InA    = "a"
	InB    = "b"
	OutSum = "sum"

	// SizeMismatch is reported in the output when two lists differ in length.
	SizeMismatch = "Input size do not match!"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Construct creates the node with the default operator "+".
func Construct(args node.Args) *node.Node {
	n := node.New(args)
	data := map[string]any{"op": "+"}
	maps.Copy(data, args.Data)
	n.Data = data
	return n
}

// Compute applies data["op"] to the inputs.
//
// Two lists are combined element-wise and must have the same length; a
// mismatch is reported as {"error": SizeMismatch} rather than as an error. A
// list and a number apply the number to every element, the list always being
// the left operand. Until both inputs are connected there is no output.
func Compute(n *node.Node, in node.Inputs) (node.Outputs, error) {
	opName, _ := n.Data["op"].(string)
	if opName == "" {
		opName = "+"
	}
	op, ok := operators[opName]
	if !ok {
		return nil, fmt.Errorf("node '%s': unknown operator '%s'", n.ID, opName)
	}

	a, b := in[InA], in[InB]
	if a == nil || b == nil {
		return nil, nil
	}

	listA, aIsList := toList(a)
	listB, bIsList := toList(b)
	switch {
	case aIsList && bIsList:
		if len(listA) != len(listB) {
			return node.Outputs{"error": SizeMismatch}, nil
		}
		out := make([]float64, len(listA))
		for i := range listA {
			out[i] = op(listA[i], listB[i])
		}
		return node.Outputs{OutSum: out}, nil
	case aIsList:
		return node.Outputs{OutSum: broadcast(listA, toNumber(b), op)}, nil
	case bIsList:
		return node.Outputs{OutSum: broadcast(listB, toNumber(a), op)}, nil
	default:
		return node.Outputs{OutSum: op(toNumber(a), toNumber(b))}, nil
	}
}

func broadcast(list []float64, x float64, op operator) []float64 {
	out := make([]float64, len(list))
	for i, v := range list {
		out[i] = op(v, x)
	}
	return out
}

// Render shows the result, or the reported error.
func Render(req registry.RenderRequest) any {
	if msg, ok := req.Resolved["error"]; ok {
		return fmt.Sprintf("error: %v", msg)
	}
	op, _ := req.Node.Data["op"].(string)
	return fmt.Sprintf("a %s b = %v", op, req.Resolved[OutSum])
}

// Register registers the node type with the engine.
func (m *Module) Register(r *registry.Registry) {
	kinds := []string{"number", "list(number)"}
	r.RegisterType(registry.Descriptor{
		TypeName:    TypeName,
		DisplayName: "Sum",
		Inputs: []registry.InputPin{
			{Name: InA, Kinds: kinds, Label: "A"},
			{Name: InB, Kinds: kinds, Label: "B"},
		},
		Outputs:     []registry.OutputPin{{Name: OutSum, Kind: "any"}},
		MinimumSize: &registry.Size{Width: 35 * 8, Height: 17 * 8},
		Construct:   Construct,
		Compute:     Compute,
		Render:      Render,
	})
}
