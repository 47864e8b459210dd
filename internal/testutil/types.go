package testutil

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
)

// Type names registered by RegisterTypes.
const (
	TypeIn1Out1  = "In1Out1"
	TypeIn3Out3  = "In3Out3"
	TypeConstant = "Constant"
	TypeSum      = "Sum"
	TypeText     = "Text"
	TypeFailing  = "Failing"
)

// ErrCompute is returned by every node of TypeFailing.
var ErrCompute = errors.New("compute failed")

// Calls counts compute invocations per node id.
type Calls struct {
	counts map[string]int
}

// Count returns how many times the node's outputs were computed.
func (c *Calls) Count(nodeID string) int {
	return c.counts[nodeID]
}

// Total returns the number of compute invocations across all nodes.
func (c *Calls) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

func (c *Calls) record(nodeID string) {
	c.counts[nodeID]++
}

// RegisterTypes registers the node types used throughout the engine tests and
// returns the compute counter shared by all of them.
//
//   - In1Out1: input `in`, output `out` (both any), passes `in` through.
//   - In3Out3: inputs in1..in3, outputs out1..out3 (all any), passes through.
//   - Constant: output `value` (number) taken from data["value"].
//   - Sum: inputs `a`, `b` (number), output `sum` (number).
//   - Text: output `text` (string) taken from data["text"].
//   - Failing: input `in` (any), output `out`; compute returns ErrCompute.
func RegisterTypes(r *registry.Registry) *Calls {
	calls := &Calls{counts: make(map[string]int)}

	anyPins := func(n int) ([]registry.InputPin, []registry.OutputPin) {
		var ins []registry.InputPin
		var outs []registry.OutputPin
		for i := 1; i <= n; i++ {
			suffix := ""
			if n > 1 {
				suffix = fmt.Sprint(i)
			}
			ins = append(ins, registry.InputPin{Name: "in" + suffix, Kinds: []string{"any"}})
			outs = append(outs, registry.OutputPin{Name: "out" + suffix, Kind: "any"})
		}
		return ins, outs
	}

	passThrough := func(n *node.Node, in node.Inputs) (node.Outputs, error) {
		calls.record(n.ID)
		out := node.Outputs{}
		for name, v := range in {
			out["out"+name[len("in"):]] = v
		}
		return out, nil
	}

	ins, outs := anyPins(1)
	r.RegisterType(registry.Descriptor{TypeName: TypeIn1Out1, Inputs: ins, Outputs: outs, Compute: passThrough})

	ins, outs = anyPins(3)
	r.RegisterType(registry.Descriptor{TypeName: TypeIn3Out3, Inputs: ins, Outputs: outs, Compute: passThrough})

	r.RegisterType(registry.Descriptor{
		TypeName: TypeConstant,
		Outputs:  []registry.OutputPin{{Name: "value", Kind: "number"}},
		Compute: func(n *node.Node, _ node.Inputs) (node.Outputs, error) {
			calls.record(n.ID)
			return node.Outputs{"value": n.Data["value"]}, nil
		},
	})

	r.RegisterType(registry.Descriptor{
		TypeName: TypeSum,
		Inputs: []registry.InputPin{
			{Name: "a", Kinds: []string{"number"}},
			{Name: "b", Kinds: []string{"number"}},
		},
		Outputs: []registry.OutputPin{{Name: "sum", Kind: "number"}},
		Compute: func(n *node.Node, in node.Inputs) (node.Outputs, error) {
			calls.record(n.ID)
			a, _ := in["a"].(float64)
			b, _ := in["b"].(float64)
			return node.Outputs{"sum": a + b}, nil
		},
	})

	r.RegisterType(registry.Descriptor{
		TypeName: TypeText,
		Outputs:  []registry.OutputPin{{Name: "text", Kind: "string"}},
		Compute: func(n *node.Node, _ node.Inputs) (node.Outputs, error) {
			calls.record(n.ID)
			return node.Outputs{"text": n.Data["text"]}, nil
		},
	})

	r.RegisterType(registry.Descriptor{
		TypeName: TypeFailing,
		Inputs:   []registry.InputPin{{Name: "in"}},
		Outputs:  []registry.OutputPin{{Name: "out"}},
		Compute: func(n *node.Node, _ node.Inputs) (node.Outputs, error) {
			calls.record(n.ID)
			return nil, ErrCompute
		},
	})

	return calls
}
