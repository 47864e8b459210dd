package sum

import (
	"math"
	"testing"

	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	testCases := []struct {
		name string
		op   string
		a, b any
		want node.Outputs
	}{
		{name: "numbers", op: "+", a: 2.0, b: 5.0, want: node.Outputs{OutSum: 7.0}},
		{name: "default operator", op: "", a: 1.0, b: 1.0, want: node.Outputs{OutSum: 2.0}},
		{name: "subtract", op: "-", a: 2.0, b: 5.0, want: node.Outputs{OutSum: -3.0}},
		{name: "multiply", op: "*", a: 4.0, b: 2.5, want: node.Outputs{OutSum: 10.0}},
		{name: "divide", op: "/", a: 9.0, b: 3.0, want: node.Outputs{OutSum: 3.0}},
		{name: "pow", op: "pow", a: 2.0, b: 10.0, want: node.Outputs{OutSum: 1024.0}},
		{name: "numeric strings and ints", op: "+", a: "1.5", b: 2, want: node.Outputs{OutSum: 3.5}},
		{name: "two lists", op: "*", a: []any{1.0, 2.0}, b: []float64{3, 4}, want: node.Outputs{OutSum: []float64{3, 8}}},
		{name: "list and number", op: "-", a: []any{5.0, 6.0}, b: 1.0, want: node.Outputs{OutSum: []float64{4, 5}}},
		{name: "number and list keeps the list on the left", op: "-", a: 1.0, b: []int{5, 6}, want: node.Outputs{OutSum: []float64{4, 5}}},
		{name: "size mismatch", op: "+", a: []any{1.0}, b: []any{1.0, 2.0}, want: node.Outputs{"error": SizeMismatch}},
		{name: "missing input", op: "+", a: 1.0, b: nil, want: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n := Construct(node.Args{ID: "s", Data: map[string]any{"op": tc.op}})
			got, err := Compute(n, node.Inputs{InA: tc.a, InB: tc.b})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompute_NotANumber(t *testing.T) {
	n := Construct(node.Args{ID: "s"})
	got, err := Compute(n, node.Inputs{InA: "abc", InB: 1.0})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[OutSum].(float64)))
}

func TestCompute_UnknownOperator(t *testing.T) {
	n := Construct(node.Args{ID: "s", Data: map[string]any{"op": "%"}})
	_, err := Compute(n, node.Inputs{InA: 1.0, InB: 1.0})
	assert.ErrorContains(t, err, "unknown operator '%'")
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	n, err := r.Instantiate(TypeName, node.Args{ID: "s"})
	require.NoError(t, err)
	assert.Equal(t, 280.0, n.Width)
	assert.Equal(t, 136.0, n.Height)
	assert.Equal(t, "+", n.Data["op"])

	kinds, ok := r.InputKinds(TypeName, InA)
	require.True(t, ok)
	assert.Len(t, kinds, 2)

	out, err := r.Compute(n, node.Inputs{InA: 2.0, InB: 3.0})
	require.NoError(t, err)
	rendered, err := r.RenderNode(registry.RenderRequest{Node: n, Resolved: out})
	require.NoError(t, err)
	assert.Equal(t, "a + b = 5", rendered)

	assert.Equal(t, "error: "+SizeMismatch, Render(registry.RenderRequest{Node: n, Resolved: node.Outputs{"error": SizeMismatch}}))
	assert.Len(t, Operators(), len(operators))
}
