package preview

import (
	"testing"

	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	testCases := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: "(null)"},
		{name: "number", in: 7.0, want: "7"},
		{name: "list", in: []float64{1, 2}, want: "[1 2]"},
		{name: "map", in: map[string]any{"b": 2.0, "a": "x"}, want: "a = x\nb = 2"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Format(tc.in))
		})
	}
}

func TestRegister(t *testing.T) {
	r := registry.New()
	(&Module{}).Register(r)

	desc, err := r.Descriptor(TypeName)
	require.NoError(t, err)
	assert.Nil(t, desc.Outputs)

	n, err := r.Instantiate(TypeName, node.Args{ID: "p"})
	require.NoError(t, err)
	out, err := r.Compute(n, node.Inputs{InA: 3.0})
	require.NoError(t, err)

	got, err := r.RenderNode(registry.RenderRequest{Node: n, Resolved: out})
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}
