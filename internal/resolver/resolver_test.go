package resolver

import (
	"testing"

	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/specialistvlad/nodemachine/internal/testutil"
	"github.com/specialistvlad/nodemachine/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store  *topology.Store
	engine *Engine
	calls  *testutil.Calls
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx, _ := testutil.Context(t)
	reg := registry.New()
	calls := testutil.RegisterTypes(reg)
	store := topology.New()
	return &fixture{store: store, engine: New(ctx, reg, store), calls: calls}
}

func (f *fixture) add(id, typeName string, data map[string]any) {
	f.store.Put(&node.Node{ID: id, Type: typeName, InputPins: map[string]string{}, Data: data})
}

func (f *fixture) link(from, toNode, toPin string) {
	f.store.Link(node.NewConnection(from, toNode, toPin))
}

func (f *fixture) resolve(t *testing.T, id string) node.Outputs {
	t.Helper()
	out, err := f.engine.ResolveID(id)
	require.NoError(t, err)
	return out
}

func TestResolve_SumOfConstants(t *testing.T) {
	f := newFixture(t)
	f.add("const1", testutil.TypeConstant, map[string]any{"value": 2.0})
	f.add("const2", testutil.TypeConstant, map[string]any{"value": 5.0})
	f.add("sum1", testutil.TypeSum, nil)
	f.add("sum2", testutil.TypeSum, nil)
	f.link("const1.value", "sum1", "a")
	f.link("const2.value", "sum1", "b")
	f.link("sum1.sum", "sum2", "a")
	f.link("sum1.sum", "sum2", "b")

	assert.Equal(t, 7.0, f.resolve(t, "sum1")["sum"])
	assert.Equal(t, 14.0, f.resolve(t, "sum2")["sum"])
	assert.Equal(t, 1, f.calls.Count("sum1"), "sum1 must be computed once even with fan-out")
}

func TestResolve_Memoizes(t *testing.T) {
	f := newFixture(t)
	f.add("c", testutil.TypeConstant, map[string]any{"value": 1.0})

	f.resolve(t, "c")
	f.resolve(t, "c")
	assert.Equal(t, 1, f.calls.Count("c"))

	cached, ok := f.engine.Cached("c")
	require.True(t, ok)
	assert.Equal(t, 1.0, cached["value"])
}

func TestResolve_UnconnectedInputsAreNil(t *testing.T) {
	f := newFixture(t)
	f.add("n", testutil.TypeIn3Out3, nil)
	f.add("c", testutil.TypeConstant, map[string]any{"value": 3.0})
	f.link("c.value", "n", "in2")

	out := f.resolve(t, "n")
	assert.Equal(t, node.Outputs{"out1": nil, "out2": 3.0, "out3": nil}, out)
}

func TestResolve_DanglingSourceResolvesToNil(t *testing.T) {
	f := newFixture(t)
	f.store.Restore(node.Map{
		"n": {Type: testutil.TypeIn1Out1, InputPins: map[string]string{"in": "ghost.out"}},
	})

	out := f.resolve(t, "n")
	assert.Nil(t, out["out"])
}

func TestResolve_NilValuesPropagate(t *testing.T) {
	f := newFixture(t)
	f.add("c", testutil.TypeConstant, nil)
	f.add("n", testutil.TypeIn1Out1, nil)
	f.link("c.value", "n", "in")

	assert.Equal(t, node.Outputs{"out": nil}, f.resolve(t, "n"))
	f.resolve(t, "n")
	assert.Equal(t, 1, f.calls.Count("n"))
}

func TestResolve_ComputeErrorPropagates(t *testing.T) {
	f := newFixture(t)
	f.add("bad", testutil.TypeFailing, nil)
	f.add("n", testutil.TypeIn1Out1, nil)
	f.link("bad.out", "n", "in")

	_, err := f.engine.ResolveID("n")
	require.ErrorIs(t, err, testutil.ErrCompute)

	_, ok := f.engine.Cached("bad")
	assert.False(t, ok)
	_, ok = f.engine.Cached("n")
	assert.False(t, ok)
}

func TestResolve_UnknownType(t *testing.T) {
	f := newFixture(t)
	f.add("x", "Unregistered", nil)

	_, err := f.engine.ResolveID("x")
	assert.ErrorIs(t, err, registry.ErrUnknownType)
}

func TestResolveID_MissingNode(t *testing.T) {
	f := newFixture(t)
	out, err := f.engine.ResolveID("missing")
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestInvalidate_IsTransitive(t *testing.T) {
	f := newFixture(t)
	f.add("a", testutil.TypeConstant, map[string]any{"value": 1.0})
	f.add("b", testutil.TypeIn1Out1, nil)
	f.add("c", testutil.TypeIn1Out1, nil)
	f.add("other", testutil.TypeConstant, map[string]any{"value": 9.0})
	f.link("a.value", "b", "in")
	f.link("b.out", "c", "in")

	f.resolve(t, "c")
	f.resolve(t, "other")

	f.engine.Invalidate("a")
	for _, id := range []string{"a", "b", "c"} {
		_, ok := f.engine.Cached(id)
		assert.False(t, ok, "node %s should have been invalidated", id)
	}
	_, ok := f.engine.Cached("other")
	assert.True(t, ok, "unrelated nodes keep their cache")

	f.resolve(t, "c")
	assert.Equal(t, 2, f.calls.Count("a"))
	assert.Equal(t, 2, f.calls.Count("c"))
}

func TestInvalidate_WalksPastUncachedNodes(t *testing.T) {
	f := newFixture(t)
	f.add("a", testutil.TypeConstant, map[string]any{"value": 1.0})
	f.add("b", testutil.TypeIn1Out1, nil)
	f.link("a.value", "b", "in")

	f.resolve(t, "b")
	f.engine.Forget("a")

	f.engine.Invalidate("a")
	_, ok := f.engine.Cached("b")
	assert.False(t, ok)
}

func TestInvalidate_SeesDataChange(t *testing.T) {
	f := newFixture(t)
	f.add("a", testutil.TypeConstant, map[string]any{"value": 1.0})
	f.add("b", testutil.TypeIn1Out1, nil)
	f.link("a.value", "b", "in")
	assert.Equal(t, 1.0, f.resolve(t, "b")["out"])

	f.add("a", testutil.TypeConstant, map[string]any{"value": 4.0})
	assert.Equal(t, 1.0, f.resolve(t, "b")["out"], "stale until invalidated")

	f.engine.Invalidate("a")
	assert.Equal(t, 4.0, f.resolve(t, "b")["out"])
}

func TestPin_OverridesAndInvalidates(t *testing.T) {
	f := newFixture(t)
	f.add("a", testutil.TypeConstant, map[string]any{"value": 1.0})
	f.add("b", testutil.TypeIn1Out1, nil)
	f.link("a.value", "b", "in")
	f.resolve(t, "b")

	f.engine.Pin("a.value", 42.0)
	assert.Equal(t, 42.0, f.resolve(t, "b")["out"])

	v, err := f.engine.ResolvePin("a.value")
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)

	f.engine.Unpin("a.value")
	assert.Equal(t, 1.0, f.resolve(t, "b")["out"])
	f.engine.Unpin("a.value")
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	f.add("a", testutil.TypeConstant, map[string]any{"value": 1.0})
	f.resolve(t, "a")

	f.engine.Reset()
	_, ok := f.engine.Cached("a")
	assert.False(t, ok)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	c.Set("a", node.Outputs{"v": 1})
	c.Set("b", nil)

	out, ok := c.Get("b")
	assert.True(t, ok)
	assert.Nil(t, out)

	snap := c.Snapshot()
	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.Len(t, snap, 2)

	c.Clear()
	assert.Empty(t, c.Snapshot())
}

func TestResolve_CycleIsAnError(t *testing.T) {
	f := newFixture(t)
	f.add("a", testutil.TypeIn1Out1, nil)
	f.add("b", testutil.TypeIn1Out1, nil)
	f.link("b.out", "a", "in")
	f.link("a.out", "b", "in")

	_, err := f.engine.ResolveID("a")
	require.ErrorIs(t, err, ErrCycle)
	assert.Zero(t, f.calls.Total())
	_, cached := f.engine.Cached("a")
	assert.False(t, cached)

	// The resolution path is cleared after a failure.
	f.store.UnlinkDestination("b.in")
	out := f.resolve(t, "a")
	assert.Equal(t, node.Outputs{"out": nil}, out)
}

func TestResolve_SelfLoopIsAnError(t *testing.T) {
	f := newFixture(t)
	f.add("a", testutil.TypeIn1Out1, nil)
	f.link("a.out", "a", "in")

	_, err := f.engine.ResolveID("a")
	assert.ErrorIs(t, err, ErrCycle)
}
