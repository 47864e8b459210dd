package eventbridge

import (
	"errors"
	"testing"

	"github.com/specialistvlad/nodemachine/internal/events"
	"github.com/specialistvlad/nodemachine/internal/graph"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/specialistvlad/nodemachine/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	event   string
	payload map[string]any
}

type fakeEmitter struct {
	sent []sent
	err  error
}

func (f *fakeEmitter) Send(event string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sent{event: event, payload: payload.(map[string]any)})
	return nil
}

func TestBridge_ForwardsGraphEvents(t *testing.T) {
	ctx, _ := testutil.Context(t)
	reg := registry.New()
	testutil.RegisterTypes(reg)
	g := graph.New(ctx, reg)

	em := &fakeEmitter{}
	detach := New(ctx, em, "graph:").Attach(g)

	_, err := g.CreateNode(testutil.TypeConstant, node.Args{ID: "c", Data: map[string]any{"value": 1.0}})
	require.NoError(t, err)
	_, err = g.CreateNode(testutil.TypeIn1Out1, node.Args{ID: "n"})
	require.NoError(t, err)
	_, ok := g.CreateConnection("c.value", "n.in")
	require.True(t, ok)
	require.True(t, g.DestroyConnection("n.in"))
	require.True(t, g.DestroyNode("n"))

	var names []string
	for _, s := range em.sent {
		names = append(names, s.event)
	}
	assert.Equal(t, []string{
		"graph:" + events.NodeNew,
		"graph:" + events.NodeNew,
		"graph:" + events.ConnectionNew,
		"graph:" + events.ConnectionDelete,
		"graph:" + events.NodeDelete,
	}, names)

	conn := em.sent[2].payload
	assert.Equal(t, events.ConnectionNew, conn["type"])
	assert.Equal(t, map[string]any{
		"from": map[string]any{"node": "c", "pin": "value"},
		"to":   map[string]any{"node": "n", "pin": "in"},
	}, conn["connection"])
	nodes := conn["nodes"].(map[string]any)
	assert.Equal(t, map[string]any{"in": "c.value"}, nodes["n"].(map[string]any)["inputPins"])

	removed := em.sent[3].payload["extra"].(map[string]any)["removed"].([]any)
	assert.Len(t, removed, 1)

	detach()
	_, err = g.CreateNode(testutil.TypeConstant, node.Args{ID: "later"})
	require.NoError(t, err)
	assert.Len(t, em.sent, 5)
}

func TestBridge_SendFailureIsLogged(t *testing.T) {
	ctx, logs := testutil.Context(t)
	b := New(ctx, &fakeEmitter{err: errors.New("socket closed")}, "")

	b.Forward(events.Event{Type: events.NodeUpdate, InvalidateOutput: true})
	assert.Contains(t, logs.String(), "socket closed")
}

func TestPayload(t *testing.T) {
	n := &node.Node{ID: "a", Type: "T", X: 1, InputPins: map[string]string{}}
	p, err := Payload(events.Event{Type: events.NodeUpdate, Node: n, InvalidateOutput: true})
	require.NoError(t, err)

	assert.Equal(t, events.NodeUpdate, p["type"])
	assert.Equal(t, true, p["invalidateOutput"])
	assert.Equal(t, 1.0, p["node"].(map[string]any)["x"])
	assert.NotContains(t, p, "nodes")
	assert.NotContains(t, p, "connection")
}

func TestDial_RejectsRelativeURL(t *testing.T) {
	ctx, _ := testutil.Context(t)
	_, err := Dial(ctx, DialOptions{URL: "/just/a/path"})
	assert.Error(t, err)

	_, err = Dial(ctx, DialOptions{URL: "::bad"})
	assert.Error(t, err)
}
