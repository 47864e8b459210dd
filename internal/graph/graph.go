package graph

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/specialistvlad/nodemachine/internal/ctxlog"
	"github.com/specialistvlad/nodemachine/internal/events"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/pinid"
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/specialistvlad/nodemachine/internal/resolver"
	"github.com/specialistvlad/nodemachine/internal/topology"
)

// Manager composes the topology store, the resolution engine and the event
// bus of one editing session.
type Manager struct {
	logger   *slog.Logger
	registry *registry.Registry
	store    *topology.Store
	resolver *resolver.Engine
	bus      *events.Bus
}

// UpdateOptions controls the side effects of UpdateNode.
type UpdateOptions struct {
	// InvalidateOutput drops the cached outputs of the node and of every node
	// downstream of it.
	InvalidateOutput bool
}

type options struct {
	bus          *events.Bus
	resolverOpts []resolver.Option
}

// Option customizes a Manager.
type Option func(*options)

// WithBus makes the manager publish on an existing bus.
func WithBus(b *events.Bus) Option {
	return func(o *options) {
		o.bus = b
	}
}

// WithResolverOptions passes options to the resolution engine.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(o *options) {
		o.resolverOpts = append(o.resolverOpts, opts...)
	}
}

// New creates an empty graph backed by the given registry. The logger is
// taken from ctx.
func New(ctx context.Context, reg *registry.Registry, opts ...Option) *Manager {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bus == nil {
		o.bus = events.NewBus()
	}

	store := topology.New()
	return &Manager{
		logger:   ctxlog.FromContext(ctx).With("component", "graph"),
		registry: reg,
		store:    store,
		resolver: resolver.New(ctx, reg, store, o.resolverOpts...),
		bus:      o.bus,
	}
}

// Registry returns the type registry the graph instantiates nodes from.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// Resolver returns the resolution engine of the session.
func (m *Manager) Resolver() *resolver.Engine {
	return m.resolver
}

// GetNodes returns the current node map snapshot.
func (m *Manager) GetNodes() node.Map {
	return m.store.Nodes()
}

// GetConnections returns the current connection index snapshot.
func (m *Manager) GetConnections() node.ConnectionMap {
	return m.store.Connections()
}

// Node returns a node by id.
func (m *Manager) Node(id string) (*node.Node, bool) {
	return m.store.Node(id)
}

// On binds an event handler.
func (m *Manager) On(eventName string, h events.Handler) events.Subscription {
	return m.bus.On(eventName, h)
}

// Unbind removes an event handler.
func (m *Manager) Unbind(eventName string, sub events.Subscription) bool {
	return m.bus.Unbind(eventName, sub)
}

// CreateNode instantiates a node of typeName and adds it to the graph.
func (m *Manager) CreateNode(typeName string, args node.Args) (*node.Node, error) {
	n, err := m.registry.Instantiate(typeName, args)
	if err != nil {
		return nil, err
	}
	m.store.Put(n)
	m.logger.Debug("Node created.", "node_id", n.ID, "type", n.Type)

	m.bus.Emit(events.Event{
		Type:  events.NodeNew,
		Nodes: m.store.Nodes(),
		Node:  n,
	})
	return n, nil
}

// UpdateNode merges patch into the node and stores the result as a new value.
//
// Updating an id that is not in the graph stores a node carrying only the
// patched fields. A patch with InputPins rewires the node: every incoming
// connection is dropped and each listed source is connected again through the
// same checks CreateConnection applies. Sources that fail them stay
// unconnected.
func (m *Manager) UpdateNode(id string, patch node.Patch, opts UpdateOptions) *node.Node {
	prev, ok := m.store.Node(id)
	if !ok {
		m.logger.Warn("Updating a node that is not in the graph.", "node_id", id)
	}

	next := node.Patch{X: patch.X, Y: patch.Y, Width: patch.Width, Height: patch.Height, Data: patch.Data}.Apply(prev)
	next.ID = id
	m.store.Put(next)

	if patch.InputPins != nil {
		m.rewire(id, patch.InputPins)
		next, _ = m.store.Node(id)
	}

	if opts.InvalidateOutput {
		m.resolver.Invalidate(id)
	}
	m.logger.Debug("Node updated.", "node_id", id, "invalidate_output", opts.InvalidateOutput)

	m.bus.Emit(events.Event{
		Type:             events.NodeUpdate,
		Nodes:            m.store.Nodes(),
		Connections:      m.store.Connections(),
		Node:             next,
		InvalidateOutput: opts.InvalidateOutput,
	})
	return next
}

func (m *Manager) rewire(id string, inputPins map[string]string) {
	n, _ := m.store.Node(id)
	for _, pin := range slices.Sorted(maps.Keys(n.InputPins)) {
		m.store.UnlinkDestination(n.PinID(pin))
	}
	for _, pin := range slices.Sorted(maps.Keys(inputPins)) {
		from := inputPins[pin]
		if from == "" {
			continue
		}
		if _, ok := m.connect(from, pinid.Encode(id, pin)); !ok {
			m.logger.Debug("Dropped input pin rejected on rewire.", "node_id", id, "pin", pin, "from", from)
		}
	}
	m.resolver.Invalidate(id)
}

// DestroyNode removes a node together with every connection it is an
// endpoint of. Downstream nodes lose the matching input pins and their
// cached outputs. It returns false, without emitting, if id is unknown.
func (m *Manager) DestroyNode(id string) bool {
	n, ok := m.store.Node(id)
	if !ok {
		return false
	}

	for _, pin := range slices.Sorted(maps.Keys(n.InputPins)) {
		m.store.UnlinkDestination(n.PinID(pin))
	}

	var consumers []string
	for _, fromPinID := range m.sourcePins(n) {
		for _, c := range m.store.UnlinkSource(fromPinID) {
			consumers = append(consumers, c.To.Node)
		}
	}

	m.store.Delete(id)
	m.resolver.Forget(id)
	for _, consumer := range consumers {
		m.resolver.Invalidate(consumer)
	}
	m.logger.Debug("Node destroyed.", "node_id", id, "consumers", len(consumers))

	m.bus.Emit(events.Event{
		Type:        events.NodeDelete,
		Nodes:       m.store.Nodes(),
		Connections: m.store.Connections(),
		Node:        n,
	})
	return true
}

// sourcePins returns the output pin ids of n that feed connections: the
// ones declared in its type's output schema first, then any other fan-out
// left behind by a restore of hand-edited data.
func (m *Manager) sourcePins(n *node.Node) []string {
	var pins []string
	seen := make(map[string]struct{})
	if desc, err := m.registry.Descriptor(n.Type); err == nil {
		for _, out := range desc.Outputs {
			id := n.PinID(out.Name)
			pins = append(pins, id)
			seen[id] = struct{}{}
		}
	}
	for _, id := range m.store.SourcePins(n.ID) {
		if _, ok := seen[id]; !ok {
			pins = append(pins, id)
		}
	}
	return pins
}

// Resolve returns the memoized outputs of a node.
func (m *Manager) Resolve(n *node.Node) (node.Outputs, error) {
	return m.resolver.Resolve(n)
}

// ResolveID resolves the node with the given id.
func (m *Manager) ResolveID(id string) (node.Outputs, error) {
	return m.resolver.ResolveID(id)
}

// Invalidate drops the cached outputs of a node and everything downstream.
func (m *Manager) Invalidate(id string) {
	m.resolver.Invalidate(id)
}

// Pin overrides the value an output pin yields to its consumers.
func (m *Manager) Pin(pinID string, value any) {
	m.resolver.Pin(pinID, value)
}

// Unpin removes a value set with Pin.
func (m *Manager) Unpin(pinID string) {
	m.resolver.Unpin(pinID)
}

// Render resolves n and hands the result to its type's render hook.
func (m *Manager) Render(n *node.Node) (any, error) {
	out, err := m.resolver.Resolve(n)
	if err != nil {
		return nil, err
	}
	return m.registry.RenderNode(registry.RenderRequest{
		Node:     n,
		Resolver: m.resolver,
		Resolved: out,
	})
}

// Restore replaces the whole graph with a saved node map, drops every cached
// output and emits a single graph-restore event. Input pins that would close
// a cycle are left unconnected and returned.
func (m *Manager) Restore(nodes node.Map) []node.Connection {
	dropped := m.store.Restore(nodes)
	for _, c := range dropped {
		m.logger.Warn("Dropped connection closing a cycle on restore.", "from", c.From.PinID(), "to", c.To.PinID())
	}
	m.resolver.Reset()
	m.logger.Debug("Graph restored.", "nodes", m.store.Len(), "connections", len(m.store.Connections()))

	m.bus.Emit(events.Event{
		Type:        events.GraphRestore,
		Nodes:       m.store.Nodes(),
		Connections: m.store.Connections(),
	})
	return dropped
}

// Export returns a deep copy of the node map, the serialized form of the
// graph. Restore(Export()) rebuilds the same connection index.
func (m *Manager) Export() node.Map {
	nodes := m.store.Nodes()
	out := make(node.Map, len(nodes))
	for id, n := range nodes {
		out[id] = n.Clone()
	}
	return out
}
