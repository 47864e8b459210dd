// Package resolver computes node outputs on demand.
//
// Resolving a node resolves, in input schema order, every upstream node wired
// into its input pins, extracts the named output each pin is connected to,
// and hands the collected inputs to the type's compute function. Results are
// memoized per node id until invalidated; invalidation walks the fan-out
// index downstream, which always terminates because the graph is kept acyclic.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/nodemachine/internal/ctxlog"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/pinid"
	"github.com/specialistvlad/nodemachine/internal/registry"
	"github.com/specialistvlad/nodemachine/internal/topology"
)

// ErrCycle is returned when a node is reached again while its own inputs are
// still being resolved.
var ErrCycle = errors.New("dependency cycle")

// Engine is the memoizing resolution engine of one editing session.
type Engine struct {
	logger   *slog.Logger
	registry *registry.Registry
	store    *topology.Store
	cache    Cache
	// pinned holds values that override what an output pin yields to its consumers.
	pinned map[string]any
	// resolving holds the ids on the current resolution path.
	resolving map[string]struct{}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithCache replaces the default in-memory cache.
func WithCache(c Cache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// New creates a resolution engine reading nodes and connections from store.
func New(ctx context.Context, reg *registry.Registry, store *topology.Store, opts ...Option) *Engine {
	e := &Engine{
		logger:    ctxlog.FromContext(ctx).With("component", "resolver"),
		registry:  reg,
		store:     store,
		cache:     NewMemoryCache(),
		pinned:    make(map[string]any),
		resolving: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve returns the outputs of n, computing them if they are not cached.
// Errors from compute functions, and unknown types anywhere upstream, are
// returned unchanged and nothing is cached for the failing node.
func (e *Engine) Resolve(n *node.Node) (node.Outputs, error) {
	if out, ok := e.cache.Get(n.ID); ok {
		e.logger.Debug("Resolved from cache.", "node_id", n.ID)
		return out, nil
	}

	if _, busy := e.resolving[n.ID]; busy {
		return nil, fmt.Errorf("%w through node '%s'", ErrCycle, n.ID)
	}
	e.resolving[n.ID] = struct{}{}
	defer delete(e.resolving, n.ID)

	desc, err := e.registry.Descriptor(n.Type)
	if err != nil {
		return nil, err
	}

	var inputs node.Inputs
	if desc.Inputs != nil {
		inputs = make(node.Inputs, len(desc.Inputs))
		for _, in := range desc.Inputs {
			val, err := e.resolvePin(n.InputPins[in.Name])
			if err != nil {
				return nil, err
			}
			inputs[in.Name] = val
		}
	}

	out, err := e.registry.Compute(n, inputs)
	if err != nil {
		e.logger.Debug("Node compute failed.", "node_id", n.ID, "type", n.Type, "error", err)
		return nil, err
	}

	e.cache.Set(n.ID, out)
	e.logger.Debug("Node resolved.", "node_id", n.ID, "type", n.Type, "outputs", len(out))
	return out, nil
}

// ResolveID resolves the stored node with the given id. A missing node
// resolves to no output.
func (e *Engine) ResolveID(nodeID string) (node.Outputs, error) {
	n, ok := e.store.Node(nodeID)
	if !ok {
		return nil, nil
	}
	return e.Resolve(n)
}

// ResolvePin returns the value an output pin currently yields.
func (e *Engine) ResolvePin(pinID string) (any, error) {
	return e.resolvePin(pinID)
}

func (e *Engine) resolvePin(pinID string) (any, error) {
	if pinID == "" {
		return nil, nil
	}
	if v, ok := e.pinned[pinID]; ok {
		return v, nil
	}

	addr := pinid.Decode(pinID)
	src, ok := e.store.Node(addr.Node)
	if !ok {
		return nil, nil
	}
	out, err := e.Resolve(src)
	if err != nil {
		return nil, err
	}
	return out[addr.Pin], nil
}

// Cached returns the memoized outputs of a node without computing anything.
func (e *Engine) Cached(nodeID string) (node.Outputs, bool) {
	return e.cache.Get(nodeID)
}

// Invalidate drops the cached outputs of nodeID and of every node downstream
// of it.
func (e *Engine) Invalidate(nodeID string) {
	e.invalidate(nodeID, make(map[string]struct{}))
}

func (e *Engine) invalidate(nodeID string, visited map[string]struct{}) {
	if _, seen := visited[nodeID]; seen {
		return
	}
	visited[nodeID] = struct{}{}

	if e.cache.Delete(nodeID) {
		e.logger.Debug("Invalidated cached output.", "node_id", nodeID)
	}
	for _, consumer := range e.store.Downstream(nodeID) {
		e.invalidate(consumer, visited)
	}
}

// Forget drops the cached outputs of a single node, leaving consumers alone.
// It is used when a node leaves the graph.
func (e *Engine) Forget(nodeID string) {
	e.cache.Delete(nodeID)
}

// Pin overrides the value read through an output pin by all of its consumers
// and invalidates them.
func (e *Engine) Pin(pinID string, value any) {
	e.pinned[pinID] = value
	e.logger.Debug("Pinned output value.", "pin_id", pinID)
	e.invalidateConsumers(pinID)
}

// Unpin removes a pinned value and invalidates the pin's consumers.
func (e *Engine) Unpin(pinID string) {
	if _, ok := e.pinned[pinID]; !ok {
		return
	}
	delete(e.pinned, pinID)
	e.logger.Debug("Unpinned output value.", "pin_id", pinID)
	e.invalidateConsumers(pinID)
}

func (e *Engine) invalidateConsumers(pinID string) {
	for _, c := range e.store.Outgoing(pinID) {
		e.Invalidate(c.To.Node)
	}
}

// Reset drops every cached output. Pinned values are kept.
func (e *Engine) Reset() {
	e.cache.Clear()
}
