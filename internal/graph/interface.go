package graph

import (
	"github.com/specialistvlad/nodemachine/internal/events"
	"github.com/specialistvlad/nodemachine/internal/node"
)

// Graph is the surface a rendering layer consumes. Manager is the only
// implementation; the interface exists so observers and bridges can be tested
// against fakes.
type Graph interface {
	// GetNodes returns the current node map. Treat it as read-only.
	GetNodes() node.Map
	// GetConnections returns the connection index keyed by destination pin.
	GetConnections() node.ConnectionMap

	// On binds a handler to an event name and returns its subscription.
	On(eventName string, h events.Handler) events.Subscription
	// Unbind removes a subscription from an event name.
	Unbind(eventName string, sub events.Subscription) bool

	// Resolve returns the memoized outputs of a node.
	Resolve(n *node.Node) (node.Outputs, error)
	// Render dispatches to the node type's render hook with the node's
	// resolved outputs.
	Render(n *node.Node) (any, error)
}

var _ Graph = (*Manager)(nil)
