package graph

import (
	"github.com/specialistvlad/nodemachine/internal/datakind"
	"github.com/specialistvlad/nodemachine/internal/events"
	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/pinid"
)

// IsValidOutputPin reports whether pinID names an existing node and an
// output pin declared by that node's type.
func (m *Manager) IsValidOutputPin(pinID string) bool {
	addr := pinid.Decode(pinID)
	n, ok := m.store.Node(addr.Node)
	if !ok {
		return false
	}
	desc, err := m.registry.Descriptor(n.Type)
	if err != nil {
		return false
	}
	_, ok = desc.Output(addr.Pin)
	return ok
}

// IsValidInputPin reports whether pinID names an existing node and an input
// pin declared by that node's type.
func (m *Manager) IsValidInputPin(pinID string) bool {
	addr := pinid.Decode(pinID)
	n, ok := m.store.Node(addr.Node)
	if !ok {
		return false
	}
	desc, err := m.registry.Descriptor(n.Type)
	if err != nil {
		return false
	}
	_, ok = desc.Input(addr.Pin)
	return ok
}

// CreateConnection wires the output pin fromPinID into the input pin
// toPinID. It returns false, leaving the graph unchanged, when the edge
// would close a cycle, when either pin is not declared by its node's type,
// or when the produced data kind cannot feed the input. A connection already
// feeding toPinID is replaced.
func (m *Manager) CreateConnection(fromPinID, toPinID string) (node.Connection, bool) {
	c, ok := m.connect(fromPinID, toPinID)
	if !ok {
		return node.Connection{}, false
	}
	m.resolver.Invalidate(c.To.Node)

	m.bus.Emit(events.Event{
		Type:        events.ConnectionNew,
		Nodes:       m.store.Nodes(),
		Connections: m.store.Connections(),
		Connection:  &c,
	})
	return c, true
}

// connect validates and records a connection without notifying anyone.
func (m *Manager) connect(fromPinID, toPinID string) (node.Connection, bool) {
	from := pinid.Decode(fromPinID)
	to := pinid.Decode(toPinID)

	if m.wouldCycle(from.Node, to.Node) {
		m.logger.Debug("Rejected connection closing a cycle.", "from", fromPinID, "to", toPinID)
		return node.Connection{}, false
	}
	if !m.IsValidOutputPin(fromPinID) || !m.IsValidInputPin(toPinID) {
		m.logger.Debug("Rejected connection between undeclared pins.", "from", fromPinID, "to", toPinID)
		return node.Connection{}, false
	}
	if !m.kindsMatch(from, to) {
		m.logger.Debug("Rejected connection between incompatible pins.", "from", fromPinID, "to", toPinID)
		return node.Connection{}, false
	}

	if prev, ok := m.store.UnlinkDestination(toPinID); ok {
		m.resolver.Invalidate(prev.To.Node)
		m.logger.Debug("Replaced connection.", "from", prev.From.PinID(), "to", toPinID)
	}

	c := node.NewConnection(fromPinID, to.Node, to.Pin)
	m.store.Link(c)
	m.logger.Debug("Connection created.", "from", fromPinID, "to", toPinID)
	return c, true
}

func (m *Manager) kindsMatch(from, to pinid.Address) bool {
	src, _ := m.store.Node(from.Node)
	dst, _ := m.store.Node(to.Node)
	produced, ok := m.registry.OutputKind(src.Type, from.Pin)
	if !ok {
		return false
	}
	accepted, ok := m.registry.InputKinds(dst.Type, to.Pin)
	if !ok {
		return false
	}
	return datakind.Compatible(produced, accepted)
}

// wouldCycle reports whether adding an edge fromNode -> toNode closes a
// cycle, that is whether fromNode is reachable from toNode over the existing
// connections.
func (m *Manager) wouldCycle(fromNode, toNode string) bool {
	if fromNode == toNode {
		return true
	}

	visited := map[string]struct{}{toNode: {}}
	stack := []string{toNode}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range m.consumers(current) {
			if next == fromNode {
				return true
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			stack = append(stack, next)
		}
	}
	return false
}

// consumers returns the nodes fed by id. It follows the output schema of the
// node's type and falls back to every recorded fan-out when the type is not
// registered.
func (m *Manager) consumers(id string) []string {
	n, ok := m.store.Node(id)
	if !ok {
		return m.store.Downstream(id)
	}
	desc, err := m.registry.Descriptor(n.Type)
	if err != nil {
		return m.store.Downstream(id)
	}
	outputs := make([]string, len(desc.Outputs))
	for i, out := range desc.Outputs {
		outputs[i] = out.Name
	}
	return m.store.Consumers(id, outputs)
}

// DestroyConnection removes the connection feeding pinID when pinID is a
// connected input pin; otherwise, when pinID is an output pin with fan-out,
// it removes every connection leaving it. Destinations lose their input pin
// and cached outputs. It returns false if nothing was connected.
func (m *Manager) DestroyConnection(pinID string) bool {
	var removed []node.Connection
	if c, ok := m.store.UnlinkDestination(pinID); ok {
		removed = []node.Connection{c}
	} else {
		removed = m.store.UnlinkSource(pinID)
	}
	if len(removed) == 0 {
		return false
	}

	for _, c := range removed {
		m.resolver.Invalidate(c.To.Node)
	}
	m.logger.Debug("Connections destroyed.", "pin_id", pinID, "count", len(removed))

	m.bus.Emit(events.Event{
		Type:        events.ConnectionDelete,
		Nodes:       m.store.Nodes(),
		Connections: m.store.Connections(),
		Connection:  &removed[0],
		Extra:       map[string]any{"removed": removed},
	})
	return true
}
