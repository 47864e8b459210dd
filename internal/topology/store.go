package topology

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/specialistvlad/nodemachine/internal/node"
	"github.com/specialistvlad/nodemachine/internal/pinid"
)

// Store is the in-memory graph store. It is not safe for concurrent use; a
// store belongs to exactly one editing session.
type Store struct {
	nodes  node.Map
	byDest node.ConnectionMap
	bySrc  map[string][]node.Connection
}

// New creates a new, empty store.
func New() *Store {
	return &Store{
		nodes:  node.Map{},
		byDest: node.ConnectionMap{},
		bySrc:  make(map[string][]node.Connection),
	}
}

// Restore replaces the whole node set and rebuilds both indexes from each
// node's InputPins. When the same destination pin is declared more than once
// the first declaration seen wins. Nodes and pins are visited in sorted order,
// and a declaration that would close a cycle with the connections baked so
// far is dropped from the node and returned.
func (s *Store) Restore(nodes node.Map) []node.Connection {
	s.nodes = make(node.Map, len(nodes))
	s.byDest = node.ConnectionMap{}
	s.bySrc = make(map[string][]node.Connection)

	var dropped []node.Connection
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		n := nodes[id].Clone()
		if n == nil {
			continue
		}
		n.ID = id
		s.nodes[id] = n

		pins := make([]string, 0, len(n.InputPins))
		for pin := range n.InputPins {
			pins = append(pins, pin)
		}
		sort.Strings(pins)

		for _, pin := range pins {
			from := n.InputPins[pin]
			if from == "" {
				delete(n.InputPins, pin)
				continue
			}
			toPinID := pinid.Encode(id, pin)
			if _, exists := s.byDest[toPinID]; exists {
				continue
			}
			conn := node.NewConnection(from, id, pin)
			if conn.From.Node == id || s.Reaches(id, conn.From.Node) {
				delete(n.InputPins, pin)
				dropped = append(dropped, conn)
				continue
			}
			s.byDest[toPinID] = conn
			s.addSource(conn)
		}
	}
	return dropped
}

// Nodes returns the current node map snapshot.
func (s *Store) Nodes() node.Map {
	return s.nodes
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (*node.Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// Put inserts or replaces a node. The node's InputPins are taken as given;
// use Link and Unlink to change connections.
func (s *Store) Put(n *node.Node) {
	next := maps.Clone(s.nodes)
	next[n.ID] = n
	s.nodes = next
}

// Delete removes a node without touching connections.
func (s *Store) Delete(id string) bool {
	if _, ok := s.nodes[id]; !ok {
		return false
	}
	next := maps.Clone(s.nodes)
	delete(next, id)
	s.nodes = next
	return true
}

// Connections returns the destination index snapshot.
func (s *Store) Connections() node.ConnectionMap {
	return s.byDest
}

// Incoming returns the connection feeding the given input pin.
func (s *Store) Incoming(toPinID string) (node.Connection, bool) {
	c, ok := s.byDest[toPinID]
	return c, ok
}

// Outgoing returns a copy of the fan-out list of the given output pin.
func (s *Store) Outgoing(fromPinID string) []node.Connection {
	return slices.Clone(s.bySrc[fromPinID])
}

// Link records a connection in both indexes and wires the destination node's
// input pin. An existing connection into the same input pin is replaced.
func (s *Store) Link(c node.Connection) {
	toPinID := c.To.PinID()
	if _, exists := s.byDest[toPinID]; exists {
		s.UnlinkDestination(toPinID)
	}

	next := maps.Clone(s.byDest)
	next[toPinID] = c
	s.byDest = next
	s.addSource(c)

	if dest, ok := s.nodes[c.To.Node]; ok {
		s.Put(dest.WithInput(c.To.Pin, c.From.PinID()))
	}
}

// UnlinkDestination removes the connection feeding the given input pin.
func (s *Store) UnlinkDestination(toPinID string) (node.Connection, bool) {
	c, ok := s.byDest[toPinID]
	if !ok {
		return node.Connection{}, false
	}

	next := maps.Clone(s.byDest)
	delete(next, toPinID)
	s.byDest = next
	s.removeSource(c)

	if dest, ok := s.nodes[c.To.Node]; ok {
		s.Put(dest.WithoutInput(c.To.Pin))
	}
	return c, true
}

// UnlinkSource removes every connection leaving the given output pin.
func (s *Store) UnlinkSource(fromPinID string) []node.Connection {
	fanOut := s.Outgoing(fromPinID)
	for _, c := range fanOut {
		s.UnlinkDestination(c.To.PinID())
	}
	return fanOut
}

// SourcePins returns, sorted, the output pin ids of nodeID that currently
// feed at least one connection.
func (s *Store) SourcePins(nodeID string) []string {
	prefix := nodeID + pinid.Separator
	var pins []string
	for pin := range s.bySrc {
		if strings.HasPrefix(pin, prefix) {
			pins = append(pins, pin)
		}
	}
	sort.Strings(pins)
	return pins
}

// Consumers returns, sorted and without duplicates, the ids of the nodes fed
// by any of the given output pins of nodeID.
func (s *Store) Consumers(nodeID string, outputPins []string) []string {
	seen := make(map[string]struct{})
	for _, pin := range outputPins {
		for _, c := range s.bySrc[pinid.Encode(nodeID, pin)] {
			seen[c.To.Node] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Downstream returns, sorted and without duplicates, the ids of the nodes
// fed by any output pin of nodeID according to the fan-out index.
func (s *Store) Downstream(nodeID string) []string {
	seen := make(map[string]struct{})
	for _, pin := range s.SourcePins(nodeID) {
		for _, c := range s.bySrc[pin] {
			seen[c.To.Node] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reaches reports whether target is downstream of start over the fan-out
// index. A node does not reach itself unless it sits on a cycle.
func (s *Store) Reaches(start, target string) bool {
	visited := map[string]struct{}{}
	stack := []string{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range s.Downstream(current) {
			if next == target {
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

func (s *Store) addSource(c node.Connection) {
	fromPinID := c.From.PinID()
	list := append(slices.Clone(s.bySrc[fromPinID]), c)
	sort.Slice(list, func(i, j int) bool {
		return list[i].To.PinID() < list[j].To.PinID()
	})
	s.bySrc[fromPinID] = list
}

func (s *Store) removeSource(c node.Connection) {
	fromPinID := c.From.PinID()
	list := slices.DeleteFunc(slices.Clone(s.bySrc[fromPinID]), func(other node.Connection) bool {
		return other.To == c.To
	})
	if len(list) == 0 {
		delete(s.bySrc, fromPinID)
		return
	}
	s.bySrc[fromPinID] = list
}
