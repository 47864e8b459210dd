package events

import (
	"github.com/specialistvlad/nodemachine/internal/node"
)

// Event names emitted by the graph manager.
const (
	NodeNew          = "node-new"
	NodeUpdate       = "node-update"
	NodeDelete       = "node-delete"
	ConnectionNew    = "connection-new"
	ConnectionDelete = "connection-delete"
	GraphRestore     = "graph-restore"
)

// Names lists every event name.
var Names = []string{NodeNew, NodeUpdate, NodeDelete, ConnectionNew, ConnectionDelete, GraphRestore}

// Event is the payload handed to handlers. Only the fields relevant to the
// event type are set.
type Event struct {
	Type             string
	Nodes            node.Map
	Connections      node.ConnectionMap
	Node             *node.Node
	Connection       *node.Connection
	InvalidateOutput bool
	Extra            map[string]any
}

// Handler receives events.
type Handler func(Event)
