package node

import "github.com/specialistvlad/nodemachine/internal/pinid"

// Endpoint is one side of a connection.
type Endpoint struct {
	Node string `json:"node" yaml:"node"`
	Pin  string `json:"pin" yaml:"pin"`
}

// PinID returns the pin identifier of the endpoint.
func (e Endpoint) PinID() string {
	return pinid.Encode(e.Node, e.Pin)
}

// Connection is a directed edge from an output pin to an input pin.
type Connection struct {
	From Endpoint `json:"from" yaml:"from"`
	To   Endpoint `json:"to" yaml:"to"`
}

// NewConnection builds the connection feeding toPin of toNode from the given
// source pin identifier.
func NewConnection(fromPinID, toNode, toPin string) Connection {
	from := pinid.Decode(fromPinID)
	return Connection{
		From: Endpoint{Node: from.Node, Pin: from.Pin},
		To:   Endpoint{Node: toNode, Pin: toPin},
	}
}

// ConnectionMap is the connection index keyed by destination pin identifier.
type ConnectionMap map[string]Connection
