package pinid

import (
	"fmt"
	"strings"
)

// Separator joins the node id and the pin name.
const Separator = "."

// Address is the decoded form of a pin identifier.
type Address struct {
	Node string
	Pin  string
}

// Encode builds the pin identifier for the given node id and pin name.
func Encode(nodeID, pinName string) string {
	return nodeID + Separator + pinName
}

// Decode splits a pin identifier into its node id and pin name. Malformed
// input without a separator yields an Address with an empty Pin.
func Decode(pinID string) Address {
	nodeID, pinName, _ := strings.Cut(pinID, Separator)
	return Address{Node: nodeID, Pin: pinName}
}

// Parse is the strict variant of Decode: both halves must be present.
func Parse(pinID string) (Address, error) {
	if pinID == "" {
		return Address{}, fmt.Errorf("pin identifier cannot be empty")
	}
	nodeID, pinName, ok := strings.Cut(pinID, Separator)
	if !ok {
		return Address{}, fmt.Errorf("pin identifier %q has no %q separator", pinID, Separator)
	}
	if nodeID == "" {
		return Address{}, fmt.Errorf("pin identifier %q has an empty node id", pinID)
	}
	if pinName == "" {
		return Address{}, fmt.Errorf("pin identifier %q has an empty pin name", pinID)
	}
	return Address{Node: nodeID, Pin: pinName}, nil
}

// String returns the canonical pin identifier.
func (a Address) String() string {
	return Encode(a.Node, a.Pin)
}
