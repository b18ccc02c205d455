package domain

import (
	"fmt"
	"strings"
)

// NodeID is the value held by a node field. Two node fields are connected
// exactly when they hold the same NodeID, so every rename must go through a
// RenameTable to stay consistent across the whole document.
type NodeID string

// String returns the identifier as stored in the document
func (n NodeID) String() string {
	return string(n)
}

// IsBlank reports whether the identifier is empty or whitespace only
func (n NodeID) IsBlank() bool {
	return strings.TrimSpace(string(n)) == ""
}

// BetweenNode names the node joining the outlet of one component to the inlet of the next
func BetweenNode(from, to string) NodeID {
	return NodeID(fmt.Sprintf("%s_%s_node", from, to))
}

// DefaultPortNode is the identifier given to a blank port field
func DefaultPortNode(componentName, fieldName string) NodeID {
	return NodeID(fmt.Sprintf("%s_%s", componentName, fieldName))
}

// PlaceholderInlet returns the inlet node of a generated pipe
func PlaceholderInlet(componentName string) NodeID {
	return NodeID(componentName + "_inlet")
}

// PlaceholderOutlet returns the outlet node of a generated pipe
func PlaceholderOutlet(componentName string) NodeID {
	return NodeID(componentName + "_outlet")
}

// Zone node names derived from a zone name on the demand side of an air loop.

// ZoneInletNode returns "{zone} Inlet Node"
func ZoneInletNode(zone string) NodeID {
	return NodeID(zone + " Inlet Node")
}

// ZoneAirNode returns "{zone} Node"
func ZoneAirNode(zone string) NodeID {
	return NodeID(zone + " Node")
}

// ZoneOutletNode returns "{zone} Outlet Node"
func ZoneOutletNode(zone string) NodeID {
	return NodeID(zone + " Outlet Node")
}
