// internal/nodeid/port.go
package nodeid

import (
	"fmt"

	"github.com/specialistvlad/filtergrid/internal/schema"
)

// Port identifies one attribute of one node, together with the direction
// values flow through it.
type Port struct {
	Node      string
	Attribute string
	Direction schema.Direction
}

// In builds an input port.
func In(node, attribute string) Port {
	return Port{Node: node, Attribute: attribute, Direction: schema.DirectionIn}
}

// Out builds an output port.
func Out(node, attribute string) Port {
	return Port{Node: node, Attribute: attribute, Direction: schema.DirectionOut}
}

// String serializes the port into its canonical representation.
func (p Port) String() string {
	return fmt.Sprintf("%s.%s:%s", p.Node, p.Attribute, p.Direction)
}

// IsZero reports whether the port is unset.
func (p Port) IsZero() bool {
	return p == Port{}
}
