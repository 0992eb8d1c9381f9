package engine

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/filtergrid/internal/nodeid"
)

var (
	// ErrUnknownNode is returned for a node id that is not in the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownAttribute is returned for a path the node type does not declare.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrInvalidValue is returned when a value is outside an attribute's domain.
	ErrInvalidValue = errors.New("invalid value")
	// ErrNoPort is returned when unlinking an attribute that has no port.
	ErrNoPort = errors.New("attribute has no port")
)

// Reason classifies a rejected link.
type Reason string

const (
	ReasonIncompatibleDirection Reason = "incompatible_direction"
	ReasonIncompatibleType      Reason = "incompatible_type"
	ReasonSelfReference         Reason = "self_reference"
	ReasonCycle                 Reason = "cycle"
	ReasonIncompatibleNesting   Reason = "incompatible_nesting"
	ReasonNoPort                Reason = "no_port"
)

// Advisory messages shown for rejections the user can learn from.
const (
	SelfReferenceMessage = "A node cannot reference its own output as an input"
	CycleMessage         = "Potential cyclic reference detected"
)

// LinkRejectedError reports a link the graph rules refused. The graph is left
// unchanged.
type LinkRejectedError struct {
	Reason Reason
	From   nodeid.Port
	To     nodeid.Port
	Detail string
}

func (e *LinkRejectedError) Error() string {
	msg := fmt.Sprintf("link %s -> %s rejected: %s", e.From, e.To, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Advisory is a user-facing notice attached to a State.
type Advisory struct {
	Reason  Reason
	Message string
	From    nodeid.Port
	To      nodeid.Port
}

func (a Advisory) String() string {
	return a.Message
}
