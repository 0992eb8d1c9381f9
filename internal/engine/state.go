package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/linkstore"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/resolver"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// State is the recomputed graph returned by every command.
type State struct {
	// Subject is the node the command acted on, e.g. the id of a created node.
	Subject    string
	Nodes      []NodeState
	Links      []linkstore.Link
	Advisories []Advisory
	Warnings   []error
}

// NodeState is one node with its resolved attributes and ports.
type NodeState struct {
	ID         string
	Type       string
	Position   node.Position
	Seq        int
	Attributes []resolver.Resolved
	Ports      []PortState
}

// PortState describes one port. Sources lists the upstream ports of an input;
// Targets lists the consumers of an output.
type PortState struct {
	Port      nodeid.Port
	Connected bool
	Sources   []nodeid.Port
	Targets   []nodeid.Port
}

// Node returns the state of the node with the given id.
func (s *State) Node(id string) (*NodeState, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}

// Attribute returns a resolved attribute by path.
func (n *NodeState) Attribute(path string) (resolver.Resolved, bool) {
	for _, a := range n.Attributes {
		if a.Path == path {
			return a, true
		}
	}
	return resolver.Resolved{}, false
}

// Port returns the state of the port on the named attribute.
func (n *NodeState) Port(attribute string) (PortState, bool) {
	for _, p := range n.Ports {
		if p.Port.Attribute == attribute {
			return p, true
		}
	}
	return PortState{}, false
}

func (e *Engine) snapshot(ctx context.Context, subject string, advisories []Advisory) *State {
	st := &State{
		Subject:    subject,
		Links:      e.links.All(),
		Advisories: advisories,
	}
	for _, inst := range e.nodes.All() {
		nt, err := e.reg.Lookup(inst.Type)
		if err != nil {
			st.Warnings = append(st.Warnings, fmt.Errorf("node %q: %w", inst.ID, err))
			continue
		}
		resolved, err := e.res.Resolve(inst)
		if err != nil {
			st.Warnings = append(st.Warnings, fmt.Errorf("node %q: %w", inst.ID, err))
			continue
		}
		ns := NodeState{
			ID:         inst.ID,
			Type:       inst.Type,
			Position:   inst.Position,
			Seq:        inst.Seq,
			Attributes: resolved,
		}
		for _, r := range resolved {
			if r.Warning != nil {
				st.Warnings = append(st.Warnings, fmt.Errorf("node %q: %w", inst.ID, r.Warning))
			}
		}
		for _, spec := range nt.Attributes {
			switch spec.Flow() {
			case schema.DirectionIn:
				p := PortState{Port: nodeid.In(inst.ID, spec.Name)}
				for _, l := range e.links.Incoming(p.Port) {
					p.Sources = append(p.Sources, l.From)
				}
				p.Connected = len(p.Sources) > 0
				ns.Ports = append(ns.Ports, p)
			case schema.DirectionOut:
				p := PortState{Port: nodeid.Out(inst.ID, spec.Name)}
				for _, l := range e.links.Outgoing(p.Port) {
					p.Targets = append(p.Targets, l.To)
				}
				p.Connected = len(p.Targets) > 0
				ns.Ports = append(ns.Ports, p)
			}
		}
		st.Nodes = append(st.Nodes, ns)
	}
	for _, a := range advisories {
		ctxlog.FromContext(ctx).Info("Advisory raised.", "reason", a.Reason, "message", a.Message, "from", a.From, "to", a.To)
	}
	return st
}
