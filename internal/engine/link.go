package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/dag"
	"github.com/specialistvlad/filtergrid/internal/linkstore"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// endpoint is one side of a proposed link, resolved against the schema.
type endpoint struct {
	port nodeid.Port
	inst *node.Instance
	nt   *schema.NodeType
	spec *schema.AttributeSpec
}

// Link joins two ports. The ports may be given in either order; their
// directions come from the schema. A rejected link returns a
// *LinkRejectedError and leaves the graph unchanged. Self references and
// cycles also return a State carrying an Advisory.
func (e *Engine) Link(ctx context.Context, a, b nodeid.Port) (st *State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func(start time.Time) { e.finish(ctx, "link", start, err) }(time.Now())

	src, dst, err := e.endpoints(a, b)
	if err != nil {
		return nil, err
	}
	reject := func(reason Reason, detail string) *LinkRejectedError {
		return &LinkRejectedError{Reason: reason, From: src.port, To: dst.port, Detail: detail}
	}
	advise := func(reason Reason, message string) (*State, error) {
		adv := Advisory{Reason: reason, Message: message, From: src.port, To: dst.port}
		return e.snapshot(ctx, dst.inst.ID, []Advisory{adv}), reject(reason, "")
	}

	if src.inst.ID == dst.inst.ID {
		return advise(ReasonSelfReference, SelfReferenceMessage)
	}
	if e.reaches(dst.inst.ID, src.inst.ID) {
		return advise(ReasonCycle, CycleMessage)
	}

	srcKind, dstKind := src.spec.EffectiveKind(), dst.spec.EffectiveKind()
	reference := schema.IsReference(srcKind)
	if schema.PortTypeOf(srcKind) != schema.PortTypeOf(dstKind) && !(dst.spec.Dynamic() && reference) {
		return nil, reject(ReasonIncompatibleType, fmt.Sprintf("%s into %s",
			schema.DescribeKind(srcKind), schema.DescribeKind(dstKind)))
	}

	if _, isList := dstKind.(schema.ListKind); isList {
		if err := e.checkNesting(src, dst, reference); err != nil {
			return nil, reject(ReasonIncompatibleNesting, err.Error())
		}
	} else if src.nt.Nested() {
		return nil, reject(ReasonIncompatibleNesting, fmt.Sprintf("%s only nests in %v", src.nt.Ref, src.nt.NestIn))
	}

	link := linkstore.Link{From: src.port, To: dst.port}
	if dst.spec.Relation() == schema.RelationOne {
		for _, l := range e.links.Incoming(dst.port) {
			if l != link {
				e.links.Remove(l)
			}
		}
	}
	if src.spec.Relation() == schema.RelationOne {
		for _, l := range e.links.Outgoing(src.port) {
			if l != link {
				e.links.Remove(l)
			}
		}
	}
	added := e.links.Add(link)

	ctxlog.FromContext(ctx).Debug("Ports linked.", "link", link.String(), "added", added)
	e.sweep(ctx)
	return e.snapshot(ctx, dst.inst.ID, nil), nil
}

// Unlink removes links at a port. For an input, source selects a single
// upstream port; nil removes every source. For an output, every consumer is
// removed. Nodes are never deleted.
func (e *Engine) Unlink(ctx context.Context, port nodeid.Port, source *nodeid.Port) (st *State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func(start time.Time) { e.finish(ctx, "unlink", start, err) }(time.Now())

	ep, err := e.endpoint(port)
	if err != nil {
		return nil, err
	}
	if !ep.spec.HasPort() {
		return nil, fmt.Errorf("%s: %w", port, ErrNoPort)
	}

	var removed int
	if ep.port.Direction == schema.DirectionOut {
		for _, l := range e.links.Outgoing(ep.port) {
			if e.links.Remove(l) {
				removed++
			}
		}
	} else {
		for _, l := range e.links.Incoming(ep.port) {
			if source != nil && l.From != *source {
				continue
			}
			if e.links.Remove(l) {
				removed++
			}
		}
	}

	ctxlog.FromContext(ctx).Debug("Port unlinked.", "port", ep.port.String(), "removed", removed)
	e.sweep(ctx)
	return e.snapshot(ctx, ep.inst.ID, nil), nil
}

// endpoints resolves both ports and orders them source first.
func (e *Engine) endpoints(a, b nodeid.Port) (src, dst *endpoint, err error) {
	pa, err := e.endpoint(a)
	if err != nil {
		return nil, nil, err
	}
	pb, err := e.endpoint(b)
	if err != nil {
		return nil, nil, err
	}
	if !pa.spec.HasPort() || !pb.spec.HasPort() {
		return nil, nil, &LinkRejectedError{Reason: ReasonNoPort, From: pa.port, To: pb.port}
	}
	if pa.port.Direction == pb.port.Direction {
		return nil, nil, &LinkRejectedError{Reason: ReasonIncompatibleDirection, From: pa.port, To: pb.port}
	}
	if pa.port.Direction == schema.DirectionIn {
		pa, pb = pb, pa
	}
	return pa, pb, nil
}

// endpoint resolves a port against its node type. The returned port carries
// the schema's direction rather than the caller's.
func (e *Engine) endpoint(p nodeid.Port) (*endpoint, error) {
	inst, nt, err := e.lookup(p.Node)
	if err != nil {
		return nil, err
	}
	spec, ok := nt.Attribute(p.Attribute)
	if !ok {
		return nil, &LinkRejectedError{Reason: ReasonNoPort, From: p, Detail: fmt.Sprintf("%q has no attribute %q", nt.Ref, p.Attribute)}
	}
	return &endpoint{
		port: nodeid.Port{Node: inst.ID, Attribute: spec.Name, Direction: spec.Flow()},
		inst: inst,
		nt:   nt,
		spec: spec,
	}, nil
}

// reaches reports whether from already feeds into to through the link graph.
func (e *Engine) reaches(from, to string) bool {
	all := e.nodes.All()
	ids := make([]string, 0, len(all))
	for _, n := range all {
		ids = append(ids, n.ID)
	}
	return dag.FromLinks(ids, e.links.All()).Reachable(from, to)
}

// checkNesting applies the nesting rules of a link into a list attribute.
func (e *Engine) checkNesting(src, dst *endpoint, reference bool) error {
	if !src.nt.NestsIn(dst.nt.Ref) {
		if dst.nt.Container == schema.ContainerSynthesize && reference && !src.nt.Nested() {
			return nil
		}
		return fmt.Errorf("%s cannot be nested in %s", src.nt.Ref, dst.nt.Ref)
	}
	if src.nt.NestLimit == 0 {
		return nil
	}
	count := 0
	for _, l := range e.links.Incoming(dst.port) {
		if l.From.Node == src.inst.ID {
			return nil
		}
		if sibling, ok := e.nodes.Get(l.From.Node); ok && sibling.Type == src.nt.Ref {
			count++
		}
	}
	if count >= src.nt.NestLimit {
		return fmt.Errorf("%s already holds %d %s", dst.nt.Ref, count, src.nt.Ref)
	}
	return nil
}
