package compiler

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/dag"
	"github.com/specialistvlad/filtergrid/internal/linkstore"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/nodestore"
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/internal/resolver"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// Options tune a compilation.
type Options struct {
	// StopAt ends emission right after the named node is processed.
	StopAt string
}

// Result is the output of a compilation.
type Result struct {
	// Body is the serialized top-level elements.
	Body     string
	Elements []*Element
	// Order lists the processed primitive ids in emission order.
	Order    []string
	Forest   *Forest
	Warnings []error
}

// Compiler compiles the graph held by a pair of stores.
type Compiler struct {
	reg   *registry.Registry
	nodes nodestore.Store
	links linkstore.Store
	res   *resolver.Resolver
}

// New creates a compiler over the given stores.
func New(reg *registry.Registry, nodes nodestore.Store, links linkstore.Store) *Compiler {
	return &Compiler{
		reg:   reg,
		nodes: nodes,
		links: links,
		res:   resolver.New(reg, nodes, links),
	}
}

// Compile emits the whole graph. It never fails on graph shape; the error is
// reserved for serialization failures.
func (c *Compiler) Compile(ctx context.Context, opts Options) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	result := &Result{}

	primitives := c.primitives()
	forest := c.Walk()
	result.Forest = forest

	if len(forest.Leaves) == 0 {
		for _, p := range primitives {
			if c.resultConnected(p) {
				result.Warnings = append(result.Warnings, &CyclicGraphWarning{})
				break
			}
		}
	}
	if err := c.detectCycles(); err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			result.Warnings = append(result.Warnings, &CyclicGraphWarning{Node: cycleErr.Node})
		}
	}

	sortByIndex(primitives, forest.Index)

	built := make(map[string]*Element, len(primitives))
	for _, p := range primitives {
		el, warns := c.element(p)
		built[p.inst.ID] = el
		result.Warnings = append(result.Warnings, warns...)
	}

	for _, p := range primitives {
		if err := c.nest(p, built); err != nil {
			result.Warnings = append(result.Warnings, err)
		}
		result.Order = append(result.Order, p.inst.ID)
		if !p.nt.Nested() {
			result.Elements = append(result.Elements, built[p.inst.ID])
		}
		if opts.StopAt != "" && p.inst.ID == opts.StopAt {
			break
		}
	}

	body, err := Marshal(result.Elements, "")
	if err != nil {
		return nil, err
	}
	result.Body = body

	logger.Debug("Graph compiled.",
		"primitives", len(primitives),
		"leaves", len(forest.Leaves),
		"emitted", len(result.Elements),
		"warnings", len(result.Warnings),
		"stop_at", opts.StopAt,
	)
	return result, nil
}

// detectCycles runs an exhaustive scan of the link graph.
func (c *Compiler) detectCycles() error {
	all := c.nodes.All()
	ids := make([]string, 0, len(all))
	for _, n := range all {
		ids = append(ids, n.ID)
	}
	return dag.FromLinks(ids, c.links.All()).DetectCycles()
}

// element builds the element of one primitive from its visible, non-empty
// attributes in declared order.
func (c *Compiler) element(p primitive) (*Element, []error) {
	el := &Element{ID: p.inst.ID, Name: p.nt.Ref}
	var warns []error

	resolved, err := c.res.Resolve(p.inst)
	if err != nil {
		return el, []error{err}
	}
	for i, spec := range p.nt.Attributes {
		r := resolved[i]
		if r.Warning != nil {
			warns = append(warns, r.Warning)
		}
		if _, isList := spec.EffectiveKind().(schema.ListKind); isList {
			continue
		}
		if spec.Private() || !r.Visible || r.Value == "" {
			continue
		}
		if spec.Name == "result" {
			if p.nt.Nested() || len(c.links.Outgoing(nodeid.Out(p.inst.ID, spec.Name))) == 0 {
				continue
			}
		}
		el.Attrs = append(el.Attrs, xml.Attr{Name: xml.Name{Local: spec.Name}, Value: r.Value + r.Unit})
	}
	return el, warns
}

// nest appends the children linked into the list attribute of a container.
func (c *Compiler) nest(p primitive, built map[string]*Element) error {
	if p.nt.Container == schema.ContainerNone {
		return nil
	}
	list, ok := p.nt.ListAttribute()
	if !ok {
		return nil
	}
	parent := built[p.inst.ID]
	refAttr := "in"
	if lt, err := c.reg.Lookup(p.nt.LinkElement); err == nil {
		if a, ok := lt.ResultAttribute(); ok {
			refAttr = a.Name
		}
	}
	for _, l := range c.links.Incoming(nodeid.In(p.inst.ID, list.Name)) {
		child, ok := built[l.From.Node]
		if !ok {
			continue
		}
		if p.nt.Container == schema.ContainerSynthesize && child.Name != p.nt.LinkElement {
			ref, err := c.res.Output(l.From)
			if err != nil {
				return fmt.Errorf("container %q: %w", p.inst.ID, err)
			}
			parent.Children = append(parent.Children, &Element{
				ID:    l.From.Node,
				Name:  p.nt.LinkElement,
				Attrs: []xml.Attr{{Name: xml.Name{Local: refAttr}, Value: ref}},
			})
			continue
		}
		parent.Children = append(parent.Children, child)
	}
	return nil
}
