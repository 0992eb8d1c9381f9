package compiler

import (
	"cmp"
	"slices"

	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// Index positions a node in the dependency forest. Leaves are at level 1;
// a dependency sits at least one level deeper than each of its dependents.
type Index struct {
	Level int
	Order int
}

// Tree is one node of the dependency forest with the nodes it depends on.
type Tree struct {
	ID   string
	Deps []*Tree
}

// Forest is the result of a backward walk from the leaves.
type Forest struct {
	Roots []*Tree
	Index map[string]Index
	// Leaves lists the leaf ids in store order.
	Leaves []string
}

// Visited reports whether id was reached by the walk.
func (f *Forest) Visited(id string) bool {
	_, ok := f.Index[id]
	return ok
}

type walker struct {
	c      *Compiler
	index  map[string]Index
	stamps map[string]int
	stamp  int
	path   map[string]bool
	trees  map[string]*Tree
}

// Walk builds the dependency forest of the current graph. It only reads the
// stores.
func (c *Compiler) Walk() *Forest {
	primitives := c.primitives()
	w := &walker{
		c:      c,
		index:  make(map[string]Index),
		stamps: make(map[string]int),
		path:   make(map[string]bool),
		trees:  make(map[string]*Tree),
	}

	f := &Forest{}
	for _, p := range primitives {
		if !c.isLeaf(p) {
			continue
		}
		f.Leaves = append(f.Leaves, p.inst.ID)
		f.Roots = append(f.Roots, w.visit(p.inst.ID, 1))
	}

	// Earlier visits get a higher order so they sort first within a level.
	f.Index = make(map[string]Index, len(w.index))
	for id, idx := range w.index {
		idx.Order = w.stamp - w.stamps[id] + 1
		f.Index[id] = idx
	}
	return f
}

// visit records id at level and descends into its dependencies. A node keeps
// the deepest level it was reached at. Reaching a node already on the current
// path returns nil, so the forest never contains a cycle.
func (w *walker) visit(id string, level int) *Tree {
	if w.path[id] {
		return nil
	}
	tree, seen := w.trees[id]
	if !seen {
		tree = &Tree{ID: id}
		w.trees[id] = tree
	}
	if idx, ok := w.index[id]; ok && idx.Level >= level {
		return tree
	}

	w.stamp++
	w.index[id] = Index{Level: level}
	w.stamps[id] = w.stamp

	w.path[id] = true
	defer delete(w.path, id)

	deps := w.c.dependencies(id)
	tree.Deps = tree.Deps[:0]
	for _, dep := range deps {
		if sub := w.visit(dep, level+1); sub != nil {
			tree.Deps = append(tree.Deps, sub)
		}
	}
	return tree
}

// dependencies lists the primitives feeding id through its dynamic ports and,
// for synthesize containers, through its list attribute. Order follows the
// attribute declaration, then link order.
func (c *Compiler) dependencies(id string) []string {
	inst, ok := c.nodes.Get(id)
	if !ok {
		return nil
	}
	nt, err := c.reg.Lookup(inst.Type)
	if err != nil {
		return nil
	}

	var deps []string
	for _, spec := range nt.Attributes {
		if spec.Flow() != schema.DirectionIn {
			continue
		}
		_, isList := spec.EffectiveKind().(schema.ListKind)
		if !spec.Dynamic() && !(isList && nt.Container == schema.ContainerSynthesize) {
			continue
		}
		for _, l := range c.links.Incoming(nodeid.In(id, spec.Name)) {
			if c.isPrimitive(l.From.Node) && !slices.Contains(deps, l.From.Node) {
				deps = append(deps, l.From.Node)
			}
		}
	}
	return deps
}

type primitive struct {
	inst *node.Instance
	nt   *schema.NodeType
}

// primitives returns the primitive nodes in store order.
func (c *Compiler) primitives() []primitive {
	var out []primitive
	for _, inst := range c.nodes.All() {
		nt, err := c.reg.Lookup(inst.Type)
		if err != nil || nt.Category != schema.CategoryPrimitive {
			continue
		}
		out = append(out, primitive{inst: inst, nt: nt})
	}
	return out
}

func (c *Compiler) isPrimitive(id string) bool {
	inst, ok := c.nodes.Get(id)
	if !ok {
		return false
	}
	nt, err := c.reg.Lookup(inst.Type)
	return err == nil && nt.Category == schema.CategoryPrimitive
}

// resultConnected reports whether the node's result port feeds any link.
func (c *Compiler) resultConnected(p primitive) bool {
	result, ok := p.nt.ResultAttribute()
	if !ok {
		return false
	}
	return len(c.links.Outgoing(nodeid.Out(p.inst.ID, result.Name))) > 0
}

func (c *Compiler) isLeaf(p primitive) bool {
	return !c.resultConnected(p)
}

// sortByIndex orders primitives by level, order and creation sequence, all
// descending. Unvisited primitives have the zero index and sort last.
func sortByIndex(ps []primitive, index map[string]Index) {
	slices.SortStableFunc(ps, func(a, b primitive) int {
		ia, ib := index[a.inst.ID], index[b.inst.ID]
		return cmp.Or(
			cmp.Compare(ib.Level, ia.Level),
			cmp.Compare(ib.Order, ia.Order),
			cmp.Compare(b.inst.Seq, a.inst.Seq),
		)
	})
}
