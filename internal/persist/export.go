package persist

import (
	"fmt"

	"github.com/specialistvlad/filtergrid/internal/compiler"
	"github.com/specialistvlad/filtergrid/internal/engine"
	"github.com/specialistvlad/filtergrid/internal/node"
)

// Entry is one persisted node.
type Entry struct {
	ID  string        `json:"id" yaml:"id"`
	Ref string        `json:"ref" yaml:"ref"`
	Pos node.Position `json:"pos" yaml:"pos"`
	// Idx is the walk index as "LL.OO" (level, order). Unreached nodes have none.
	Idx string `json:"idx,omitempty" yaml:"idx,omitempty"`
	// Ord is the creation ordinal.
	Ord int `json:"ord" yaml:"ord"`
	// Ctrl maps attribute names to values, with "attr:unit" for units. Keys
	// are anything SetAttribute accepts.
	Ctrl map[string]string `json:"ctrl" yaml:"ctrl"`
	// Lnk maps each linked input attribute to its ordered source ports.
	Lnk map[string][]string `json:"lnk,omitempty" yaml:"lnk,omitempty"`
	Dep []Entry             `json:"dep,omitempty" yaml:"dep,omitempty"`
}

// Export snapshots the graph held by e. Every node appears exactly once.
func Export(e *engine.Engine) ([]Entry, error) {
	forest := e.Walk()
	nodes := make(map[string]*node.Instance)
	for _, n := range e.Nodes() {
		nodes[n.ID] = n
	}
	incoming := make(map[string]map[string][]string)
	for _, l := range e.Links() {
		byAttr, ok := incoming[l.To.Node]
		if !ok {
			byAttr = make(map[string][]string)
			incoming[l.To.Node] = byAttr
		}
		byAttr[l.To.Attribute] = append(byAttr[l.To.Attribute], l.From.String())
	}

	x := &exporter{e: e, forest: forest, nodes: nodes, incoming: incoming, seen: make(map[string]bool)}
	var doc []Entry
	for _, root := range forest.Roots {
		entry, ok, err := x.tree(root)
		if err != nil {
			return nil, err
		}
		if ok {
			doc = append(doc, entry)
		}
	}
	for _, n := range e.Nodes() {
		if x.seen[n.ID] {
			continue
		}
		x.seen[n.ID] = true
		entry, err := x.entry(n)
		if err != nil {
			return nil, err
		}
		doc = append(doc, entry)
	}
	return doc, nil
}

type exporter struct {
	e        *engine.Engine
	forest   *compiler.Forest
	nodes    map[string]*node.Instance
	incoming map[string]map[string][]string
	seen     map[string]bool
}

func (x *exporter) tree(t *compiler.Tree) (Entry, bool, error) {
	n, ok := x.nodes[t.ID]
	if !ok || x.seen[t.ID] {
		return Entry{}, false, nil
	}
	x.seen[t.ID] = true
	entry, err := x.entry(n)
	if err != nil {
		return Entry{}, false, err
	}
	for _, dep := range t.Deps {
		child, ok, err := x.tree(dep)
		if err != nil {
			return Entry{}, false, err
		}
		if ok {
			entry.Dep = append(entry.Dep, child)
		}
	}
	return entry, true, nil
}

func (x *exporter) entry(n *node.Instance) (Entry, error) {
	ctrl, err := x.e.Controls(n.ID)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to export node %q: %w", n.ID, err)
	}
	entry := Entry{
		ID:   n.ID,
		Ref:  n.Type,
		Pos:  n.Position,
		Ord:  n.Seq,
		Ctrl: ctrl,
		Lnk:  x.incoming[n.ID],
	}
	if idx, ok := x.forest.Index[n.ID]; ok {
		entry.Idx = fmt.Sprintf("%02d.%02d", idx.Level, idx.Order)
	}
	return entry, nil
}

// flatten lists every entry of a document depth first.
func flatten(doc []Entry) []Entry {
	var out []Entry
	for _, e := range doc {
		out = append(out, e)
		out = append(out, flatten(e.Dep)...)
	}
	return out
}
