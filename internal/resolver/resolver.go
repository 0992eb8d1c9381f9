package resolver

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/filtergrid/internal/linkstore"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/nodestore"
	"github.com/specialistvlad/filtergrid/internal/registry"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// maxDepth bounds how many links a single resolution may follow.
const maxDepth = 64

// Resolved is the effective state of one attribute.
type Resolved struct {
	Path string
	// Value is the compile form, always a single line.
	Value string
	// Display is the human form: padded matrix rows, "(n nodes)" summaries.
	Display string
	Unit    string
	Visible bool
	Linked  bool
	Sources []nodeid.Port
	Warning error
}

// Resolver reads values out of the node and link stores.
type Resolver struct {
	reg   *registry.Registry
	nodes nodestore.Store
	links linkstore.Store
}

// New creates a resolver over the given stores.
func New(reg *registry.Registry, nodes nodestore.Store, links linkstore.Store) *Resolver {
	return &Resolver{reg: reg, nodes: nodes, links: links}
}

// Resolve returns every top-level attribute of inst in declared order.
func (r *Resolver) Resolve(inst *node.Instance) ([]Resolved, error) {
	nt, err := r.reg.Lookup(inst.Type)
	if err != nil {
		return nil, err
	}
	out := make([]Resolved, 0, len(nt.Attributes))
	for _, spec := range nt.Attributes {
		out = append(out, r.attribute(inst, nt, spec, 0))
	}
	return out, nil
}

// Attribute resolves a single top-level attribute by name.
func (r *Resolver) Attribute(inst *node.Instance, name string) (Resolved, error) {
	nt, err := r.reg.Lookup(inst.Type)
	if err != nil {
		return Resolved{}, err
	}
	spec, ok := nt.Attribute(name)
	if !ok {
		return Resolved{}, fmt.Errorf("node type %q has no attribute %q", nt.Ref, name)
	}
	return r.attribute(inst, nt, spec, 0), nil
}

// Visible reports whether a top-level attribute passes its conditions.
func (r *Resolver) Visible(inst *node.Instance, spec *schema.AttributeSpec) bool {
	nt, err := r.reg.Lookup(inst.Type)
	if err != nil {
		return false
	}
	return r.visible(inst, nt, spec, 0)
}

// FieldVisible reports whether a compound sub-field is visible. A hidden
// parent hides all of its fields.
func (r *Resolver) FieldVisible(inst *node.Instance, parent, field *schema.AttributeSpec) bool {
	nt, err := r.reg.Lookup(inst.Type)
	if err != nil {
		return false
	}
	return r.visible(inst, nt, parent, 0) && r.visible(inst, nt, field, 0)
}

// Matrix returns the laid-out grid stored at path, which names either a
// top-level matrix attribute or a compound sub-field ("values._matrix").
func (r *Resolver) Matrix(inst *node.Instance, path string) (Grid, error) {
	nt, err := r.reg.Lookup(inst.Type)
	if err != nil {
		return Grid{}, err
	}
	name, field, _ := node.SplitPath(path)
	spec, ok := nt.Attribute(name)
	if !ok {
		return Grid{}, fmt.Errorf("node type %q has no attribute %q", nt.Ref, name)
	}
	if field != "" {
		if spec, ok = spec.Field(field); !ok {
			return Grid{}, fmt.Errorf("attribute %q of %q has no field %q", name, nt.Ref, field)
		}
	}
	k, ok := spec.EffectiveKind().(schema.MatrixKind)
	if !ok {
		return Grid{}, fmt.Errorf("attribute %q of %q is not a matrix", path, nt.Ref)
	}
	return r.matrix(inst, nt, path, spec, k, 0)
}

// Output returns the value flowing out of an output port.
func (r *Resolver) Output(port nodeid.Port) (string, error) {
	return r.output(port, 0)
}

// visible evaluates an OR-list of conditions against top-level siblings.
func (r *Resolver) visible(inst *node.Instance, nt *schema.NodeType, spec *schema.AttributeSpec, depth int) bool {
	if len(spec.Conditions) == 0 {
		return true
	}
	for _, c := range spec.Conditions {
		sibling, ok := nt.Attribute(c.Attribute)
		if !ok {
			continue
		}
		if r.value(inst, nt, sibling, depth).Value == c.Value {
			return true
		}
	}
	return false
}

func (r *Resolver) attribute(inst *node.Instance, nt *schema.NodeType, spec *schema.AttributeSpec, depth int) Resolved {
	res := r.value(inst, nt, spec, depth)
	res.Visible = r.visible(inst, nt, spec, depth)
	return res
}

// value resolves an attribute without evaluating its own visibility.
func (r *Resolver) value(inst *node.Instance, nt *schema.NodeType, spec *schema.AttributeSpec, depth int) Resolved {
	res := Resolved{Path: spec.Name}
	if len(spec.Units) > 0 {
		res.Unit = spec.Units[0]
		if u, ok := inst.Values[node.UnitPath(spec.Name)]; ok {
			res.Unit = u
		}
	}

	if depth > maxDepth {
		res.Warning = fmt.Errorf("attribute %q of %q: %w", spec.Name, inst.ID, ErrDepthExceeded)
		return res
	}

	if spec.Flow() == schema.DirectionIn {
		if incoming := r.links.Incoming(nodeid.In(inst.ID, spec.Name)); len(incoming) > 0 {
			r.linked(&res, spec, incoming, depth)
			return res
		}
	}

	switch k := spec.EffectiveKind().(type) {
	case schema.ScalarKind:
		res.Value = stored(inst, spec.Name, spec.Default())
		res.Display = res.Value
	case schema.CompoundKind:
		r.compound(&res, inst, nt, spec, k, depth)
	case schema.MatrixKind:
		grid, warn := r.matrix(inst, nt, spec.Name, spec, k, depth)
		res.Value, res.Display, res.Warning = grid.Compile(), grid.Display(), warn
	case schema.ListKind:
		res.Display = Summary(0, k.Word)
	default:
		panic(fmt.Sprintf("resolver: unhandled kind %T", k))
	}
	return res
}

// linked fills res from the sources of an input port.
func (r *Resolver) linked(res *Resolved, spec *schema.AttributeSpec, incoming []linkstore.Link, depth int) {
	res.Linked = true
	for _, l := range incoming {
		res.Sources = append(res.Sources, l.From)
	}

	if list, ok := spec.EffectiveKind().(schema.ListKind); ok {
		ids := make([]string, 0, len(incoming))
		for _, l := range incoming {
			ids = append(ids, l.From.Node)
		}
		res.Value = strings.Join(ids, " ")
		res.Display = Summary(len(ids), list.Word)
		return
	}

	// A relation-one input has a single source; with several, the latest wins.
	src := incoming[len(incoming)-1].From
	v, err := r.output(src, depth+1)
	if err != nil {
		res.Warning = err
	}
	res.Value, res.Display = v, v
}

func (r *Resolver) compound(res *Resolved, inst *node.Instance, nt *schema.NodeType, spec *schema.AttributeSpec, k schema.CompoundKind, depth int) {
	var values, displays []string
	for _, f := range k.Fields {
		if !r.visible(inst, nt, f, depth) {
			continue
		}
		path := node.FieldPath(spec.Name, f.Name)
		var v, d string
		if mk, ok := f.EffectiveKind().(schema.MatrixKind); ok {
			grid, warn := r.matrix(inst, nt, path, f, mk, depth)
			if warn != nil {
				res.Warning = warn
			}
			v, d = grid.Compile(), grid.Display()
		} else {
			v = stored(inst, path, f.Default())
			d = v
		}
		if v == "" {
			continue
		}
		values = append(values, v)
		displays = append(displays, d)
	}
	res.Value = strings.Join(values, " ")
	res.Display = strings.Join(displays, " ")
}

// matrix lays the stored grid at path out on its current dimensions.
func (r *Resolver) matrix(inst *node.Instance, nt *schema.NodeType, path string, spec *schema.AttributeSpec, k schema.MatrixKind, depth int) (Grid, error) {
	raw, ok := inst.Values[path]
	if !ok {
		raw = spec.Default()
	}

	dims := k.Size
	var warn error
	if k.SizeFrom != "" {
		if sibling, ok := nt.Attribute(k.SizeFrom); ok {
			sizeVal := r.value(inst, nt, sibling, depth+1).Value
			parsed, err := ParseDims(sizeVal)
			if err == nil {
				dims = parsed
			} else {
				warn = &MalformedMatrixSizeError{Attribute: path, SizeFrom: k.SizeFrom, Raw: sizeVal}
				if prior := storedDims(raw); prior.Valid() {
					dims = prior
				}
			}
		}
	}
	if !dims.Valid() {
		dims = storedDims(raw)
	}
	return NewGrid(raw, dims), warn
}

// output resolves the value of an output port, running the evaluator of
// auxiliary nodes.
func (r *Resolver) output(port nodeid.Port, depth int) (string, error) {
	if depth > maxDepth {
		return "", fmt.Errorf("output %s: %w", port, ErrDepthExceeded)
	}
	inst, ok := r.nodes.Get(port.Node)
	if !ok {
		return "", fmt.Errorf("output %s: %w", port, ErrDanglingLink)
	}
	nt, err := r.reg.Lookup(inst.Type)
	if err != nil {
		return "", fmt.Errorf("output %s: %w", port, err)
	}
	spec, ok := nt.Attribute(port.Attribute)
	if !ok {
		return "", fmt.Errorf("output %s: %w", port, ErrDanglingLink)
	}

	if nt.Evaluator != "" {
		if fn, ok := r.reg.Evaluator(nt.Evaluator); ok {
			inputs := make(map[string]string, len(nt.Attributes))
			var warn error
			for _, a := range nt.Attributes {
				if a.Flow() == schema.DirectionOut {
					continue
				}
				v := r.value(inst, nt, a, depth+1)
				if v.Warning != nil {
					warn = v.Warning
				}
				inputs[a.Name] = v.Value
			}
			outputs, err := fn(inputs)
			if err != nil {
				return "", &EvaluatorError{Node: inst.ID, Evaluator: nt.Evaluator, Err: err}
			}
			if v, ok := outputs[port.Attribute]; ok {
				return v, warn
			}
		}
	}
	return stored(inst, spec.Name, spec.Default()), nil
}

// stored returns the trimmed stored value at path, or def when unset.
func stored(inst *node.Instance, path, def string) string {
	if v, ok := inst.Values[path]; ok {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(def)
}

// Summary renders a count such as "(1 light)" or "(3 nodes)".
func Summary(n int, word string) string {
	if word == "" {
		word = "node"
	}
	if n == 1 {
		return fmt.Sprintf("(%d %s)", n, word)
	}
	return fmt.Sprintf("(%d %ss)", n, word)
}
