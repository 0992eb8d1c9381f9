package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// observer is implemented by generators that must learn about ids they did
// not hand out, such as nodeid.SequenceGenerator.
type observer interface {
	Observe(id string)
}

// CreateNode places a new node of the given type. Every attribute path is
// initialized from the type's defaults; the new id is State.Subject.
func (e *Engine) CreateNode(ctx context.Context, typeRef string, pos node.Position) (st *State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func(start time.Time) { e.finish(ctx, "create_node", start, err) }(time.Now())

	nt, err := e.reg.Lookup(typeRef)
	if err != nil {
		return nil, err
	}

	inst := node.New(e.ids.Next(nt.Ref), nt.Ref, clamp(pos))
	initialize(inst, nt)
	stored, err := e.nodes.Insert(inst)
	if err != nil {
		return nil, fmt.Errorf("failed to create node %q: %w", inst.ID, err)
	}

	ctxlog.FromContext(ctx).Debug("Node created.", "id", stored.ID, "type", nt.Ref, "seq", stored.Seq)
	e.sweep(ctx)
	return e.snapshot(ctx, stored.ID, nil), nil
}

// RestoreNode inserts a node with a known id, position and creation ordinal.
// inst.Values is keyed like SetAttribute paths and is applied in key order,
// so a compound value is overridden by its own field paths. Anything not
// given keeps the type's default.
func (e *Engine) RestoreNode(ctx context.Context, inst *node.Instance) (st *State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func(start time.Time) { e.finish(ctx, "restore_node", start, err) }(time.Now())

	nt, err := e.reg.Lookup(inst.Type)
	if err != nil {
		return nil, err
	}

	restored := node.New(inst.ID, nt.Ref, clamp(inst.Position))
	restored.Seq = inst.Seq
	initialize(restored, nt)
	for _, path := range slices.Sorted(maps.Keys(inst.Values)) {
		updates, err := assign(nt, path, inst.Values[path])
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", inst.ID, err)
		}
		maps.Copy(restored.Values, updates)
	}
	stored, err := e.nodes.Insert(restored)
	if err != nil {
		return nil, fmt.Errorf("failed to restore node %q: %w", inst.ID, err)
	}
	if o, ok := e.ids.(observer); ok {
		o.Observe(stored.ID)
	}

	ctxlog.FromContext(ctx).Debug("Node restored.", "id", stored.ID, "type", nt.Ref, "seq", stored.Seq)
	e.sweep(ctx)
	return e.snapshot(ctx, stored.ID, nil), nil
}

// SetAttribute stores a value at an attribute path of a node.
func (e *Engine) SetAttribute(ctx context.Context, id, path, value string) (st *State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func(start time.Time) { e.finish(ctx, "set_attribute", start, err) }(time.Now())

	inst, nt, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	updates, err := assign(nt, path, value)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", id, err)
	}
	maps.Copy(inst.Values, updates)
	if err := e.nodes.Put(inst); err != nil {
		return nil, fmt.Errorf("failed to update node %q: %w", id, err)
	}

	ctxlog.FromContext(ctx).Debug("Attribute set.", "id", id, "path", path, "value", value)
	e.sweep(ctx)
	return e.snapshot(ctx, id, nil), nil
}

// Reposition moves a node. Coordinates are clamped to the positive quadrant.
func (e *Engine) Reposition(ctx context.Context, id string, x, y float64) (st *State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func(start time.Time) { e.finish(ctx, "reposition", start, err) }(time.Now())

	inst, ok := e.nodes.Get(id)
	if !ok {
		return nil, fmt.Errorf("node %q: %w", id, ErrUnknownNode)
	}
	inst.Position = clamp(node.Position{X: x, Y: y})
	if err := e.nodes.Put(inst); err != nil {
		return nil, fmt.Errorf("failed to move node %q: %w", id, err)
	}
	return e.snapshot(ctx, id, nil), nil
}

// DeleteNode removes a node and every link touching it. Nested-type children
// linked into its list attribute are deleted with it; other children are
// only unlinked.
func (e *Engine) DeleteNode(ctx context.Context, id string) (st *State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func(start time.Time) { e.finish(ctx, "delete_node", start, err) }(time.Now())

	if _, ok := e.nodes.Get(id); !ok {
		return nil, fmt.Errorf("node %q: %w", id, ErrUnknownNode)
	}
	deleted := e.deleteNode(id)

	ctxlog.FromContext(ctx).Debug("Node deleted.", "id", id, "cascade", deleted)
	e.sweep(ctx)
	return e.snapshot(ctx, id, nil), nil
}

func (e *Engine) deleteNode(id string) []string {
	inst, ok := e.nodes.Get(id)
	if !ok {
		return nil
	}
	deleted := []string{id}

	if nt, err := e.reg.Lookup(inst.Type); err == nil {
		if list, ok := nt.ListAttribute(); ok {
			for _, l := range e.links.Incoming(nodeid.In(id, list.Name)) {
				e.links.Remove(l)
				child, ok := e.nodes.Get(l.From.Node)
				if !ok {
					continue
				}
				if ct, err := e.reg.Lookup(child.Type); err == nil && ct.NestsIn(nt.Ref) {
					deleted = append(deleted, e.deleteNode(child.ID)...)
				}
			}
		}
	}

	for _, l := range e.links.Touching(id) {
		e.links.Remove(l)
	}
	e.nodes.Delete(id)
	return deleted
}

// initialize fills every attribute path of a new instance with its default.
func initialize(inst *node.Instance, nt *schema.NodeType) {
	for _, spec := range nt.Attributes {
		switch k := spec.EffectiveKind().(type) {
		case schema.ListKind:
		case schema.CompoundKind:
			if spec.HasDefault {
				for p, v := range splitCompound(spec.Name, k, spec.DefaultVal) {
					inst.Values[p] = v
				}
				break
			}
			for _, f := range k.Fields {
				inst.Values[node.FieldPath(spec.Name, f.Name)] = f.Default()
			}
		default:
			v := spec.Default()
			if schema.IsReference(k) && v == "" {
				v = inst.ID
			}
			inst.Values[spec.Name] = v
		}
		if len(spec.Units) > 0 {
			inst.Values[node.UnitPath(spec.Name)] = spec.Units[0]
		}
	}
}

// splitCompound distributes a whitespace-separated value over the fields of
// a compound, one token per field. The last field takes any remainder;
// fields without a token get their own default.
func splitCompound(name string, k schema.CompoundKind, value string) map[string]string {
	tokens := strings.Fields(value)
	out := make(map[string]string, len(k.Fields))
	for i, f := range k.Fields {
		path := node.FieldPath(name, f.Name)
		switch {
		case i >= len(tokens):
			out[path] = f.Default()
		case i == len(k.Fields)-1:
			out[path] = strings.Join(tokens[i:], " ")
		default:
			out[path] = tokens[i]
		}
	}
	return out
}

// assign validates path against the node type and returns the stored paths
// the value is written to.
func assign(nt *schema.NodeType, path, value string) (map[string]string, error) {
	name, field, unit := node.SplitPath(path)
	spec, ok := nt.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("%q on %q: %w", path, nt.Ref, ErrUnknownAttribute)
	}

	if unit {
		if len(spec.Units) == 0 {
			return nil, fmt.Errorf("%q on %q takes no unit: %w", name, nt.Ref, ErrUnknownAttribute)
		}
		if !slices.Contains(spec.Units, value) {
			return nil, fmt.Errorf("unit %q for %q, want one of %q: %w", value, name, spec.Units, ErrInvalidValue)
		}
		return map[string]string{path: value}, nil
	}

	if field != "" {
		f, ok := spec.Field(field)
		if !ok {
			return nil, fmt.Errorf("%q on %q: %w", path, nt.Ref, ErrUnknownAttribute)
		}
		if err := checkScalar(f.EffectiveKind(), path, value); err != nil {
			return nil, err
		}
		return map[string]string{path: value}, nil
	}

	switch k := spec.EffectiveKind().(type) {
	case schema.ListKind:
		return nil, fmt.Errorf("%q is set by linking children: %w", path, ErrInvalidValue)
	case schema.CompoundKind:
		return splitCompound(name, k, value), nil
	default:
		if err := checkScalar(k, path, value); err != nil {
			return nil, err
		}
		return map[string]string{path: value}, nil
	}
}

func checkScalar(k schema.Kind, path, value string) error {
	s, ok := k.(schema.ScalarKind)
	if !ok || s.Scalar != schema.ScalarEnum {
		return nil
	}
	v := strings.TrimSpace(value)
	if v == "" || slices.Contains(s.Options, v) {
		return nil
	}
	return fmt.Errorf("%q for %q, want one of %q: %w", value, path, s.Options, ErrInvalidValue)
}

func clamp(p node.Position) node.Position {
	return node.Position{X: max(p.X, 0), Y: max(p.Y, 0)}
}
