// This file translates the decoded manifest blocks into the format-agnostic
// schema model.

package hcl

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/specialistvlad/filtergrid/internal/config"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

type translateState struct {
	raw      *collected
	done     map[string]*schema.AttributeType
	visiting map[string]bool
}

func (l *Loader) translate(ctx context.Context, raw *collected) (*config.Model, error) {
	st := &translateState{
		raw:      raw,
		done:     make(map[string]*schema.AttributeType),
		visiting: make(map[string]bool),
	}

	names := make([]string, 0, len(raw.types))
	for name := range raw.types {
		names = append(names, name)
	}
	sort.Strings(names)

	model := config.NewModel()
	for _, name := range names {
		t, err := l.translateAttributeType(ctx, st, name)
		if err != nil {
			return nil, err
		}
		model.AttributeTypes[name] = t
	}

	for _, n := range raw.nodes {
		nt, err := l.translateNode(ctx, st, n)
		if err != nil {
			return nil, err
		}
		model.NodeTypes = append(model.NodeTypes, nt)
	}
	return model, nil
}

// translateAttributeType resolves a named type, translating the types its
// compound fields refer to first.
func (l *Loader) translateAttributeType(ctx context.Context, st *translateState, name string) (*schema.AttributeType, error) {
	if t, ok := st.done[name]; ok {
		return t, nil
	}
	if st.visiting[name] {
		return nil, fmt.Errorf("attribute type %q refers to itself", name)
	}
	block, ok := st.raw.types[name]
	if !ok {
		return nil, fmt.Errorf("unknown attribute type %q", name)
	}
	st.visiting[name] = true
	defer delete(st.visiting, name)

	kind, err := kindExprToKind(ctx, block.Kind)
	if err != nil {
		return nil, fmt.Errorf("attribute type %q: %w", name, err)
	}

	switch k := kind.(type) {
	case schema.CompoundKind:
		fields, err := l.translateFields(ctx, st, "attribute type "+name, block.Fields)
		if err != nil {
			return nil, err
		}
		k.Fields = fields
		kind = k
	case schema.ListKind:
		k.Word = "node"
		if block.Word != nil {
			k.Word = *block.Word
		}
		kind = k
	}

	t := &schema.AttributeType{Name: name, Kind: kind}
	if block.Label != nil {
		t.Label = *block.Label
	}
	if block.Dynamic != nil {
		t.Dynamic = *block.Dynamic
	}
	if block.Flow != nil {
		if t.Flow, err = schema.ParseDirection(*block.Flow); err != nil {
			return nil, fmt.Errorf("attribute type %q: %w", name, err)
		}
	}
	// Inputs default to a single source, outputs may feed many consumers.
	t.Relation = schema.RelationOne
	if t.Flow == schema.DirectionOut {
		t.Relation = schema.RelationMany
	}
	if block.Relation != nil {
		if t.Relation, err = schema.ParseRelation(*block.Relation); err != nil {
			return nil, fmt.Errorf("attribute type %q: %w", name, err)
		}
	}
	if block.Default != nil && !block.Default.IsNull() {
		if t.DefaultVal, err = defaultString(*block.Default, kind); err != nil {
			return nil, fmt.Errorf("attribute type %q: invalid default: %w", name, err)
		}
		t.HasDefault = true
	}

	st.done[name] = t
	return t, nil
}

func (l *Loader) translateFields(ctx context.Context, st *translateState, owner string, blocks []*attributeBlock) ([]*schema.AttributeSpec, error) {
	fields := make([]*schema.AttributeSpec, 0, len(blocks))
	for _, fb := range blocks {
		f, err := l.translateAttribute(ctx, st, owner, fb)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// translateAttribute converts an attribute or field block into a spec. The
// type defaults to the attribute's own name.
func (l *Loader) translateAttribute(ctx context.Context, st *translateState, owner string, b *attributeBlock) (*schema.AttributeSpec, error) {
	typeName := b.Name
	if b.Type != nil {
		typeName = *b.Type
	}
	t, err := l.translateAttributeType(ctx, st, typeName)
	if err != nil {
		return nil, fmt.Errorf("%s, attribute %q: %w", owner, b.Name, err)
	}

	spec := &schema.AttributeSpec{Name: b.Name, Type: t, Units: b.Units}

	if isExprDefined(ctx, b.Kind, b.Name) {
		if spec.Kind, err = kindExprToKind(ctx, b.Kind); err != nil {
			return nil, fmt.Errorf("%s, attribute %q: %w", owner, b.Name, err)
		}
	}
	if len(b.Fields) > 0 {
		fields, err := l.translateFields(ctx, st, owner+", attribute "+b.Name, b.Fields)
		if err != nil {
			return nil, err
		}
		spec.Kind = schema.CompoundKind{Fields: fields}
	}
	if b.SizeFrom != nil {
		mk, ok := spec.EffectiveKind().(schema.MatrixKind)
		if !ok {
			return nil, fmt.Errorf("%s, attribute %q: size_from requires a matrix kind", owner, b.Name)
		}
		mk.SizeFrom = *b.SizeFrom
		spec.Kind = mk
	}
	if b.Label != nil {
		spec.Label = *b.Label
	}
	if b.Default != nil && !b.Default.IsNull() {
		if spec.DefaultVal, err = defaultString(*b.Default, spec.EffectiveKind()); err != nil {
			return nil, fmt.Errorf("%s, attribute %q: invalid default: %w", owner, b.Name, err)
		}
		spec.HasDefault = true
	}
	if b.Flow != nil {
		d, err := schema.ParseDirection(*b.Flow)
		if err != nil {
			return nil, fmt.Errorf("%s, attribute %q: %w", owner, b.Name, err)
		}
		spec.FlowOverride = &d
	}
	if b.Relation != nil {
		r, err := schema.ParseRelation(*b.Relation)
		if err != nil {
			return nil, fmt.Errorf("%s, attribute %q: %w", owner, b.Name, err)
		}
		spec.RelationOverride = &r
	}
	for _, c := range b.When {
		spec.Conditions = append(spec.Conditions, schema.Condition{Attribute: c.Attribute, Value: c.Equals})
	}
	return spec, nil
}

func (l *Loader) translateNode(ctx context.Context, st *translateState, n *nodeBlock) (*schema.NodeType, error) {
	nt := &schema.NodeType{
		Ref:      n.Ref,
		Category: schema.Category(n.Category),
		NestIn:   n.NestIn,
	}
	if n.Label != nil {
		nt.Label = *n.Label
	}
	if n.Description != nil {
		nt.Description = *n.Description
	}
	if n.NestLimit != nil {
		nt.NestLimit = *n.NestLimit
	}
	if n.Evaluator != nil {
		nt.Evaluator = *n.Evaluator
	}
	if n.Container != nil {
		switch strings.ToLower(n.Container.Mode) {
		case "direct":
			nt.Container = schema.ContainerDirect
		case "synthesize":
			nt.Container = schema.ContainerSynthesize
		default:
			return nil, fmt.Errorf("node %q: unknown container mode %q", n.Ref, n.Container.Mode)
		}
		if n.Container.Element != nil {
			nt.LinkElement = *n.Container.Element
		}
	}

	seen := make(map[string]bool, len(n.Attributes))
	for _, ab := range n.Attributes {
		if seen[ab.Name] {
			return nil, fmt.Errorf("node %q: duplicate attribute %q", n.Ref, ab.Name)
		}
		seen[ab.Name] = true
		spec, err := l.translateAttribute(ctx, st, "node "+n.Ref, ab)
		if err != nil {
			return nil, err
		}
		nt.Attributes = append(nt.Attributes, spec)
	}
	return nt, nil
}
