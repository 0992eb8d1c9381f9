package schema

import (
	"fmt"
	"strings"
)

// Category groups node types by their role in the graph.
type Category string

const (
	CategoryPrimitive Category = "primitive"
	CategoryValue     Category = "auxiliary-value"
	CategoryInput     Category = "auxiliary-input"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryPrimitive, CategoryValue, CategoryInput}

// Direction is the flow direction of a port.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionIn
	DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	default:
		return "none"
	}
}

// ParseDirection parses "in", "out" or "none" (the empty string is "none").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DirectionNone, nil
	case "in":
		return DirectionIn, nil
	case "out":
		return DirectionOut, nil
	default:
		return DirectionNone, fmt.Errorf("unknown flow direction %q", s)
	}
}

// Relation is the cardinality of a port.
type Relation int

const (
	RelationOne Relation = iota
	RelationMany
)

func (r Relation) String() string {
	if r == RelationMany {
		return "many"
	}
	return "one"
}

// ParseRelation parses "one" or "many".
func ParseRelation(s string) (Relation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one":
		return RelationOne, nil
	case "many":
		return RelationMany, nil
	default:
		return RelationOne, fmt.Errorf("unknown relation %q", s)
	}
}

// ContainerMode describes how a node type holds the children linked into its
// list attribute.
type ContainerMode int

const (
	// ContainerNone is a node without nested children.
	ContainerNone ContainerMode = iota
	// ContainerDirect appends child elements inside the parent element.
	ContainerDirect
	// ContainerSynthesize wraps each child that is not already the linking
	// element in a synthesized linking element referencing the child's result.
	ContainerSynthesize
)

func (m ContainerMode) String() string {
	switch m {
	case ContainerDirect:
		return "direct"
	case ContainerSynthesize:
		return "synthesize"
	default:
		return "none"
	}
}

// Condition makes an attribute visible when the named sibling resolves to Value.
type Condition struct {
	Attribute string `validate:"required"`
	Value     string
}

// AttributeType is a reusable value-domain descriptor.
type AttributeType struct {
	Name       string `validate:"required"`
	Kind       Kind   `validate:"required"`
	Label      string
	DefaultVal string
	HasDefault bool
	Flow       Direction
	Relation   Relation
	// Dynamic ports accept a live reference to another node's result in
	// place of their literal value.
	Dynamic bool
}

// AttributeSpec binds an AttributeType to a name within a node type. Zero
// value overrides fall through to the type.
type AttributeSpec struct {
	Name       string         `validate:"required"`
	Type       *AttributeType `validate:"required"`
	Kind       Kind
	Label      string
	DefaultVal string
	HasDefault bool
	Conditions []Condition `validate:"dive"`
	Units      []string
	// FlowOverride and RelationOverride replace the type's values when set.
	FlowOverride     *Direction
	RelationOverride *Relation
}

// EffectiveKind is the spec's kind, falling back to the type's.
func (s *AttributeSpec) EffectiveKind() Kind {
	if s.Kind != nil {
		return s.Kind
	}
	return s.Type.Kind
}

// Flow is the port direction of the attribute.
func (s *AttributeSpec) Flow() Direction {
	if s.FlowOverride != nil {
		return *s.FlowOverride
	}
	return s.Type.Flow
}

// Relation is the port cardinality. Unless overridden, inputs default to
// one and outputs to many.
func (s *AttributeSpec) Relation() Relation {
	if s.RelationOverride != nil {
		return *s.RelationOverride
	}
	if l, ok := s.EffectiveKind().(ListKind); ok {
		return l.Relation
	}
	return s.Type.Relation
}

// HasPort reports whether the attribute can take part in links.
func (s *AttributeSpec) HasPort() bool {
	return s.Flow() != DirectionNone
}

// Dynamic reports whether the attribute accepts live references.
func (s *AttributeSpec) Dynamic() bool {
	return s.Type.Dynamic
}

// Private attributes are internal bookkeeping and never emitted.
func (s *AttributeSpec) Private() bool {
	return strings.HasPrefix(s.Name, "_")
}

// DisplayLabel returns the label shown to users.
func (s *AttributeSpec) DisplayLabel() string {
	switch {
	case s.Label != "":
		return s.Label
	case s.Type.Label != "":
		return s.Type.Label
	default:
		return s.Name
	}
}

// Default resolves the initial value: spec override, then type default, then
// the kind's zero value.
func (s *AttributeSpec) Default() string {
	if s.HasDefault {
		return s.DefaultVal
	}
	if s.Type != nil && s.Type.HasDefault && s.Kind == nil {
		return s.Type.DefaultVal
	}
	return ZeroValue(s.EffectiveKind())
}

// Field returns a compound sub-field by name.
func (s *AttributeSpec) Field(name string) (*AttributeSpec, bool) {
	c, ok := s.EffectiveKind().(CompoundKind)
	if !ok {
		return nil, false
	}
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// NodeType describes one kind of node that can be placed on the canvas.
type NodeType struct {
	Ref         string   `validate:"required"`
	Category    Category `validate:"required,oneof=primitive auxiliary-value auxiliary-input"`
	Label       string
	Description string
	Attributes  []*AttributeSpec `validate:"dive"`
	NestIn      []string
	NestLimit   int `validate:"gte=0"`
	Container   ContainerMode
	// LinkElement is the element synthesized around children of a
	// ContainerSynthesize node.
	LinkElement string `validate:"required_if=Container 2"`
	Evaluator   string
}

// DisplayLabel is the label shown in listings, falling back to the ref.
func (t *NodeType) DisplayLabel() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Ref
}

// Attribute returns a top-level attribute spec by name.
func (t *NodeType) Attribute(name string) (*AttributeSpec, bool) {
	for _, a := range t.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Nested reports whether instances only make sense inside a parent.
func (t *NodeType) Nested() bool {
	return len(t.NestIn) > 0
}

// NestsIn reports whether the type may be nested inside parentRef.
func (t *NodeType) NestsIn(parentRef string) bool {
	for _, p := range t.NestIn {
		if p == parentRef {
			return true
		}
	}
	return false
}

// ResultAttribute returns the output port carrying the node's result, if any.
func (t *NodeType) ResultAttribute() (*AttributeSpec, bool) {
	if a, ok := t.Attribute("result"); ok && a.Flow() == DirectionOut {
		return a, true
	}
	for _, a := range t.Attributes {
		if a.Flow() == DirectionOut {
			return a, true
		}
	}
	return nil, false
}

// ListAttribute returns the nested-children attribute, if any.
func (t *NodeType) ListAttribute() (*AttributeSpec, bool) {
	for _, a := range t.Attributes {
		if _, ok := a.EffectiveKind().(ListKind); ok {
			return a, true
		}
	}
	return nil, false
}
