// Package node defines a live node instance placed on the canvas.
package node

import (
	"maps"
	"strings"
)

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Instance is a single node in the graph. Values holds the stored value of
// every attribute path: `dx`, compound sub-fields such as `values._matrix`,
// and unit selections such as `width:unit`.
type Instance struct {
	ID       string
	Type     string
	Position Position
	Values   map[string]string
	// Seq is the creation ordinal, used to break ordering ties.
	Seq int
}

// New creates an instance with an empty value map.
func New(id, typeRef string, pos Position) *Instance {
	return &Instance{
		ID:       id,
		Type:     typeRef,
		Position: pos,
		Values:   make(map[string]string),
	}
}

// Value returns the stored value of a path.
func (n *Instance) Value(path string) (string, bool) {
	v, ok := n.Values[path]
	return v, ok
}

// Clone returns a deep copy, safe to hand out of a store.
func (n *Instance) Clone() *Instance {
	if n == nil {
		return nil
	}
	c := *n
	c.Values = maps.Clone(n.Values)
	if c.Values == nil {
		c.Values = make(map[string]string)
	}
	return &c
}

// FieldPath builds the path of a compound sub-field.
func FieldPath(attribute, field string) string {
	return attribute + "." + field
}

// UnitPath builds the path holding the unit selected for an attribute.
func UnitPath(attribute string) string {
	return attribute + ":unit"
}

// SplitPath splits a path into its attribute and, for compound sub-fields,
// the field name. Unit paths report unit = true.
func SplitPath(path string) (attribute, field string, unit bool) {
	if a, ok := strings.CutSuffix(path, ":unit"); ok {
		return a, "", true
	}
	attribute, field, _ = strings.Cut(path, ".")
	return attribute, field, false
}
