package registry

import (
	"github.com/specialistvlad/filtergrid/internal/config"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Nestable is a node type that may be nested inside a given parent, tagged
// with its per-parent limit (0 means unlimited).
type Nestable struct {
	Type  *schema.NodeType
	Limit int
}

// Registry holds the node type definitions and registered evaluators for a
// single application instance.
type Registry struct {
	types          map[string]*schema.NodeType
	order          []*schema.NodeType
	attributeTypes map[string]*schema.AttributeType
	evaluators     map[string]Evaluator
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		types:          make(map[string]*schema.NodeType),
		attributeTypes: make(map[string]*schema.AttributeType),
		evaluators:     make(map[string]Evaluator),
	}
}

// PopulateFromModel copies the loaded definitions from the config model into
// the registry, keeping manifest declaration order.
func (r *Registry) PopulateFromModel(model *config.Model) {
	for name, t := range model.AttributeTypes {
		r.attributeTypes[name] = t
	}
	for _, nt := range model.NodeTypes {
		if _, exists := r.types[nt.Ref]; !exists {
			r.order = append(r.order, nt)
		} else {
			for i, existing := range r.order {
				if existing.Ref == nt.Ref {
					r.order[i] = nt
				}
			}
		}
		r.types[nt.Ref] = nt
	}
}

// Lookup returns the node type registered under ref.
func (r *Registry) Lookup(ref string) (*schema.NodeType, error) {
	if nt, ok := r.types[ref]; ok {
		return nt, nil
	}
	return nil, &SchemaLookupError{Ref: ref}
}

// All returns every node type in declaration order.
func (r *Registry) All() []*schema.NodeType {
	out := make([]*schema.NodeType, len(r.order))
	copy(out, r.order)
	return out
}

// ListByCategory returns the node types of one category in declaration order.
func (r *Registry) ListByCategory(cat schema.Category) []*schema.NodeType {
	var out []*schema.NodeType
	for _, nt := range r.order {
		if nt.Category == cat {
			out = append(out, nt)
		}
	}
	return out
}

// ListNestableInto returns the node types that may be nested inside
// parentRef.
func (r *Registry) ListNestableInto(parentRef string) []Nestable {
	var out []Nestable
	for _, nt := range r.order {
		if nt.NestsIn(parentRef) {
			out = append(out, Nestable{Type: nt, Limit: nt.NestLimit})
		}
	}
	return out
}

// AttributeType returns a shared attribute type by name.
func (r *Registry) AttributeType(name string) (*schema.AttributeType, bool) {
	t, ok := r.attributeTypes[name]
	return t, ok
}
