package config

import "github.com/specialistvlad/filtergrid/internal/schema"

// Model is the fully translated schema. Node types keep their declaration
// order, which the registry preserves for listings.
type Model struct {
	AttributeTypes map[string]*schema.AttributeType
	NodeTypes      []*schema.NodeType
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		AttributeTypes: make(map[string]*schema.AttributeType),
	}
}

// NodeType returns a node type by ref.
func (m *Model) NodeType(ref string) (*schema.NodeType, bool) {
	for _, nt := range m.NodeTypes {
		if nt.Ref == ref {
			return nt, true
		}
	}
	return nil, false
}
