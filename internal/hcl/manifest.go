package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot is used to decode all top-level blocks of a manifest file.
type fileRoot struct {
	AttributeTypes []*attributeTypeBlock `hcl:"attribute_type,block"`
	Nodes          []*nodeBlock          `hcl:"node,block"`
	Remain         hcl.Body              `hcl:",remain"`
}

// attributeTypeBlock is a reusable value domain.
//
//	attribute_type "blendMode" {
//	  kind    = enum("normal", "multiply")
//	  default = "normal"
//	  flow    = "in"
//	}
type attributeTypeBlock struct {
	Name     string            `hcl:"name,label"`
	Kind     hcl.Expression    `hcl:"kind"`
	Label    *string           `hcl:"label,optional"`
	Default  *cty.Value        `hcl:"default,optional"`
	Flow     *string           `hcl:"flow,optional"`
	Relation *string           `hcl:"relation,optional"`
	Dynamic  *bool             `hcl:"dynamic,optional"`
	Word     *string           `hcl:"word,optional"`
	Fields   []*attributeBlock `hcl:"field,block"`
}

// attributeBlock binds a type to a name inside a node or a compound.
type attributeBlock struct {
	Name     string            `hcl:"name,label"`
	Type     *string           `hcl:"type,optional"`
	Kind     hcl.Expression    `hcl:"kind,optional"`
	Label    *string           `hcl:"label,optional"`
	Default  *cty.Value        `hcl:"default,optional"`
	Flow     *string           `hcl:"flow,optional"`
	Relation *string           `hcl:"relation,optional"`
	SizeFrom *string           `hcl:"size_from,optional"`
	Units    []string          `hcl:"units,optional"`
	When     []*conditionBlock `hcl:"when,block"`
	Fields   []*attributeBlock `hcl:"field,block"`
}

// conditionBlock is one entry of an OR-list of visibility conditions.
type conditionBlock struct {
	Attribute string `hcl:"attribute"`
	Equals    string `hcl:"equals"`
}

type containerBlock struct {
	Mode    string  `hcl:"mode"`
	Element *string `hcl:"element,optional"`
}

// nodeBlock describes a node type.
type nodeBlock struct {
	Ref         string            `hcl:"ref,label"`
	Category    string            `hcl:"category"`
	Label       *string           `hcl:"label,optional"`
	Description *string           `hcl:"description,optional"`
	NestIn      []string          `hcl:"nest_in,optional"`
	NestLimit   *int              `hcl:"nest_limit,optional"`
	Evaluator   *string           `hcl:"evaluator,optional"`
	Container   *containerBlock   `hcl:"container,block"`
	Attributes  []*attributeBlock `hcl:"attribute,block"`
}
