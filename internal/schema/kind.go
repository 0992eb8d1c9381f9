package schema

import (
	"fmt"
	"strings"
)

// Scalar enumerates the value domains of a ScalarKind.
type Scalar int

const (
	ScalarString Scalar = iota
	ScalarNumber
	ScalarInteger
	ScalarBoolean
	ScalarColor
	ScalarOpacity
	ScalarIRI
	ScalarEnum
	ScalarReference
)

func (s Scalar) String() string {
	switch s {
	case ScalarString:
		return "string"
	case ScalarNumber:
		return "number"
	case ScalarInteger:
		return "integer"
	case ScalarBoolean:
		return "boolean"
	case ScalarColor:
		return "color"
	case ScalarOpacity:
		return "opacity"
	case ScalarIRI:
		return "iri"
	case ScalarEnum:
		return "enum"
	case ScalarReference:
		return "reference"
	default:
		return fmt.Sprintf("scalar(%d)", int(s))
	}
}

// PortType is the coarse type used to decide whether two ports may be linked.
type PortType string

const (
	PortString PortType = "string"
	PortNumber PortType = "number"
	PortColor  PortType = "color"
)

// Kind is the sealed set of attribute value domains. The only implementations
// are ScalarKind, CompoundKind, MatrixKind and ListKind.
type Kind interface {
	kind()
}

// ScalarKind is a single textual value. Options is only set for enums.
type ScalarKind struct {
	Scalar  Scalar
	Options []string
}

// CompoundKind is a value assembled from ordered sub-fields.
type CompoundKind struct {
	Fields []*AttributeSpec
}

// Dims is a matrix size. Cols is the X component, Rows the Y component.
type Dims struct {
	Cols int
	Rows int
}

func (d Dims) String() string {
	return fmt.Sprintf("%d,%d", d.Cols, d.Rows)
}

// Valid reports whether both dimensions are positive.
func (d Dims) Valid() bool {
	return d.Cols > 0 && d.Rows > 0
}

// MatrixKind is a row-major numeric grid. When SizeFrom names a sibling
// attribute its resolved value overrides Size.
type MatrixKind struct {
	Size     Dims
	SizeFrom string
}

// ListKind is an ordered list of links into a node (nested children).
// Word is the singular noun used when summarizing the count.
type ListKind struct {
	Relation Relation
	Word     string
}

func (ScalarKind) kind()   {}
func (CompoundKind) kind() {}
func (MatrixKind) kind()   {}
func (ListKind) kind()     {}

// DescribeKind renders a kind the way it is written in manifests.
func DescribeKind(k Kind) string {
	switch v := k.(type) {
	case ScalarKind:
		if v.Scalar == ScalarEnum {
			return fmt.Sprintf("enum(%s)", strings.Join(v.Options, ","))
		}
		return v.Scalar.String()
	case CompoundKind:
		names := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			names = append(names, f.Name)
		}
		return fmt.Sprintf("compound(%s)", strings.Join(names, ","))
	case MatrixKind:
		if v.SizeFrom != "" {
			return fmt.Sprintf("matrix(from %s)", v.SizeFrom)
		}
		return fmt.Sprintf("matrix(%s)", v.Size)
	case ListKind:
		return fmt.Sprintf("list(%s)", v.Relation)
	default:
		panic(fmt.Sprintf("schema: unhandled kind %T", k))
	}
}

// PortTypeOf returns the link compatibility class of a kind.
func PortTypeOf(k Kind) PortType {
	switch v := k.(type) {
	case ScalarKind:
		switch v.Scalar {
		case ScalarNumber, ScalarInteger, ScalarOpacity:
			return PortNumber
		case ScalarColor:
			return PortColor
		default:
			return PortString
		}
	case CompoundKind, MatrixKind, ListKind:
		return PortString
	default:
		panic(fmt.Sprintf("schema: unhandled kind %T", k))
	}
}

// IsReference reports whether the kind carries a primitive's result identifier.
func IsReference(k Kind) bool {
	s, ok := k.(ScalarKind)
	return ok && s.Scalar == ScalarReference
}

// ZeroValue is the value used when neither the spec nor the type declares a
// default.
func ZeroValue(k Kind) string {
	switch v := k.(type) {
	case ScalarKind:
		switch v.Scalar {
		case ScalarNumber, ScalarInteger, ScalarOpacity:
			return "0"
		case ScalarBoolean:
			return "false"
		case ScalarEnum:
			if len(v.Options) > 0 {
				return v.Options[0]
			}
			return ""
		default:
			return ""
		}
	case CompoundKind:
		parts := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			if d := f.Default(); d != "" {
				parts = append(parts, d)
			}
		}
		return strings.Join(parts, " ")
	case MatrixKind:
		return IdentityMatrix(v.Size)
	case ListKind:
		return ""
	default:
		panic(fmt.Sprintf("schema: unhandled kind %T", k))
	}
}

// IdentityMatrix renders a grid with ones on the leading diagonal, rows
// separated by newlines.
func IdentityMatrix(d Dims) string {
	if !d.Valid() {
		return ""
	}
	rows := make([]string, d.Rows)
	for r := 0; r < d.Rows; r++ {
		cells := make([]string, d.Cols)
		for c := 0; c < d.Cols; c++ {
			cells[c] = "0"
			if r == c {
				cells[c] = "1"
			}
		}
		rows[r] = strings.Join(cells, " ")
	}
	return strings.Join(rows, "\n")
}
