// This file contains the logic for parsing kind expressions (e.g. `number`,
// `enum("a", "b")`, `matrix(5, 4)`) into schema kinds.

package hcl

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var scalarKeywords = map[string]schema.Scalar{
	"string":    schema.ScalarString,
	"number":    schema.ScalarNumber,
	"integer":   schema.ScalarInteger,
	"boolean":   schema.ScalarBoolean,
	"color":     schema.ScalarColor,
	"opacity":   schema.ScalarOpacity,
	"iri":       schema.ScalarIRI,
	"reference": schema.ScalarReference,
}

// kindExprToKind converts an HCL kind expression into its schema.Kind.
func kindExprToKind(ctx context.Context, expr hcl.Expression) (schema.Kind, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return nil, fmt.Errorf("invalid kind keyword: traversal path is not a single identifier")
		}
		keyword := v.Traversal.RootName()
		logger.Debug("Parsing kind expression as a keyword.", "keyword", keyword)
		if s, ok := scalarKeywords[keyword]; ok {
			return schema.ScalarKind{Scalar: s}, nil
		}
		switch keyword {
		case "compound":
			return schema.CompoundKind{}, nil
		case "matrix":
			return schema.MatrixKind{}, nil
		case "list":
			return schema.ListKind{Relation: schema.RelationMany}, nil
		default:
			return nil, fmt.Errorf("unknown kind %q", keyword)
		}

	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing kind expression as a constructor.", "call", v.Name)
		switch v.Name {
		case "enum":
			if len(v.Args) == 0 {
				return nil, fmt.Errorf("enum kind requires at least one option")
			}
			options := make([]string, 0, len(v.Args))
			for i, arg := range v.Args {
				opt, err := literalString(arg)
				if err != nil {
					return nil, fmt.Errorf("enum option %d: %w", i, err)
				}
				options = append(options, opt)
			}
			return schema.ScalarKind{Scalar: schema.ScalarEnum, Options: options}, nil

		case "matrix":
			if len(v.Args) < 1 || len(v.Args) > 2 {
				return nil, fmt.Errorf("matrix kind takes one or two dimensions, got %d", len(v.Args))
			}
			cols, err := literalInt(v.Args[0])
			if err != nil {
				return nil, fmt.Errorf("matrix columns: %w", err)
			}
			rows := cols
			if len(v.Args) == 2 {
				if rows, err = literalInt(v.Args[1]); err != nil {
					return nil, fmt.Errorf("matrix rows: %w", err)
				}
			}
			dims := schema.Dims{Cols: cols, Rows: rows}
			if !dims.Valid() {
				return nil, fmt.Errorf("matrix dimensions must be positive, got %s", dims)
			}
			return schema.MatrixKind{Size: dims}, nil

		case "list":
			if len(v.Args) != 1 {
				return nil, fmt.Errorf("list kind requires exactly one relation argument, got %d", len(v.Args))
			}
			word := hcl.ExprAsKeyword(v.Args[0])
			if word == "" {
				var err error
				if word, err = literalString(v.Args[0]); err != nil {
					return nil, fmt.Errorf("list relation: %w", err)
				}
			}
			rel, err := schema.ParseRelation(word)
			if err != nil {
				return nil, err
			}
			return schema.ListKind{Relation: rel}, nil

		default:
			return nil, fmt.Errorf("unknown kind constructor %q", v.Name)
		}

	default:
		return nil, fmt.Errorf("unsupported expression for kind definition: %T", v)
	}
}

func literalString(expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if err := diagsError(diags); err != nil {
		return "", err
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	if val.IsNull() {
		return "", fmt.Errorf("value must not be null")
	}
	return val.AsString(), nil
}

func literalInt(expr hcl.Expression) (int, error) {
	val, diags := expr.Value(nil)
	if err := diagsError(diags); err != nil {
		return 0, err
	}
	if val.IsNull() || val.Type() != cty.Number {
		return 0, fmt.Errorf("expected a number, got %s", val.Type().FriendlyName())
	}
	i, acc := val.AsBigFloat().Int64()
	if acc != big.Exact {
		return 0, fmt.Errorf("expected a whole number")
	}
	return int(i), nil
}
