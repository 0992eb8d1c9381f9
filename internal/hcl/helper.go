package hcl

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// isExprDefined checks if an HCL expression was actually present in the source.
// gohcl fills omitted optional expression fields with a zero-width synthetic
// expression, so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte
	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// defaultString flattens a manifest default into the engine's textual value.
// Lists are flattened and space-joined; a list given for a matrix keeps one
// row per element.
func defaultString(val cty.Value, kind schema.Kind) (string, error) {
	if _, isMatrix := kind.(schema.MatrixKind); isMatrix && isSequence(val) {
		rows, err := sequenceStrings(val)
		if err != nil {
			return "", err
		}
		return strings.Join(rows, "\n"), nil
	}
	return ctyToString(val)
}

func ctyToString(val cty.Value) (string, error) {
	if val.IsNull() {
		return "", nil
	}
	if !val.IsWhollyKnown() {
		return "", fmt.Errorf("default value must be known at load time")
	}
	if isSequence(val) {
		parts, err := sequenceStrings(val)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(strings.Join(parts, " ")), nil
	}
	if !val.Type().IsPrimitiveType() {
		return "", fmt.Errorf("unsupported default of type %s", val.Type().FriendlyName())
	}
	str, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", err
	}
	return str.AsString(), nil
}

func isSequence(val cty.Value) bool {
	ty := val.Type()
	return ty.IsListType() || ty.IsTupleType() || ty.IsSetType()
}

// sequenceStrings stringifies each element, dropping empty ones.
func sequenceStrings(val cty.Value) ([]string, error) {
	var parts []string
	it := val.ElementIterator()
	for it.Next() {
		_, elem := it.Element()
		s, err := ctyToString(elem)
		if err != nil {
			return nil, err
		}
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return parts, nil
}
