package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRegistry performs a strict consistency check across the loaded
// node types and the registered evaluators. Every problem is collected and
// reported in a single error.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	used := make(map[string]bool)
	for _, nt := range r.order {
		if err := validate.Struct(nt); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					errs = append(errs, fmt.Sprintf("node '%s': field '%s' failed '%s' validation", nt.Ref, fe.Namespace(), fe.Tag()))
				}
			} else {
				errs = append(errs, fmt.Sprintf("node '%s': %v", nt.Ref, err))
			}
		}

		for _, parent := range nt.NestIn {
			if _, ok := r.types[parent]; !ok {
				errs = append(errs, fmt.Sprintf("node '%s': nest_in refers to unknown type '%s'", nt.Ref, parent))
			}
		}
		if nt.LinkElement != "" {
			if _, ok := r.types[nt.LinkElement]; !ok {
				errs = append(errs, fmt.Sprintf("node '%s': container element '%s' is not a known type", nt.Ref, nt.LinkElement))
			}
		}
		if nt.Container != schema.ContainerNone {
			if _, ok := nt.ListAttribute(); !ok {
				errs = append(errs, fmt.Sprintf("node '%s': container has no list attribute", nt.Ref))
			}
		}

		for _, spec := range nt.Attributes {
			errs = append(errs, checkAttribute(nt, spec, "")...)
		}

		if nt.Evaluator != "" {
			used[nt.Evaluator] = true
			if _, ok := r.evaluators[nt.Evaluator]; !ok {
				errs = append(errs, fmt.Sprintf("node '%s': evaluator '%s' is not registered by any module", nt.Ref, nt.Evaluator))
			}
		} else if nt.Category != schema.CategoryPrimitive {
			logger.Warn("Auxiliary node type has no evaluator; its outputs keep their stored values.", "node", nt.Ref)
		}
	}

	for name := range r.evaluators {
		if !used[name] {
			logger.Warn("Evaluator is registered but no node type uses it.", "evaluator", name)
		}
	}

	if len(errs) > 0 {
		slices.Sort(errs)
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Registry validated.", "node_types", len(r.order), "evaluators", len(r.evaluators))
	return nil
}

// checkAttribute validates one attribute (or compound field) against its
// owning node type. Conditions always refer to top-level siblings.
func checkAttribute(nt *schema.NodeType, spec *schema.AttributeSpec, prefix string) []string {
	var errs []string
	name := prefix + spec.Name

	for _, c := range spec.Conditions {
		if _, ok := nt.Attribute(c.Attribute); !ok {
			errs = append(errs, fmt.Sprintf("node '%s', attribute '%s': condition refers to unknown attribute '%s'", nt.Ref, name, c.Attribute))
		}
	}

	switch k := spec.EffectiveKind().(type) {
	case schema.ScalarKind:
		if k.Scalar == schema.ScalarEnum && spec.HasDefault && spec.DefaultVal != "" && !slices.Contains(k.Options, spec.DefaultVal) {
			errs = append(errs, fmt.Sprintf("node '%s', attribute '%s': default '%s' is not one of %v", nt.Ref, name, spec.DefaultVal, k.Options))
		}
	case schema.CompoundKind:
		for _, f := range k.Fields {
			errs = append(errs, checkAttribute(nt, f, name+".")...)
		}
	case schema.MatrixKind:
		if k.SizeFrom != "" {
			if _, ok := nt.Attribute(k.SizeFrom); !ok {
				errs = append(errs, fmt.Sprintf("node '%s', attribute '%s': size_from refers to unknown attribute '%s'", nt.Ref, name, k.SizeFrom))
			}
		}
	case schema.ListKind:
		if prefix != "" {
			errs = append(errs, fmt.Sprintf("node '%s', attribute '%s': list kinds cannot be compound fields", nt.Ref, name))
		}
	}
	return errs
}
