package engine

import (
	"maps"
	"strings"

	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// Controls returns the values of a node keyed the way SetAttribute accepts
// them: one entry per top-level attribute, and "attr:unit" for attributes
// that carry a unit. A compound is written as one joined value when that
// value splits back into the same fields, and field by field otherwise.
// List attributes are left out; their children are links.
func (e *Engine) Controls(id string) (map[string]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, nt, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(nt.Attributes))
	for _, spec := range nt.Attributes {
		if u, ok := inst.Values[node.UnitPath(spec.Name)]; ok && len(spec.Units) > 0 {
			out[node.UnitPath(spec.Name)] = u
		}
		switch k := spec.EffectiveKind().(type) {
		case schema.ListKind:
		case schema.CompoundKind:
			fields := make(map[string]string, len(k.Fields))
			for _, f := range k.Fields {
				path := node.FieldPath(spec.Name, f.Name)
				fields[path] = valueAt(inst, path, f.Default())
			}
			joined := joinCompound(spec.Name, k, fields)
			if maps.Equal(splitCompound(spec.Name, k, joined), fields) {
				out[spec.Name] = joined
				break
			}
			maps.Copy(out, fields)
		default:
			out[spec.Name] = valueAt(inst, spec.Name, spec.Default())
		}
	}
	return out, nil
}

// joinCompound is the inverse of splitCompound where one exists. Trailing
// empty fields are dropped.
func joinCompound(name string, k schema.CompoundKind, fields map[string]string) string {
	tokens := make([]string, 0, len(k.Fields))
	for _, f := range k.Fields {
		tokens = append(tokens, fields[node.FieldPath(name, f.Name)])
	}
	for len(tokens) > 0 && strings.TrimSpace(tokens[len(tokens)-1]) == "" {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

func valueAt(inst *node.Instance, path, fallback string) string {
	if v, ok := inst.Values[path]; ok {
		return v
	}
	return fallback
}
