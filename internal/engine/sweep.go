package engine

import (
	"context"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
	"github.com/specialistvlad/filtergrid/internal/schema"
)

// sweep unlinks every hidden input until nothing changes, then re-lays out
// stored matrices on their current dimensions. It returns the number of
// links removed.
func (e *Engine) sweep(ctx context.Context) int {
	removed := 0
	for {
		pass := 0
		for _, inst := range e.nodes.All() {
			nt, err := e.reg.Lookup(inst.Type)
			if err != nil {
				continue
			}
			for _, spec := range nt.Attributes {
				if spec.Flow() != schema.DirectionIn {
					continue
				}
				incoming := e.links.Incoming(nodeid.In(inst.ID, spec.Name))
				if len(incoming) == 0 || e.res.Visible(inst, spec) {
					continue
				}
				for _, l := range incoming {
					if e.links.Remove(l) {
						pass++
					}
				}
			}
		}
		if pass == 0 {
			break
		}
		removed += pass
	}

	for _, inst := range e.nodes.All() {
		e.normalizeMatrices(inst)
	}

	if removed > 0 {
		ctxlog.FromContext(ctx).Debug("Hidden inputs unlinked.", "links", removed)
		e.metrics.RecordAutoUnlinks(removed)
	}
	return removed
}

// normalizeMatrices rewrites stored matrices whose dimensions changed. A
// malformed size leaves the stored grid untouched.
func (e *Engine) normalizeMatrices(inst *node.Instance) {
	nt, err := e.reg.Lookup(inst.Type)
	if err != nil {
		return
	}
	var paths []string
	for _, spec := range nt.Attributes {
		switch k := spec.EffectiveKind().(type) {
		case schema.MatrixKind:
			paths = append(paths, spec.Name)
		case schema.CompoundKind:
			for _, f := range k.Fields {
				if _, ok := f.EffectiveKind().(schema.MatrixKind); ok {
					paths = append(paths, node.FieldPath(spec.Name, f.Name))
				}
			}
		}
	}

	changed := false
	for _, path := range paths {
		grid, err := e.res.Matrix(inst, path)
		if err != nil {
			continue
		}
		if v := grid.Stored(); inst.Values[path] != v {
			inst.Values[path] = v
			changed = true
		}
	}
	if changed {
		_ = e.nodes.Put(inst)
	}
}
