package persist

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/engine"
	"github.com/specialistvlad/filtergrid/internal/node"
	"github.com/specialistvlad/filtergrid/internal/nodeid"
)

// Reconstruct rebuilds a document into e, which should be empty. Node ids,
// positions, values and creation order are preserved. Ctrl values are
// checked against the node type like any SetAttribute call. It stops at the first
// entry that cannot be restored.
func Reconstruct(ctx context.Context, e *engine.Engine, doc []Entry) error {
	logger := ctxlog.FromContext(ctx)
	entries := flatten(doc)

	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		switch {
		case entry.ID == "":
			return &ReconstructionError{Entry: entry.Ref, Reason: "missing id"}
		case entry.Ref == "":
			return &ReconstructionError{Entry: entry.ID, Reason: "missing node type"}
		case seen[entry.ID]:
			return &ReconstructionError{Entry: entry.ID, Reason: "duplicate id"}
		}
		seen[entry.ID] = true
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Ord, b.Ord)
	})

	for _, entry := range entries {
		inst := node.New(entry.ID, entry.Ref, entry.Pos)
		inst.Seq = entry.Ord
		maps.Copy(inst.Values, entry.Ctrl)
		if _, err := e.RestoreNode(ctx, inst); err != nil {
			reason := "restore node"
			switch {
			case errors.Is(err, engine.ErrUnknownAttribute):
				reason = "unknown attribute"
			case errors.Is(err, engine.ErrInvalidValue):
				reason = "invalid value"
			}
			return &ReconstructionError{Entry: entry.ID, Reason: reason, Err: err}
		}
	}

	links := 0
	for _, entry := range entries {
		for _, attr := range slices.Sorted(maps.Keys(entry.Lnk)) {
			for _, raw := range entry.Lnk[attr] {
				src, err := nodeid.ParsePort(raw)
				if err != nil {
					return &ReconstructionError{Entry: entry.ID, Reason: "parse link source", Err: err}
				}
				if !seen[src.Node] {
					return &ReconstructionError{Entry: entry.ID, Reason: "link source " + src.Node + " is not in the document"}
				}
				if _, err := e.Link(ctx, src, nodeid.In(entry.ID, attr)); err != nil {
					return &ReconstructionError{Entry: entry.ID, Reason: "link " + attr, Err: err}
				}
				links++
			}
		}
	}

	logger.Debug("Graph reconstructed.", "nodes", len(entries), "links", links)
	return nil
}
