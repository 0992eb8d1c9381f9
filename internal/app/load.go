package app

import (
	"fmt"

	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/persist"
)

// LoadGraph reads the persisted graph named by the configuration and
// rebuilds it in the app's engine.
func (app *App) LoadGraph() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Loading graph...", "graph_path", app.config.GraphPath)

	doc, err := persist.ReadFile(app.config.GraphPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	if err := persist.Reconstruct(app.ctx, app.engine, doc); err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	logger.Info("Graph loaded successfully.", "nodes", len(app.engine.Nodes()), "links", len(app.engine.Links()))
	return nil
}
