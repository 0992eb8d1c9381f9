package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/filtergrid/internal/compiler"
	"github.com/specialistvlad/filtergrid/internal/ctxlog"
	"github.com/specialistvlad/filtergrid/internal/preview"
)

// Run executes the main application logic: load the graph, compile it,
// write the markup and optionally publish it.
func (app *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, app.logger)
	app.ctx = ctx
	app.logger.Debug("App.Run method started.")

	if app.config.ListSchema {
		return app.ListSchema()
	}

	app.startStatusServer()
	defer func() {
		if cerr := app.stopStatusServer(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := app.LoadGraph(); err != nil {
		return err
	}

	res, err := app.engine.Compile(ctx, compiler.Options{StopAt: app.config.StopAt})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		app.logger.Warn("Compilation warning.", "warning", w)
	}
	app.logger.Info("Graph compiled.", "elements", len(res.Elements), "warnings", len(res.Warnings))

	markup, err := app.render(res)
	if err != nil {
		return err
	}
	if err := app.write(markup); err != nil {
		return err
	}

	if app.config.PublishURL != "" {
		wrapped := ""
		if app.config.Wrap {
			wrapped = markup
		}
		pub, err := preview.NewPublisher(preview.Options{URL: app.config.PublishURL, Event: app.config.PublishEvent})
		if err != nil {
			return fmt.Errorf("failed to configure preview publisher: %w", err)
		}
		if err := pub.Publish(ctx, preview.NewPayload(res, wrapped)); err != nil {
			return fmt.Errorf("failed to publish preview: %w", err)
		}
	}

	app.logger.Debug("App.Run method finished.")
	return nil
}

// render returns the bare body, or a preview document when wrapping is on.
func (app *App) render(res *compiler.Result) (string, error) {
	if !app.config.Wrap {
		return res.Body, nil
	}
	opts := compiler.WrapOptions{
		Width:   app.config.Width,
		Height:  app.config.Height,
		Subject: compiler.Subject(app.config.WrapSubject),
		Text:    app.config.WrapText,
		Href:    app.config.WrapHref,
	}
	if app.config.StopAt != "" {
		opts.FilterID = compiler.StepFilterID(app.config.StopAt)
	}
	markup, err := compiler.Wrap(res.Elements, opts)
	if err != nil {
		return "", fmt.Errorf("failed to wrap filter: %w", err)
	}
	return markup, nil
}

func (app *App) write(markup string) error {
	if app.config.OutPath == "" {
		_, err := fmt.Fprintln(app.outW, markup)
		return err
	}
	if err := os.WriteFile(app.config.OutPath, []byte(markup+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output '%s': %w", app.config.OutPath, err)
	}
	app.logger.Info("Markup written.", "path", app.config.OutPath)
	return nil
}
