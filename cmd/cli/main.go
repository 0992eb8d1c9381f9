package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/filtergrid/internal/app"
	"github.com/specialistvlad/filtergrid/internal/builtin"
	"github.com/specialistvlad/filtergrid/internal/cli"
	"github.com/specialistvlad/filtergrid/internal/hcl"
)

// main is the entrypoint for the filtergrid application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run holds the main application logic. Markup goes to outW, logs and
// startup failures to errW.
func run(outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on critical schema errors; report them cleanly.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(errW, "A critical startup error occurred: %v\n", r)
			err = &cli.ExitError{Code: 1, Message: fmt.Sprintf("application startup panicked: %v", r)}
		}
	}()

	loader := hcl.NewLoader(builtin.Manifests())
	filtergridApp := app.NewApp(outW, errW, appConfig, loader)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return filtergridApp.Run(ctx)
}
