package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/filtergrid/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("filtergrid", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
filtergrid - compiles node-graph documents into SVG filter markup.

Usage:
  filtergrid [options] [GRAPH_PATH]

Arguments:
  GRAPH_PATH
    Path to a persisted graph (.json, .yaml or .yml).

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.String("graph", "", "Path to the persisted graph.")
	gFlag := flagSet.String("g", "", "Path to the persisted graph (shorthand).")
	manifestsFlag := flagSet.String("manifests", "", "Path to extra .hcl node manifests merged over the built-in set.")
	outFlag := flagSet.String("out", "", "Write markup to this file instead of stdout.")
	stopAtFlag := flagSet.String("stop-at", "", "Stop emission right after this node id.")
	wrapFlag := flagSet.Bool("wrap", false, "Wrap the filter in a standalone preview <svg>.")
	subjectFlag := flagSet.String("wrap-subject", "text", "Preview subject. Options: 'text' or 'image'.")
	textFlag := flagSet.String("wrap-text", "", "Preview text for the text subject.")
	hrefFlag := flagSet.String("wrap-href", "", "Image location for the image subject.")
	widthFlag := flagSet.Int("width", 0, "Preview width. 0 uses the default.")
	heightFlag := flagSet.Int("height", 0, "Preview height. 0 uses the default.")
	publishFlag := flagSet.String("publish-url", "", "socket.io server to publish the compiled preview to.")
	eventFlag := flagSet.String("publish-event", "", "Event name used when publishing.")
	listFlag := flagSet.Bool("list-schema", false, "Print the registered node types and exit.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *graphFlag != "" {
		path = *graphFlag
	} else if *gFlag != "" {
		path = *gFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Graph path determined.", "path", path)

	if path == "" && !*listFlag {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	config, err := app.NewConfig(app.Config{
		GraphPath:       path,
		ManifestsPath:   *manifestsFlag,
		OutPath:         *outFlag,
		StopAt:          *stopAtFlag,
		Wrap:            *wrapFlag,
		WrapSubject:     strings.ToLower(*subjectFlag),
		WrapText:        *textFlag,
		WrapHref:        *hrefFlag,
		Width:           *widthFlag,
		Height:          *heightFlag,
		PublishURL:      *publishFlag,
		PublishEvent:    *eventFlag,
		ListSchema:      *listFlag,
		LogFormat:       strings.ToLower(*logFormatFlag),
		LogLevel:        strings.ToLower(*logLevelFlag),
		HealthcheckPort: *healthPortFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
