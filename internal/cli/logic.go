package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"emperror.dev/errors"
	"github.com/apex/log"
	logcli "github.com/apex/log/handlers/cli"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dutop/internal/dutop"
)

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

// setupLogging routes apex/log output to stderr at the requested verbosity.
func setupLogging(debug bool, stderr io.Writer) {
	log.SetHandler(logcli.New(stderr))

	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func logic(ctx context.Context, options dutop.Options, stdout, stderr io.Writer) error {
	setupLogging(options.Debug, stderr)

	enableProgress := options.Output == "table" &&
		!options.Debug &&
		isTerminal(stderr)

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %d files, %s",
				files, humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	report, err := dutop.Sweep(ctx, options, progressHook)

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	if err != nil {
		return err
	}

	switch options.Output {
	case "json":
		return PrintJSON(report, stdout)
	case "yaml":
		return PrintYAML(report, stdout)
	case "table":
		return PrintTable(report, stdout)
	default:
		return errors.Errorf("unknown output format: %s", options.Output)
	}
}
