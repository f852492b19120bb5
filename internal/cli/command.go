package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/dutop/internal/dutop"
	"github.com/idelchi/dutop/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// allowedOutputs lists the supported output formats.
//
//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"table", "json", "yaml"}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().ExecuteContext(context.Background())
}

// Command builds the root command.
//
//nolint:funlen // Flag and help definitions
func (c CLI) Command() *cobra.Command {
	var options dutop.Options

	cmd := &cobra.Command{
		Use:   "dutop [flags] <directory> <N>",
		Short: "Report the N largest subdirectories of a directory",
		Long: heredoc.Doc(`
			dutop measures every immediate subdirectory of <directory>, including
			all nested content, and reports the <N> largest ones.

			Symbolic links are never followed nor counted. Loose files in
			<directory> and subdirectories without any content are not reported.

			If a subdirectory cannot be read, dutop stops without printing a report.

			The '-i' flag prints a zsh integration script. Load it with
			'eval "$(dutop --init)"' and use 'dutop-cd <directory> <N>' to pick
			one of the largest subdirectories with 'fzf' and change into it.
		`),
		Example: heredoc.Doc(`
			dutop /var 5
			dutop -o json ~/projects 10
		`),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if options.Version || options.Integration {
				return nil
			}

			if len(args) != 2 { //nolint:mnd // <directory> and <N>
				return errors.Errorf("expected <directory> and <N>, got %d argument(s)", len(args))
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if options.Version {
				fmt.Fprintln(cmd.OutOrStdout(), c.version)

				return nil
			}

			if options.Integration {
				rendered, err := integration.Render()
				if err != nil {
					return errors.WrapIf(err, "rendering integration script")
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			if !slices.Contains(allowedOutputs, options.Output) {
				return errors.Errorf("invalid output format %q: must be one of %v", options.Output, allowedOutputs)
			}

			path, err := parseDirectory(args[0])
			if err != nil {
				return err
			}

			count, err := parseCount(args[1])
			if err != nil {
				return err
			}

			options.Path = path
			options.TopN = count

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false
	flags.StringVarP(&options.Output, "output", "o", "table", "Output format: table, json or yaml")
	flags.BoolVar(&options.Debug, "debug", false, "Enable debug output")
	flags.BoolVarP(&options.Version, "version", "v", false, "Show version and exit")
	flags.BoolVarP(&options.Integration, "init", "i", false, "Output init script for shell usage")

	return cmd
}

// parseDirectory strips trailing separators from arg and checks that it names
// an accessible directory.
func parseDirectory(arg string) (string, error) {
	if arg == "" {
		return "", errors.New("directory must not be empty")
	}

	sep := string(filepath.Separator)

	path := strings.TrimRight(arg, sep)
	if path == "" {
		path = sep
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", errors.WrapIff(err, "directory %q does not exist or is not accessible", arg)
	}

	if !info.IsDir() {
		return "", errors.WithMessagef(dutop.ErrNotDirectory, "path %q", arg)
	}

	dir, err := os.Open(path)
	if err != nil {
		return "", errors.WrapIff(err, "directory %q is not accessible", arg)
	}

	_ = dir.Close()

	return path, nil
}

// parseCount parses a base-10 count of at least one.
func parseCount(arg string) (int, error) {
	count, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.WithMessagef(dutop.ErrInvalidCount, "invalid count %q", arg)
	}

	if count < 1 {
		return 0, errors.WithMessagef(dutop.ErrInvalidCount, "invalid count %d", count)
	}

	return count, nil
}
