package cli

import (
	"bufio"
	"fmt"
	"io"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/dutop/internal/dutop"
)

// YAMLIndent is the number of spaces used to indent YAML output.
const YAMLIndent = 2

// PrintJSON outputs the report in JSON format.
func PrintJSON(report *dutop.Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.WrapIf(err, "encoding JSON output")
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintYAML outputs the report in YAML format.
func PrintYAML(report *dutop.Report, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(YAMLIndent)

	if err := enc.Encode(report); err != nil {
		return errors.WrapIf(err, "encoding YAML output")
	}

	return enc.Close()
}

// PrintTable outputs a header naming the count and base directory followed by
// one "<path>: <size> <unit>" line per entry. Nothing is written when the
// report has no entries.
func PrintTable(report *dutop.Report, writer io.Writer) error {
	if len(report.Entries) == 0 {
		return nil
	}

	w := bufio.NewWriter(writer)

	fmt.Fprintf(w, "The %d largest subdirectories of %s:\n\n", len(report.Entries), report.Base)

	for _, entry := range report.Entries {
		fmt.Fprintf(w, "%s: %s\n", entry.Path, dutop.FormatSize(entry.Size))
	}

	return w.Flush()
}
