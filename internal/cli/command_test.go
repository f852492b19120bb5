package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/dutop/internal/dutop"
)

// fixture creates a base directory with two non-empty subdirectories, one
// empty subdirectory and a loose file.
func fixture(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	files := map[string]int{
		"big/a.bin":        3072,
		"big/nested/b.bin": 1024,
		"small/c.txt":      10,
		"loose.txt":        1 << 16,
	}

	for name, size := range files {
		fullPath := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}

		if err := os.WriteFile(fullPath, make([]byte, size), 0o644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	if err := os.Mkdir(filepath.Join(tmpDir, "empty"), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	return tmpDir
}

// run executes the command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := New("v1.2.3").Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), err
}

func TestCommand_Table(t *testing.T) {
	base := fixture(t)

	out, err := run(t, base, "1")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	want := "The 1 largest subdirectories of " + base + ":\n\n" +
		base + string(filepath.Separator) + "big: 4.0 KB\n"
	if out != want {
		t.Errorf("Unexpected output:\n%s\nwant:\n%s", out, want)
	}
}

func TestCommand_CountLargerThanAvailable(t *testing.T) {
	base := fixture(t)

	out, err := run(t, base, "50")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header, blank line and 2 entries, got %q", out)
	}

	if !strings.HasPrefix(lines[0], "The 2 largest subdirectories") {
		t.Errorf("Header should name the clamped count, got %q", lines[0])
	}

	if !strings.HasSuffix(lines[3], "small: 10.0 B") {
		t.Errorf("Expected small last, got %q", lines[3])
	}

	if strings.Contains(out, "empty") || strings.Contains(out, "loose.txt") {
		t.Errorf("Empty directories and loose files must not be reported: %q", out)
	}
}

func TestCommand_TrailingSeparatorStripped(t *testing.T) {
	base := fixture(t)

	out, err := run(t, base+string(filepath.Separator)+string(filepath.Separator), "1")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if !strings.Contains(out, "of "+base+":") {
		t.Errorf("Header should use the stripped path, got %q", out)
	}

	if strings.Contains(out, string(filepath.Separator)+string(filepath.Separator)) {
		t.Errorf("Paths should not contain doubled separators, got %q", out)
	}
}

func TestCommand_NoSubdirectoriesPrintsNothing(t *testing.T) {
	base := t.TempDir()

	out, err := run(t, base, "3")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if out != "" {
		t.Errorf("Expected no output, got %q", out)
	}
}

func TestCommand_InvalidArguments(t *testing.T) {
	base := fixture(t)
	file := filepath.Join(base, "loose.txt")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"non numeric count", []string{base, "abc"}, dutop.ErrInvalidCount},
		{"trailing garbage", []string{base, "3x"}, dutop.ErrInvalidCount},
		{"zero count", []string{base, "0"}, dutop.ErrInvalidCount},
		{"file as directory", []string{file, "1"}, dutop.ErrNotDirectory},
		{"missing directory", []string{filepath.Join(base, "nope"), "1"}, os.ErrNotExist},
		{"missing count", []string{base}, nil},
		{"unknown output", []string{"-o", "xml", base, "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("Expected an error")
			}

			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}

			if out != "" {
				t.Errorf("Expected no output on error, got %q", out)
			}
		})
	}
}

func TestCommand_JSON(t *testing.T) {
	base := fixture(t)

	out, err := run(t, "-o", "json", base, "5")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	var report dutop.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, out)
	}

	if len(report.Entries) != 2 || report.Entries[0].Size != 4096 || report.Entries[1].Size != 10 {
		t.Errorf("Unexpected entries: %+v", report.Entries)
	}

	if report.Empty != 1 {
		t.Errorf("Expected 1 empty subdirectory, got %d", report.Empty)
	}
}

func TestCommand_YAML(t *testing.T) {
	base := fixture(t)

	out, err := run(t, "--output", "yaml", base, "1")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	var decoded struct {
		Base    string `yaml:"base"`
		Entries []struct {
			Path string `yaml:"path"`
			Size int64  `yaml:"size"`
		} `yaml:"entries"`
	}

	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Output is not valid YAML: %v\n%s", err, out)
	}

	if decoded.Base != base {
		t.Errorf("Expected base %q, got %q", base, decoded.Base)
	}

	if len(decoded.Entries) != 1 || decoded.Entries[0].Size != 4096 {
		t.Errorf("Unexpected entries: %+v", decoded.Entries)
	}
}

func TestCommand_Version(t *testing.T) {
	out, err := run(t, "--version")
	if err != nil {
		t.Fatalf("Command failed: %v", err)
	}

	if strings.TrimSpace(out) != "v1.2.3" {
		t.Errorf("Expected version, got %q", out)
	}
}

func TestParseDirectory_Root(t *testing.T) {
	sep := string(filepath.Separator)

	path, err := parseDirectory(sep + sep)
	if err != nil {
		t.Fatalf("parseDirectory failed: %v", err)
	}

	if path != sep {
		t.Errorf("Expected %q, got %q", sep, path)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"", 0, true},
		{"1.5", 0, true},
		{"7 ", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCount(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseCount(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)

			continue
		}

		if got != tt.want {
			t.Errorf("parseCount(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestParseErrors_WrapSentinels(t *testing.T) {
	_, err := parseCount("abc")
	if !errors.Is(err, dutop.ErrInvalidCount) {
		t.Fatalf("Expected ErrInvalidCount, got %v", err)
	}

	if want := `invalid count "abc": count must be at least 1`; err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	_, err = parseDirectory(file)
	if !errors.Is(err, dutop.ErrNotDirectory) {
		t.Fatalf("Expected ErrNotDirectory, got %v", err)
	}

	if !strings.HasSuffix(err.Error(), ": not a directory") {
		t.Errorf("Expected message to end with the sentinel text, got %q", err.Error())
	}
}
