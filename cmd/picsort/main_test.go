package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeTestConfig writes a minimal valid config rooted in a temp directory
// and returns its path.
func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
dest_root = %q
log_dir = %q
index_path = %q

[sorting]
policy = "rename"
split_kind = false
workers = 2
`,
		filepath.Join(base, "library"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "digests.db"))

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// runCLI executes the root command with args and returns captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output %q does not contain %q", haystack, needle)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init without --overwrite must refuse.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigValidateWithExplicitPath(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "-c", cfgPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestConfigShowPrintsResolvedValues(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "-c", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "dest_root")
	requireContains(t, out, "rename")
}

func TestScanReportsEmptySource(t *testing.T) {
	cfgPath := writeTestConfig(t)
	source := t.TempDir()
	if err := os.WriteFile(filepath.Join(source, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-c", cfgPath, "scan", source)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "No supported image files found")
}

func TestSortRejectsInvalidPolicyFlag(t *testing.T) {
	cfgPath := writeTestConfig(t)
	if _, err := runCLI(t, "-c", cfgPath, "sort", "--policy", "bogus", t.TempDir()); err == nil {
		t.Fatal("expected validation error for bogus policy")
	}
}

func TestSortEmptySourceNeedsNoConfirmation(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := runCLI(t, "-c", cfgPath, "sort", t.TempDir())
	if err != nil {
		t.Fatalf("sort of empty source: %v", err)
	}
	requireContains(t, out, "No supported image files found")
}

func TestSortPlacesFilesWithYes(t *testing.T) {
	cfgPath := writeTestConfig(t)
	source := t.TempDir()
	// No EXIF data, so the resolver falls back to file mtime and the
	// Unknown camera placeholder.
	path := filepath.Join(source, "IMG_0001.jpg")
	if err := os.WriteFile(path, []byte("not a real jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2024, 4, 2, 10, 30, 0, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "-c", cfgPath, "sort", "--yes", source)
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	requireContains(t, out, "1 placed")

	placed := filepath.Join(filepath.Dir(cfgPath), "library", "Unknown Camera", "2024", "2024-04", "2024-04-02", "IMG_0001.jpg")
	if _, err := os.Stat(placed); err != nil {
		t.Fatalf("expected placed file at %s: %v", placed, err)
	}
}

func TestWatchRequiresConfiguredDevice(t *testing.T) {
	cfgPath := writeTestConfig(t)
	if _, err := runCLI(t, "-c", cfgPath, "watch"); err == nil {
		t.Fatal("expected error when watch.device is unset")
	}
}
