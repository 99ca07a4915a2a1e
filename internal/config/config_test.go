package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Fatal("missing file reported as existing")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Sorting.Policy != defaultPolicy {
		t.Fatalf("policy %q, want default %q", cfg.Sorting.Policy, defaultPolicy)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
dest_root = "` + dir + `/library"

[sorting]
group_by = "Lens"
hierarchy = "date-first"
operation = "MOVE"
policy = "rename"
workers = 4
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("existing file reported missing")
	}
	if cfg.Sorting.GroupBy != "lens" {
		t.Fatalf("group_by not lowercased: %q", cfg.Sorting.GroupBy)
	}
	if cfg.Sorting.Operation != "move" {
		t.Fatalf("operation not lowercased: %q", cfg.Sorting.Operation)
	}
	if !filepath.IsAbs(cfg.Paths.DestRoot) {
		t.Fatalf("dest_root not absolute: %q", cfg.Paths.DestRoot)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty dest", func(c *Config) { c.Paths.DestRoot = "" }, "dest_root"},
		{"bad group", func(c *Config) { c.Sorting.GroupBy = "iso" }, "group_by"},
		{"bad hierarchy", func(c *Config) { c.Sorting.Hierarchy = "flat" }, "hierarchy"},
		{"bad operation", func(c *Config) { c.Sorting.Operation = "link" }, "operation"},
		{"bad policy", func(c *Config) { c.Sorting.Policy = "overwrite" }, "policy"},
		{"zero workers", func(c *Config) { c.Sorting.Workers = 0 }, "workers"},
		{"watch without mount", func(c *Config) { c.Watch.Device = "/dev/sdb1" }, "mount_point"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatal(err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestRunOptionsAskForcesSingleExecutionWorker(t *testing.T) {
	cfg := Default()
	cfg.Sorting.Workers = 8
	cfg.Sorting.Policy = "ask"

	opts := cfg.RunOptions()
	if got := opts.ExecutionWorkers(); got != 1 {
		t.Fatalf("ExecutionWorkers() = %d with ask policy, want 1", got)
	}
	if opts.MetadataWorkers() < 1 {
		t.Fatal("MetadataWorkers() must be at least 1")
	}

	cfg.Sorting.Policy = "rename"
	opts = cfg.RunOptions()
	if got := opts.ExecutionWorkers(); got < 1 {
		t.Fatalf("ExecutionWorkers() = %d, want >= 1", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatal(err)
	}
	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "[sorting]") {
		t.Fatal("sample config missing [sorting] section")
	}
}
