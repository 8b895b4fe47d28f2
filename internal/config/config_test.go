package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	return writeNamed(t, "symbolmap.yaml", content)
}

func writeNamed(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `namespace: mir
version: MIRAL_5.1
match: lines
exclude:
  origins: []
  paths: ["**/detail/**"]
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Namespace != "mir" || cfg.Version != "MIRAL_5.1" || cfg.Match != "lines" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Baseline != "symbols.map" {
		t.Errorf("baseline default lost: %q", cfg.Baseline)
	}
	if cfg.Exclude.Origins == nil || len(cfg.Exclude.Origins) != 0 {
		t.Errorf("origins = %#v, want empty", cfg.Exclude.Origins)
	}
	if len(cfg.Exclude.Names) != 1 || cfg.Exclude.Names[0] != "__attribute__" {
		t.Errorf("names = %v, want defaults", cfg.Exclude.Names)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	r := cfg.Rules()
	if _, ok := r.ExcludedOrigin("/src/examples/x.h"); ok {
		t.Error("origins were disabled")
	}
	if _, ok := r.ExcludedOrigin("/src/include/detail/x.h"); !ok {
		t.Error("path pattern should exclude detail headers")
	}
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	path := writeNamed(t, "symbolmap.toml", `namespace = "mir"
source_root = "/src/mir"

[exclude]
names = ["__attribute__", "__declspec"]
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Namespace != "mir" || cfg.SourceRoot != "/src/mir" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Exclude.Names) != 2 || cfg.Exclude.Names[1] != "__declspec" {
		t.Errorf("names = %v", cfg.Exclude.Names)
	}
	if len(cfg.Exclude.Origins) != 4 {
		t.Errorf("origins default lost: %v", cfg.Exclude.Origins)
	}

	bad := writeNamed(t, "bad.toml", "namespace = \n")
	if _, err := Load(bad, false); err == nil {
		t.Error("expected TOML parse error")
	}
}

func TestLoadMissing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	cfg, err := Load(missing, true)
	if err != nil {
		t.Fatalf("optional Load: %v", err)
	}
	if cfg.Namespace != "miral" {
		t.Errorf("namespace = %q, want default", cfg.Namespace)
	}

	if _, err := Load(missing, false); err == nil {
		t.Error("expected error for required missing config")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "namespace: [unterminated\n")
	if _, err := Load(path, false); err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"no namespace", func(c *Config) { c.Namespace = "" }, "namespace"},
		{"bad match", func(c *Config) { c.Match = "fuzzy" }, "match mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := writeConfig(t, string(data))
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Namespace != "miral" || len(cfg.Exclude.Origins) != 4 {
		t.Errorf("cfg = %+v", cfg)
	}
}
