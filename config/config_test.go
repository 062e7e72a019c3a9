package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDocumentID, EnvSheetID, EnvOutputDir, EnvCredentials, EnvPolicy} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaultsWithoutFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DocumentID != DefaultDocumentID || cfg.SheetID != 0 {
		t.Fatalf("unexpected document: %q / %d", cfg.DocumentID, cfg.SheetID)
	}
	if cfg.OutputDir != filepath.Join(dir, "assets", "translations") {
		t.Fatalf("OutputDir = %q", cfg.OutputDir)
	}
	if cfg.Credentials != filepath.Join(dir, DefaultCredentials) {
		t.Fatalf("Credentials = %q", cfg.Credentials)
	}
	if cfg.Sentinel != "_N/A" || cfg.KeyColumn != 3 || cfg.SkipRows != 2 {
		t.Fatalf("unexpected layout: %#v", cfg)
	}
	want := []Language{{Code: "ko", Column: 4}, {Code: "en", Column: 5}}
	if !reflect.DeepEqual(cfg.Languages, want) {
		t.Fatalf("Languages = %#v, want %#v", cfg.Languages, want)
	}
	if cfg.Policy != PolicyBestEffort {
		t.Fatalf("Policy = %q", cfg.Policy)
	}
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `document_id: abc
languages:
  - code: ja
    column: 7
header_markers:
  - column: 3
    value: key
policy: strict
`
	if err := os.WriteFile(filepath.Join(dir, ".sheetsync.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DocumentID != "abc" {
		t.Fatalf("DocumentID = %q", cfg.DocumentID)
	}
	if !reflect.DeepEqual(cfg.LanguageCodes(), []string{"ja"}) {
		t.Fatalf("LanguageCodes() = %v", cfg.LanguageCodes())
	}
	if len(cfg.HeaderMarkers) != 1 || cfg.HeaderMarkers[0].Value != "key" {
		t.Fatalf("HeaderMarkers = %#v", cfg.HeaderMarkers)
	}
	if cfg.Sentinel != DefaultSentinel || cfg.KeyColumn != DefaultKeyColumn {
		t.Fatalf("defaults lost: %#v", cfg)
	}
	if cfg.Policy != PolicyStrict {
		t.Fatalf("Policy = %q", cfg.Policy)
	}
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `sheet_id = 42
output_dir = "out"
sub_dirs = ["web", "app"]

[[languages]]
code = "en"
column = 5
`
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir, "custom.toml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.SheetID != 42 {
		t.Fatalf("SheetID = %d", cfg.SheetID)
	}
	if cfg.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("OutputDir = %q", cfg.OutputDir)
	}
	if !reflect.DeepEqual(cfg.SubDirs, []string{"web", "app"}) {
		t.Fatalf("SubDirs = %v", cfg.SubDirs)
	}
	if !reflect.DeepEqual(cfg.LanguageCodes(), []string{"en"}) {
		t.Fatalf("LanguageCodes() = %v", cfg.LanguageCodes())
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(t.TempDir(), "nope.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	dotenv := EnvDocumentID + "=from-dotenv\n" + EnvPolicy + "=strict\n"
	if err := os.WriteFile(filepath.Join(dir, EnvFileName), []byte(dotenv), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(EnvSheetID, "7")
	t.Setenv(EnvOutputDir, "/abs/out")

	cfg, err := Load(dir, "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DocumentID != "from-dotenv" {
		t.Fatalf("DocumentID = %q, want from-dotenv", cfg.DocumentID)
	}
	if cfg.Policy != PolicyStrict {
		t.Fatalf("Policy = %q", cfg.Policy)
	}
	if cfg.SheetID != 7 {
		t.Fatalf("SheetID = %d", cfg.SheetID)
	}
	if cfg.OutputDir != "/abs/out" {
		t.Fatalf("OutputDir = %q", cfg.OutputDir)
	}
}

func TestLoadInvalidSheetIDEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSheetID, "first")
	if _, err := Load(t.TempDir(), ""); err == nil {
		t.Fatal("expected error for non-numeric sheet id")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty document", func(c *Config) { c.DocumentID = " " }, "document_id"},
		{"empty output", func(c *Config) { c.OutputDir = "" }, "output_dir"},
		{"empty sentinel", func(c *Config) { c.Sentinel = "" }, "sentinel"},
		{"negative key column", func(c *Config) { c.KeyColumn = -1 }, "key_column"},
		{"negative skip", func(c *Config) { c.SkipRows = -1 }, "skip_rows"},
		{"no languages", func(c *Config) { c.Languages = nil }, "at least one language"},
		{"bad code", func(c *Config) { c.Languages[0].Code = "not a language!" }, "invalid language code"},
		{"duplicate", func(c *Config) { c.Languages[1].Code = "ko" }, "duplicate language"},
		{"key column clash", func(c *Config) { c.Languages[0].Column = 3 }, "key column"},
		{"empty subdir", func(c *Config) { c.SubDirs = []string{""} }, "sub_dirs"},
		{"bad policy", func(c *Config) { c.Policy = "yolo" }, "unknown policy"},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestMarshalYAML(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	out := string(data)
	for _, want := range []string{"document_id: " + DefaultDocumentID, "sentinel: _N/A", "code: ko", "policy: best-effort"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Marshal() missing %q:\n%s", want, out)
		}
	}
}
