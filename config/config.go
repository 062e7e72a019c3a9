// Package config holds the sheetsync run configuration.
//
// Every run starts from Default(), which reproduces the built-in sheet
// layout. A .sheetsync.yaml or .sheetsync.toml file in the project root and
// SHEETSYNC_* environment variables (optionally from a .env file) can
// override individual fields. The resulting Config is built once in main
// and passed to each component.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// Policy decides how recoverable failures affect the exit code.
type Policy string

const (
	// PolicyBestEffort logs directory and write failures and still exits 0.
	PolicyBestEffort Policy = "best-effort"
	// PolicyStrict exits non-zero when any phase logged a failure.
	PolicyStrict Policy = "strict"
)

// Language binds a language code to the sheet column holding its translations.
type Language struct {
	Code   string `yaml:"code" toml:"code"`
	Column int    `yaml:"column" toml:"column"`
}

// HeaderMarker is a value expected at a column of the sheet's header row.
type HeaderMarker struct {
	Column int    `yaml:"column" toml:"column"`
	Value  string `yaml:"value" toml:"value"`
}

// Config is the full description of one sync run.
type Config struct {
	// DocumentID is the spreadsheet id from
	// https://docs.google.com/spreadsheets/d/<DocumentID>/edit#gid=<SheetID>.
	DocumentID string `yaml:"document_id" toml:"document_id"`
	// SheetID is the worksheet gid inside the document.
	SheetID int64 `yaml:"sheet_id" toml:"sheet_id"`
	// OutputDir receives one <lang>.json file per language.
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
	// SubDirs, when set, are created under OutputDir instead of OutputDir itself.
	SubDirs []string `yaml:"sub_dirs,omitempty" toml:"sub_dirs,omitempty"`
	// Sentinel marks a cell with no translation available.
	Sentinel string `yaml:"sentinel" toml:"sentinel"`
	// KeyColumn is the zero-based column of the translation key.
	KeyColumn int `yaml:"key_column" toml:"key_column"`
	// SkipRows is the number of banner rows below the header row.
	SkipRows int `yaml:"skip_rows" toml:"skip_rows"`
	// Languages in output order.
	Languages []Language `yaml:"languages" toml:"languages"`
	// HeaderMarkers are checked against the header row before mapping.
	HeaderMarkers []HeaderMarker `yaml:"header_markers,omitempty" toml:"header_markers,omitempty"`
	// Credentials is the path to the service-account JSON file.
	Credentials string `yaml:"credentials" toml:"credentials"`
	Policy      Policy `yaml:"policy" toml:"policy"`
}

// Built-in sheet layout.
const (
	DefaultDocumentID  = "1RENVK6LUrv-ajWrb6zf0iaEFiyQk9kB3PSQb_zCtBuk"
	DefaultSheetID     = 0
	DefaultOutputDir   = "./assets/translations"
	DefaultSentinel    = "_N/A"
	DefaultKeyColumn   = 3
	DefaultSkipRows    = 2
	DefaultCredentials = "credential.json"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DocumentID: DefaultDocumentID,
		SheetID:    DefaultSheetID,
		OutputDir:  DefaultOutputDir,
		Sentinel:   DefaultSentinel,
		KeyColumn:  DefaultKeyColumn,
		SkipRows:   DefaultSkipRows,
		Languages: []Language{
			{Code: "ko", Column: 4},
			{Code: "en", Column: 5},
		},
		Credentials: DefaultCredentials,
		Policy:      PolicyBestEffort,
	}
}

// LanguageCodes returns the configured language codes in order.
func (c *Config) LanguageCodes() []string {
	codes := make([]string, len(c.Languages))
	for i, l := range c.Languages {
		codes[i] = l.Code
	}
	return codes
}

// Validate checks the configuration for values no run can succeed with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DocumentID) == "" {
		return fmt.Errorf("config: document_id is required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("config: output_dir is required")
	}
	if c.Sentinel == "" {
		return fmt.Errorf("config: sentinel must not be empty")
	}
	if c.KeyColumn < 0 {
		return fmt.Errorf("config: key_column must be >= 0, got %d", c.KeyColumn)
	}
	if c.SkipRows < 0 {
		return fmt.Errorf("config: skip_rows must be >= 0, got %d", c.SkipRows)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("config: at least one language is required")
	}

	seen := make(map[string]bool, len(c.Languages))
	for _, l := range c.Languages {
		if l.Code == "" {
			return fmt.Errorf("config: language with column %d has no code", l.Column)
		}
		if _, err := language.Parse(l.Code); err != nil {
			return fmt.Errorf("config: invalid language code %q: %w", l.Code, err)
		}
		if seen[l.Code] {
			return fmt.Errorf("config: duplicate language %q", l.Code)
		}
		seen[l.Code] = true

		if l.Column < 0 {
			return fmt.Errorf("config: language %q column must be >= 0, got %d", l.Code, l.Column)
		}
		if l.Column == c.KeyColumn {
			return fmt.Errorf("config: language %q uses the key column %d", l.Code, l.Column)
		}
	}

	for _, m := range c.HeaderMarkers {
		if m.Column < 0 {
			return fmt.Errorf("config: header marker column must be >= 0, got %d", m.Column)
		}
	}

	for _, sub := range c.SubDirs {
		if strings.TrimSpace(sub) == "" {
			return fmt.Errorf("config: sub_dirs entries must not be empty")
		}
	}

	switch c.Policy {
	case PolicyBestEffort, PolicyStrict:
	default:
		return fmt.Errorf("config: unknown policy %q (valid: %s, %s)", c.Policy, PolicyBestEffort, PolicyStrict)
	}

	return nil
}

// Resolve makes the relative paths in c relative to rootDir.
func (c *Config) Resolve(rootDir string) {
	if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(rootDir, c.OutputDir)
	}
	if c.Credentials != "" && !filepath.IsAbs(c.Credentials) {
		c.Credentials = filepath.Join(rootDir, c.Credentials)
	}
}
