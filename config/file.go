package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config file names searched in the project root, in order.
var FileNames = []string{".sheetsync.yaml", ".sheetsync.yml", ".sheetsync.toml"}

// EnvFileName is the optional dotenv file read from the project root.
const EnvFileName = ".env"

// Environment variables that override the config file.
const (
	EnvDocumentID  = "SHEETSYNC_DOCUMENT_ID"
	EnvSheetID     = "SHEETSYNC_SHEET_ID"
	EnvOutputDir   = "SHEETSYNC_OUTPUT_DIR"
	EnvCredentials = "SHEETSYNC_CREDENTIALS"
	EnvPolicy      = "SHEETSYNC_POLICY"
)

// Load builds the run configuration for rootDir.
//
// If path is empty the first existing name from FileNames is used, and no
// file at all means the defaults. An explicit path must exist. Environment
// overrides are applied last, then relative paths are resolved against
// rootDir and the result is validated.
func Load(rootDir, path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findFile(rootDir)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(rootDir, path)
	}

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := loadEnv(rootDir, cfg); err != nil {
		return nil, err
	}

	cfg.Resolve(rootDir)

	if err := cfg.Validate(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}

	return cfg, nil
}

func findFile(rootDir string) string {
	for _, name := range FileNames {
		p := filepath.Join(rootDir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// fileConfig mirrors Config with optional fields so a file only overrides
// what it sets.
type fileConfig struct {
	DocumentID    *string        `yaml:"document_id" toml:"document_id"`
	SheetID       *int64         `yaml:"sheet_id" toml:"sheet_id"`
	OutputDir     *string        `yaml:"output_dir" toml:"output_dir"`
	SubDirs       []string       `yaml:"sub_dirs" toml:"sub_dirs"`
	Sentinel      *string        `yaml:"sentinel" toml:"sentinel"`
	KeyColumn     *int           `yaml:"key_column" toml:"key_column"`
	SkipRows      *int           `yaml:"skip_rows" toml:"skip_rows"`
	Languages     []Language     `yaml:"languages" toml:"languages"`
	HeaderMarkers []HeaderMarker `yaml:"header_markers" toml:"header_markers"`
	Credentials   *string        `yaml:"credentials" toml:"credentials"`
	Policy        *Policy        `yaml:"policy" toml:"policy"`
}

// decodeFile overlays the file at path onto cfg. Fields absent from the file
// keep their current values.
func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.DocumentID != nil {
		cfg.DocumentID = *fc.DocumentID
	}
	if fc.SheetID != nil {
		cfg.SheetID = *fc.SheetID
	}
	if fc.OutputDir != nil {
		cfg.OutputDir = *fc.OutputDir
	}
	if fc.SubDirs != nil {
		cfg.SubDirs = fc.SubDirs
	}
	if fc.Sentinel != nil {
		cfg.Sentinel = *fc.Sentinel
	}
	if fc.KeyColumn != nil {
		cfg.KeyColumn = *fc.KeyColumn
	}
	if fc.SkipRows != nil {
		cfg.SkipRows = *fc.SkipRows
	}
	if fc.Languages != nil {
		cfg.Languages = fc.Languages
	}
	if fc.HeaderMarkers != nil {
		cfg.HeaderMarkers = fc.HeaderMarkers
	}
	if fc.Credentials != nil {
		cfg.Credentials = *fc.Credentials
	}
	if fc.Policy != nil {
		cfg.Policy = *fc.Policy
	}
}

// loadEnv reads rootDir/.env into the process environment (without
// overwriting variables that are already set) and applies SHEETSYNC_*
// overrides to cfg.
func loadEnv(rootDir string, cfg *Config) error {
	envPath := filepath.Join(rootDir, EnvFileName)
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", envPath, err)
	}

	if v := os.Getenv(EnvDocumentID); v != "" {
		cfg.DocumentID = v
	}
	if v := os.Getenv(EnvSheetID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %s must be an integer sheet id: %w", EnvSheetID, err)
		}
		cfg.SheetID = id
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv(EnvCredentials); v != "" {
		cfg.Credentials = v
	}
	if v := os.Getenv(EnvPolicy); v != "" {
		cfg.Policy = Policy(v)
	}

	return nil
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}
