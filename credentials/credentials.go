// Package credentials locates and loads the Google service-account key used
// to read the spreadsheet.
//
// Lookup order for the key file:
//  1. --credentials flag (highest priority)
//  2. SHEETSYNC_CREDENTIALS environment variable
//  3. credentials path from the config file (default ./credential.json)
//  4. $XDG_DATA_HOME/sheetsync/credential.json (default ~/.local/share/sheetsync/)
//
// Steps 1-3 are folded into the config before Resolve is called; the data
// directory is only consulted when that path does not exist.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "sheetsync"
	fileName    = "credential.json"

	serviceAccountType = "service_account"
)

// ErrInvalidCredential is returned for key files that are not usable
// service-account credentials.
var ErrInvalidCredential = errors.New("invalid service-account credential")

// ServiceAccount is the identity part of a service-account key file.
// The raw file is kept as-is for the Sheets client.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`

	// Raw is the unmodified file content.
	Raw []byte `json:"-"`
	// Path is where the file was loaded from.
	Path string `json:"-"`
}

// dataDir returns the XDG data directory for sheetsync.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

// FallbackPath returns the credential path inside the data directory.
func FallbackPath() string {
	dir, err := dataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, fileName)
}

// Resolve returns path if it exists, otherwise the data directory fallback
// if that exists. When neither exists path is returned unchanged so the
// subsequent load reports the configured location.
func Resolve(path string) string {
	if fileExists(path) {
		return path
	}
	if fb := FallbackPath(); fb != "" && fileExists(fb) {
		return fb
	}
	return path
}

// Load reads and checks the service-account key file at path.
func Load(path string) (*ServiceAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials %s: %w", path, err)
	}
	sa, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sa.Path = path
	return sa, nil
}

// Parse decodes a service-account key.
func Parse(data []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	switch {
	case sa.Type != serviceAccountType:
		return nil, fmt.Errorf("%w: type is %q, want %q", ErrInvalidCredential, sa.Type, serviceAccountType)
	case sa.ClientEmail == "":
		return nil, fmt.Errorf("%w: missing client_email", ErrInvalidCredential)
	case sa.PrivateKey == "":
		return nil, fmt.Errorf("%w: missing private_key", ErrInvalidCredential)
	}

	sa.Raw = data
	return &sa, nil
}

// MaskKey returns a masked version of an identifier for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
