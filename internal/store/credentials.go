package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Credentials stores the rewriter API key as an opaque string in a 0600
// file.
type Credentials struct {
	path string
}

// NewCredentials stores the key under dir (DefaultDir when empty).
func NewCredentials(dir string) (*Credentials, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &Credentials{path: filepath.Join(dir, "api_key")}, nil
}

// Load returns the stored key exactly as saved, or "" when none is stored.
func (c *Credentials) Load() (string, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read api key: %w", err)
	}
	return string(data), nil
}

// Save replaces the stored key.
func (c *Credentials) Save(key string) error {
	return writeFile(c.path, []byte(key))
}

// Clear removes the stored key.
func (c *Credentials) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove api key: %w", err)
	}
	return nil
}
