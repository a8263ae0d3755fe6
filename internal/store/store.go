// Package store persists saved layouts, the rewriter credential and the
// session state between CLI invocations.
//
// Saved layouts have two backends:
//   - file: a JSON document in the config directory (default)
//   - redis: a Redis hash, for sharing layouts between machines
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mj1618/arrange/internal/arrange"
)

// ErrNotFound is returned when deleting a layout that does not exist.
var ErrNotFound = arrange.ErrNotFound

var (
	_ arrange.LayoutStore = (*FileLayouts)(nil)
	_ arrange.LayoutStore = (*RedisLayouts)(nil)
)

// DefaultDir returns ~/.config/arrange.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "arrange"), nil
}

// writeJSON writes v to path atomically: a temp file in the same directory
// is renamed over the target.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readJSON decodes path into v. It reports false when the file is missing.
func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}
