package store

import (
	"path/filepath"

	"github.com/mj1618/arrange/internal/arrange"
)

// StateFile persists the session state between CLI invocations.
type StateFile struct {
	path string
}

// NewStateFile stores state under dir (DefaultDir when empty).
func NewStateFile(dir string) (*StateFile, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &StateFile{path: filepath.Join(dir, "state.json")}, nil
}

// Load returns the saved state. It reports false when nothing was saved.
func (f *StateFile) Load() (arrange.State, bool, error) {
	var st arrange.State
	ok, err := readJSON(f.path, &st)
	if err != nil {
		return arrange.State{}, false, err
	}
	return st, ok, nil
}

func (f *StateFile) Save(st arrange.State) error {
	return writeJSON(f.path, st)
}
