package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/mj1618/arrange/internal/model"
)

// FileLayouts keeps saved layouts in layouts.json.
type FileLayouts struct {
	mu   sync.RWMutex
	path string
}

// NewFileLayouts stores layouts under dir. An empty dir means DefaultDir.
func NewFileLayouts(dir string) (*FileLayouts, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return &FileLayouts{path: filepath.Join(dir, "layouts.json")}, nil
}

// Path returns the backing file.
func (s *FileLayouts) Path() string { return s.path }

func (s *FileLayouts) List(ctx context.Context) ([]model.SavedLayout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Save adds l, replacing a layout with the same id.
func (s *FileLayouts) Save(ctx context.Context, l model.SavedLayout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layouts, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range layouts {
		if layouts[i].ID == l.ID {
			layouts[i] = l
			replaced = true
			break
		}
	}
	if !replaced {
		layouts = append(layouts, l)
	}
	return writeJSON(s.path, layouts)
}

func (s *FileLayouts) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	layouts, err := s.load()
	if err != nil {
		return err
	}
	for i := range layouts {
		if layouts[i].ID == id {
			layouts = append(layouts[:i], layouts[i+1:]...)
			return writeJSON(s.path, layouts)
		}
	}
	return fmt.Errorf("%q: %w", id, ErrNotFound)
}

func (s *FileLayouts) load() ([]model.SavedLayout, error) {
	var layouts []model.SavedLayout
	if _, err := readJSON(s.path, &layouts); err != nil {
		return nil, err
	}
	return layouts, nil
}
