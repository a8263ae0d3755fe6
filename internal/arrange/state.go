package arrange

import (
	"fmt"
	"sort"

	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/history"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
)

// ManualSlot is a persisted manual assignment entry. WindowID 0 marks an
// empty slot.
type ManualSlot struct {
	layout.Position `yaml:",inline"`
	WindowID        int `yaml:"window_id,omitempty" json:"window_id,omitempty"`
}

// State is the part of a session that outlives one process: the CLI saves
// it after every command and restores it before the next.
type State struct {
	Display     int                   `yaml:"display"            json:"display"`
	WindowCount int                   `yaml:"window_count"       json:"window_count"`
	PresetIndex int                   `yaml:"preset_index"       json:"preset_index"`
	Preset      layout.Preset         `yaml:"preset"             json:"preset"`
	History     []layout.Preset       `yaml:"history,omitempty"  json:"history,omitempty"`
	Frames      []history.WindowFrame `yaml:"frames,omitempty"   json:"frames,omitempty"`
	Manual      []ManualSlot          `yaml:"manual,omitempty"   json:"manual,omitempty"`
	Excluded    []string              `yaml:"excluded,omitempty" json:"excluded,omitempty"`
}

// State captures the persistent state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Display:     s.display,
		WindowCount: len(s.eligible),
		PresetIndex: s.presetIndex,
		Preset:      s.current.Clone(),
		History:     s.history.Entries(),
	}
	if s.frames.Has() {
		st.Frames = s.frames.Frames()
	}
	if s.manual != nil && s.manual.Matches(s.current) {
		for _, a := range s.manual {
			m := ManualSlot{Position: a.Position}
			if a.Window != nil {
				m.WindowID = a.Window.ID
			}
			st.Manual = append(st.Manual, m)
		}
	}
	for key := range s.excluded {
		st.Excluded = append(st.Excluded, key)
	}
	sort.Strings(st.Excluded)
	return st
}

// Restore re-attaches persisted state to the freshly refreshed session.
// Exclusions and the frame snapshot always carry over. The preset, its
// index and the undo history carry over only while the number of eligible
// windows is unchanged, and the manual assignment only while every window it
// names still exists. A structurally invalid preset is rejected and nothing
// else is restored.
func (s *Session) Restore(st State) error {
	if len(st.Preset.Columns) > 0 {
		if err := st.Preset.Validate(); err != nil {
			return fmt.Errorf("restore state: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.excluded = make(map[string]bool, len(st.Excluded))
	for _, key := range st.Excluded {
		s.excluded[key] = true
	}
	s.filterEligible()
	if st.Display >= 0 && st.Display < len(s.displays) {
		s.display = st.Display
	}
	s.frames.Load(st.Frames)

	if len(st.Preset.Columns) == 0 || st.WindowCount != len(s.eligible) ||
		st.PresetIndex < 0 || st.PresetIndex >= len(s.presets) {
		return nil
	}
	s.presetIndex = st.PresetIndex
	s.current = st.Preset.Clone()
	var valid []layout.Preset
	for _, p := range st.History {
		if p.Validate() == nil {
			valid = append(valid, p)
		}
	}
	s.history.Load(valid)
	s.manual = s.attachManual(st.Manual)
	return nil
}

// attachManual rebuilds a manual assignment from window ids. Callers hold
// s.mu.
func (s *Session) attachManual(slots []ManualSlot) assign.Assignment {
	if len(slots) == 0 {
		return nil
	}
	byID := make(map[int]model.Window, len(s.eligible))
	for _, w := range s.eligible {
		byID[w.ID] = w
	}
	out := assign.Empty(s.current)
	if len(out) != len(slots) {
		return nil
	}
	for i, m := range slots {
		if out[i].Position != m.Position {
			return nil
		}
		if m.WindowID == 0 {
			continue
		}
		w, ok := byID[m.WindowID]
		if !ok {
			return nil
		}
		out[i].Window = &w
	}
	return out
}
