package history

import "github.com/mj1618/arrange/internal/model"

// WindowFrame is the recorded pre-move geometry of one window.
type WindowFrame struct {
	WindowID int    `yaml:"window_id" json:"window_id"`
	App      string `yaml:"app"       json:"app"`
	Bounds   [4]int `yaml:"bounds"    json:"bounds"`
}

// FrameSetter restores a window to a recorded frame.
type FrameSetter func(f WindowFrame) error

// Frames is the single-slot frame snapshot. A new Take overwrites any
// snapshot that was not restored; Restore consumes it wholesale.
type Frames struct {
	frames []WindowFrame
	taken  bool
}

// Take records the current bounds of windows. Taking no windows leaves no
// snapshot, so Has reports false afterwards.
func (s *Frames) Take(windows []model.Window) {
	s.frames = make([]WindowFrame, 0, len(windows))
	for _, w := range windows {
		s.frames = append(s.frames, WindowFrame{WindowID: w.ID, App: w.App, Bounds: w.Bounds})
	}
	s.taken = len(s.frames) > 0
}

// Has reports whether a snapshot is waiting to be restored.
func (s *Frames) Has() bool { return s.taken }

// Frames returns a copy of the recorded frames.
func (s *Frames) Frames() []WindowFrame {
	return append([]WindowFrame(nil), s.frames...)
}

// Load installs a previously persisted snapshot. An empty slice clears it.
func (s *Frames) Load(frames []WindowFrame) {
	if len(frames) == 0 {
		s.Clear()
		return
	}
	s.frames = append([]WindowFrame(nil), frames...)
	s.taken = true
}

// Clear discards the snapshot without restoring it.
func (s *Frames) Clear() {
	s.frames = nil
	s.taken = false
}

// Restore calls set for every recorded frame and then discards the snapshot,
// even when some calls fail. It returns the number of frames restored and
// the errors encountered.
func (s *Frames) Restore(set FrameSetter) (int, []error) {
	if !s.taken {
		return 0, nil
	}
	restored := 0
	var errs []error
	for _, f := range s.frames {
		if err := set(f); err != nil {
			errs = append(errs, err)
			continue
		}
		restored++
	}
	s.Clear()
	return restored, errs
}
