package arrange

import (
	"fmt"

	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/history"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/platform"
)

// ApplyReport summarises one apply.
type ApplyReport struct {
	Moved   int `yaml:"moved"             json:"moved"`
	Clamped int `yaml:"clamped,omitempty" json:"clamped,omitempty"`
	Failed  int `yaml:"failed,omitempty"  json:"failed,omitempty"`
	Empty   int `yaml:"empty,omitempty"   json:"empty,omitempty"`
}

// UndoKind says which undo mechanism ran.
type UndoKind int

const (
	UndoNothing UndoKind = iota
	UndoFrames
	UndoPreset
)

func (k UndoKind) String() string {
	switch k {
	case UndoFrames:
		return "frames"
	case UndoPreset:
		return "preset"
	}
	return "nothing"
}

// MarshalText renders the kind by name.
func (k UndoKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Apply moves every assigned window into its slot on the selected display.
// The occupants' frames are recorded first so Undo can put them back.
// Failing to move a single window is counted, not returned.
func (s *Session) Apply() (ApplyReport, error) {
	s.mu.Lock()
	report, err := s.apply()
	if err != nil {
		s.mu.Unlock()
		return report, err
	}
	ev := s.event(EventApplied)
	s.mu.Unlock()

	s.emit(ev)
	return report, nil
}

// apply does the work of Apply. Callers hold s.mu.
func (s *Session) apply() (ApplyReport, error) {
	var report ApplyReport
	d, ok := s.selectedDisplay()
	if !ok {
		s.status = "No screen selected"
		return report, ErrNoDisplay
	}
	if s.provider.Windows == nil {
		s.status = "No window backend"
		return report, fmt.Errorf("apply: %w", platform.ErrUnsupported)
	}

	rects := s.resolver.Resolve(s.current, layout.RectFromBounds(d.Visible))
	assigned := s.assignments()

	var moving []model.Window
	for _, a := range assigned {
		if a.Window != nil {
			moving = append(moving, *a.Window)
		}
	}
	s.frames.Take(moving)

	for _, a := range assigned {
		if a.Window == nil {
			report.Empty++
			continue
		}
		rect, ok := layout.Lookup(rects, a.Position)
		if !ok {
			continue
		}
		s.place(a, rect.Bounds(), &report)
	}

	s.status = fmt.Sprintf("%d windows arranged", report.Moved)
	if report.Failed > 0 {
		s.status += fmt.Sprintf(", %d failed", report.Failed)
	}
	s.log.Info("applied", "preset", s.current.Name, "moved", report.Moved,
		"clamped", report.Clamped, "failed", report.Failed)
	return report, nil
}

// place moves one window and re-centres it inside target when the
// application refused the requested size. The window is never resized a
// second time.
func (s *Session) place(a assign.SlotAssignment, target [4]int, report *ApplyReport) {
	ws := s.provider.Windows
	w := a.Window
	if err := ws.SetFrame(w.ID, target); err != nil {
		report.Failed++
		s.log.Warn("failed to move window", "app", w.App, "window", w.ID, "err", err)
		return
	}
	report.Moved++

	actual, err := ws.Frame(w.ID)
	if err != nil {
		s.log.Debug("could not read back frame", "window", w.ID, "err", err)
		return
	}
	tol := *s.opts.ClampTolerance
	if abs(actual[2]-target[2]) <= tol && abs(actual[3]-target[3]) <= tol {
		return
	}
	report.Clamped++
	centred := [4]int{
		target[0] + (target[2]-actual[2])/2,
		target[1] + (target[3]-actual[3])/2,
		actual[2],
		actual[3],
	}
	s.log.Debug("window clamped, re-centring", "app", w.App, "slot", a.Position,
		"requested", target, "actual", actual, "centred", centred)
	if err := ws.SetFrame(w.ID, centred); err != nil {
		s.log.Warn("failed to re-centre window", "app", w.App, "window", w.ID, "err", err)
	}
}

// Undo reverses the most recent physical move if there is one, otherwise
// the most recent preset change.
func (s *Session) Undo() UndoKind {
	s.mu.Lock()
	var kind UndoKind
	switch {
	case s.frames.Has() && s.provider.Windows != nil:
		ws := s.provider.Windows
		n, errs := s.frames.Restore(func(f history.WindowFrame) error {
			return ws.SetFrame(f.WindowID, f.Bounds)
		})
		for _, err := range errs {
			s.log.Warn("failed to restore window", "err", err)
		}
		s.log.Info("restored windows", "restored", n, "failed", len(errs))
		kind = UndoFrames
		s.status = "Windows restored"
	case s.history.CanUndo():
		p, _ := s.history.Pop()
		s.current = p
		s.seam.End()
		kind = UndoPreset
		s.status = "Layout restored"
	default:
		kind = UndoNothing
		s.status = "Nothing to undo"
	}

	var events []Event
	switch kind {
	case UndoFrames:
		events = append(events, s.event(EventFramesRestored))
	case UndoPreset:
		events = append(events, s.event(EventPresetChanged))
	}
	s.mu.Unlock()

	s.emit(events...)
	return kind
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
