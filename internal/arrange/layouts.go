package arrange

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/replay"
)

// Layouts lists the saved layouts.
func (s *Session) Layouts(ctx context.Context) ([]model.SavedLayout, error) {
	layouts, err := s.opts.Layouts.List(ctx)
	if err != nil {
		return nil, s.fail(fmt.Errorf("failed to list layouts: %w", err))
	}
	return layouts, nil
}

// FindLayout looks a saved layout up by id, or by name when no id matches.
func (s *Session) FindLayout(ctx context.Context, ref string) (model.SavedLayout, error) {
	layouts, err := s.Layouts(ctx)
	if err != nil {
		return model.SavedLayout{}, err
	}
	for _, l := range layouts {
		if l.ID == ref {
			return l, nil
		}
	}
	for _, l := range layouts {
		if strings.EqualFold(l.Name, ref) {
			return l, nil
		}
	}
	return model.SavedLayout{}, fmt.Errorf("%q: %w", ref, ErrNotFound)
}

// SaveCurrentLayout records the current preset and the application of every
// filled slot under name.
func (s *Session) SaveCurrentLayout(ctx context.Context, name string) (model.SavedLayout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		s.setStatus("Enter a layout name")
		return model.SavedLayout{}, fmt.Errorf("layout name is required")
	}

	s.mu.Lock()
	saved := model.SavedLayout{
		ID:     uuid.NewString(),
		Name:   name,
		Preset: s.current.Clone(),
	}
	for _, a := range s.assignments() {
		if a.Window == nil {
			continue
		}
		saved.Slots = append(saved.Slots, model.SavedSlot{
			Col:      a.Column,
			App:      a.Slot,
			BundleID: a.Window.BundleID,
			AppName:  a.Window.App,
		})
	}
	s.mu.Unlock()

	if err := s.opts.Layouts.Save(ctx, saved); err != nil {
		return model.SavedLayout{}, s.fail(fmt.Errorf("failed to save layout: %w", err))
	}
	s.setStatus(fmt.Sprintf("Saved %q", name))
	s.log.Info("saved layout", "name", name, "id", saved.ID, "slots", len(saved.Slots))
	return saved, nil
}

// DeleteLayout removes a saved layout.
func (s *Session) DeleteLayout(ctx context.Context, id string) error {
	if err := s.opts.Layouts.Delete(ctx, id); err != nil {
		return s.fail(fmt.Errorf("failed to delete layout: %w", err))
	}
	s.setStatus("Layout deleted")
	return nil
}

// TriggerLayout replays a saved layout: missing applications are launched,
// the session waits for them to settle, windows are re-read and the saved
// preset is applied with each saved slot given a window of its recorded
// application. Slots whose application never appeared stay empty.
func (s *Session) TriggerLayout(ctx context.Context, saved model.SavedLayout) (ApplyReport, error) {
	if err := saved.Preset.Validate(); err != nil {
		s.setStatus("Saved layout is invalid")
		return ApplyReport{}, fmt.Errorf("layout %q: %w", saved.Name, err)
	}
	if err := s.acquire(); err != nil {
		return ApplyReport{}, err
	}
	defer s.release()

	s.mu.Lock()
	missing := replay.MissingApps(saved, s.windows)
	s.status = fmt.Sprintf("Opening %q", saved.Name)
	s.mu.Unlock()

	launched := 0
	for _, app := range missing {
		if s.provider.Launcher == nil {
			s.log.Warn("cannot launch application, no launcher", "app", app)
			continue
		}
		if err := s.provider.Launcher.Launch(app); err != nil {
			s.log.Warn("failed to launch application", "app", app, "err", err)
			continue
		}
		launched++
	}

	delay := s.opts.Replay.Delay(len(missing))
	s.log.Debug("waiting for windows to settle", "missing", len(missing), "launched", launched, "delay", delay)
	if err := s.opts.Sleep(ctx, delay); err != nil {
		s.setStatus("Replay cancelled")
		return ApplyReport{}, err
	}

	windows, err := s.listWindows()
	if err != nil {
		return ApplyReport{}, s.fail(err)
	}

	s.mu.Lock()
	// Launched windows change the count, which regenerates presets and
	// clears history, so the pre-replay preset is taken first.
	prev := s.current.Clone()
	s.setWindows(windows)
	s.history.Push(prev)
	s.current = saved.Preset.Clone()
	s.manual = replay.Manual(saved, s.eligible, assign.Assign(s.eligible, s.current))
	report, err := s.apply()
	if err != nil {
		ev := s.event(EventAssignmentChanged)
		s.mu.Unlock()
		s.emit(ev)
		return report, err
	}
	s.status = fmt.Sprintf("%q: %d windows arranged", saved.Name, report.Moved)
	events := []Event{s.event(EventPresetChanged), s.event(EventAssignmentChanged), s.event(EventApplied)}
	s.mu.Unlock()

	s.emit(events...)
	return report, nil
}

// acquire marks the session busy, failing if it already is.
func (s *Session) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	s.busy = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

func (s *Session) setStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// memLayouts is the LayoutStore used when none is configured.
type memLayouts struct {
	mu      sync.Mutex
	layouts []model.SavedLayout
}

func (m *memLayouts) List(context.Context) ([]model.SavedLayout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.SavedLayout(nil), m.layouts...), nil
}

func (m *memLayouts) Save(_ context.Context, l model.SavedLayout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.layouts {
		if m.layouts[i].ID == l.ID {
			m.layouts[i] = l
			return nil
		}
	}
	m.layouts = append(m.layouts, l)
	return nil
}

func (m *memLayouts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.layouts {
		if m.layouts[i].ID == id {
			m.layouts = append(m.layouts[:i], m.layouts[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
