// Package arrange ties the layout engine to the outside world. A Session owns
// the live window list, the generated presets, the current (possibly edited)
// preset, the manual assignment override, both undo mechanisms and the saved
// layouts, and exposes every user-facing operation on them.
//
// All state is guarded by one mutex. The two operations that wait on the
// outside world, TriggerLayout and Modify, refuse to overlap (ErrBusy) and
// commit their results in one locked step. Events are delivered after the
// lock is released.
package arrange

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/history"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/platform"
	"github.com/mj1618/arrange/internal/replay"
	"github.com/mj1618/arrange/internal/resize"
)

// LayoutStore persists saved layouts.
type LayoutStore interface {
	List(ctx context.Context) ([]model.SavedLayout, error)
	Save(ctx context.Context, l model.SavedLayout) error
	Delete(ctx context.Context, id string) error
}

// Options configures a Session. Zero values fall back to the defaults.
type Options struct {
	Gutter          float64
	Limits          resize.Limits
	HistoryCapacity int
	// ClampTolerance is the size mismatch in pixels above which a window is
	// considered clamped by its application after a move. Nil means 1.
	ClampTolerance *int
	// Replay is the settle policy for TriggerLayout. Nil means
	// replay.DefaultPolicy.
	Replay *replay.Policy
	// APIKey is the rewriter credential; Modify refuses to run without it.
	APIKey  string
	Logger  *log.Logger
	Layouts LayoutStore
	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return Options{
		Gutter:          layout.DefaultGutter,
		Limits:          resize.DefaultLimits(),
		HistoryCapacity: history.DefaultCapacity,
		ClampTolerance:  ptr(1),
		Replay:          ptr(replay.DefaultPolicy()),
	}
}

// Session is the single owner of arrangement state.
type Session struct {
	mu       sync.Mutex
	provider *platform.Provider
	opts     Options
	log      *log.Logger
	resolver layout.Resolver

	windows  []model.Window // everything the window source reported
	eligible []model.Window // windows minus exclusions
	excluded map[string]bool

	displays []model.Display
	display  int

	presets     []layout.Preset
	presetIndex int
	current     layout.Preset
	manual      assign.Assignment

	history *history.History
	frames  history.Frames
	seam    *resize.Controller
	// seamPushed is set once the current gesture has recorded its undo step.
	seamPushed bool

	status string
	busy   bool

	listeners    []listener
	nextListener int
}

// New returns a session with no windows. Call Refresh to populate it.
func New(p *platform.Provider, opts Options) *Session {
	def := DefaultOptions()
	if opts.Gutter <= 0 {
		opts.Gutter = def.Gutter
	}
	if opts.Limits.ColumnMinRatio <= 0 {
		opts.Limits.ColumnMinRatio = def.Limits.ColumnMinRatio
	}
	if opts.Limits.SlotMinRatio <= 0 {
		opts.Limits.SlotMinRatio = def.Limits.SlotMinRatio
	}
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = def.HistoryCapacity
	}
	if opts.ClampTolerance == nil || *opts.ClampTolerance < 0 {
		opts.ClampTolerance = def.ClampTolerance
	}
	if opts.Replay == nil {
		opts.Replay = def.Replay
	}
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Layouts == nil {
		opts.Layouts = &memLayouts{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	presets := layout.Presets(0)
	return &Session{
		provider: p,
		opts:     opts,
		log:      logger,
		resolver: layout.NewResolver(opts.Gutter),
		excluded: make(map[string]bool),
		presets:  presets,
		current:  presets[0].Clone(),
		history:  history.New(opts.HistoryCapacity),
		seam:     resize.NewController(opts.Limits),
	}
}

// Refresh re-reads displays and windows. When the number of eligible windows
// changes the presets are regenerated and the session starts over on the
// first one with an empty history; otherwise the current preset and history
// survive. Any manual assignment is dropped either way.
func (s *Session) Refresh() error {
	var displays []model.Display
	if s.provider.Displays != nil {
		d, err := s.provider.Displays.ListDisplays()
		if err != nil {
			return s.fail(fmt.Errorf("failed to list displays: %w", err))
		}
		displays = d
	}
	windows, err := s.listWindows()
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.displays = displays
	if s.display >= len(displays) {
		s.display = 0
	}
	s.setWindows(windows)
	s.manual = nil
	ev := s.event(EventWindowsChanged)
	s.mu.Unlock()

	s.log.Debug("refreshed", "windows", len(windows), "displays", len(displays))
	s.emit(ev)
	return nil
}

func (s *Session) listWindows() ([]model.Window, error) {
	if s.provider.Windows == nil {
		return nil, platform.ErrUnsupported
	}
	windows, err := s.provider.Windows.ListWindows(platform.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	return windows, nil
}

// setWindows installs a new window list. Callers hold s.mu.
func (s *Session) setWindows(windows []model.Window) {
	s.windows = append([]model.Window(nil), windows...)
	s.filterEligible()
}

// filterEligible recomputes the eligible windows and regenerates presets if
// their count changed. Callers hold s.mu.
func (s *Session) filterEligible() {
	before := max(1, len(s.eligible))
	s.eligible = s.eligible[:0:0]
	for _, w := range s.windows {
		if !s.excluded[w.StableKey()] {
			s.eligible = append(s.eligible, w)
		}
	}
	count := max(1, len(s.eligible))
	if count == before && len(s.presets) > 0 && s.presets[0].TotalSlots() == count {
		return
	}
	s.presets = layout.Presets(count)
	s.presetIndex = 0
	s.current = s.presets[0].Clone()
	s.history.Clear()
	s.manual = nil
	s.seam.End()
}

// fail records err as the status text and returns it.
func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.status = "Error: " + err.Error()
	s.mu.Unlock()
	s.log.Warn("operation failed", "err", err)
	return err
}

// Status is the human-readable outcome of the last operation.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Busy reports whether a replay or rewrite is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Windows returns the windows taking part in arrangement.
func (s *Session) Windows() []model.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Window(nil), s.eligible...)
}

// AllWindows returns every known window, excluded ones included.
func (s *Session) AllWindows() []model.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Window(nil), s.windows...)
}

// Displays returns the known displays.
func (s *Session) Displays() []model.Display {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Display(nil), s.displays...)
}

// SelectedDisplay returns the display windows are applied to.
func (s *Session) SelectedDisplay() (model.Display, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.selectedDisplay()
	return d, s.display, ok
}

func (s *Session) selectedDisplay() (model.Display, bool) {
	if s.display < 0 || s.display >= len(s.displays) {
		return model.Display{}, false
	}
	return s.displays[s.display], true
}

// SelectDisplay picks the target display by index.
func (s *Session) SelectDisplay(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.displays) {
		s.status = fmt.Sprintf("No display at index %d", i)
		s.mu.Unlock()
		return fmt.Errorf("display %d: %w", i, ErrOutOfRange)
	}
	s.display = i
	s.status = s.displays[i].Name
	s.mu.Unlock()
	return nil
}

// Presets returns the generated presets for the current window count.
func (s *Session) Presets() []layout.Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]layout.Preset, len(s.presets))
	for i, p := range s.presets {
		out[i] = p.Clone()
	}
	return out
}

// PresetIndex returns the index of the selected generated preset.
func (s *Session) PresetIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presetIndex
}

// Current returns a copy of the current preset.
func (s *Session) Current() layout.Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// CanUndo reports whether Undo would do anything.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.Has() || s.history.CanUndo()
}

// HistoryLen returns the number of presets on the undo stack.
func (s *Session) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Len()
}

// HasFrames reports whether a frame snapshot is waiting to be restored.
func (s *Session) HasFrames() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames.Has()
}

// SelectPreset makes generated preset i current, discarding any edits and
// manual assignment. The previous preset goes onto the undo stack.
func (s *Session) SelectPreset(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.presets) {
		s.status = fmt.Sprintf("No preset at index %d", i)
		s.mu.Unlock()
		return fmt.Errorf("preset %d: %w", i, ErrOutOfRange)
	}
	s.history.Push(s.current)
	s.presetIndex = i
	s.current = s.presets[i].Clone()
	s.manual = nil
	s.status = s.current.Name
	ev := s.event(EventPresetChanged)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// ResetPreset discards edits to the selected preset.
func (s *Session) ResetPreset() error {
	s.mu.Lock()
	if s.presetIndex >= len(s.presets) {
		s.mu.Unlock()
		return fmt.Errorf("preset %d: %w", s.presetIndex, ErrOutOfRange)
	}
	s.history.Push(s.current)
	s.current = s.presets[s.presetIndex].Clone()
	s.manual = nil
	s.status = "Reset to default"
	ev := s.event(EventPresetChanged)
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// Assignments returns the manual assignment when one covers the current
// preset, otherwise the automatic one.
func (s *Session) Assignments() assign.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments()
}

func (s *Session) assignments() assign.Assignment {
	if s.manual != nil && s.manual.Matches(s.current) {
		return s.manual.Clone()
	}
	return assign.Assign(s.eligible, s.current)
}

// Manual reports whether a manual assignment is in effect.
func (s *Session) Manual() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manual != nil && s.manual.Matches(s.current)
}

// WindowFor returns the occupant of pos, or nil.
func (s *Session) WindowFor(pos layout.Position) *model.Window {
	return s.Assignments().Window(pos)
}

// Accent returns the presentation rank of pos in the current preset.
func (s *Session) Accent(pos layout.Position) layout.AccentLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return layout.Accent(s.current, pos)
}

// SwapBlocks exchanges the occupants of two slots. The result becomes the
// manual assignment. It reports false and changes nothing when from == to or
// either position does not exist.
func (s *Session) SwapBlocks(from, to layout.Position) bool {
	s.mu.Lock()
	swapped, ok := s.assignments().Swap(from, to)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.manual = swapped
	s.status = fmt.Sprintf("Swapped %s and %s", from, to)
	ev := s.event(EventAssignmentChanged)
	s.mu.Unlock()

	s.emit(ev)
	return true
}

// ToggleExclusion excludes or re-includes the window with the given stable
// key and reports whether it is now excluded. Changing the number of
// eligible windows regenerates the presets.
func (s *Session) ToggleExclusion(key string) bool {
	s.mu.Lock()
	excluded := !s.excluded[key]
	if excluded {
		s.excluded[key] = true
		s.status = "Excluded " + key
	} else {
		delete(s.excluded, key)
		s.status = "Included " + key
	}
	s.filterEligible()
	ev := s.event(EventWindowsChanged)
	s.mu.Unlock()

	s.emit(ev)
	return excluded
}

// IsExcluded reports whether w is left out of arrangement.
func (s *Session) IsExcluded(w model.Window) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.excluded[w.StableKey()]
}

// Resolve returns the current preset's rectangles on the selected display.
func (s *Session) Resolve() ([]layout.ResolvedRect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.selectedDisplay()
	if !ok {
		return nil, ErrNoDisplay
	}
	return s.resolver.Resolve(s.current, layout.RectFromBounds(d.Visible)), nil
}

// Gutter returns the configured gutter width.
func (s *Session) Gutter() float64 { return s.opts.Gutter }

func ptr[T any](v T) *T { return &v }

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
