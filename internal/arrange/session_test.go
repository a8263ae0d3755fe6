package arrange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/platform/desktop"
	"github.com/mj1618/arrange/internal/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	left  = layout.Position{Column: 0, Slot: 0}
	right = layout.Position{Column: 1, Slot: 0}
)

func display() model.Display {
	return model.Display{ID: 1, Name: "Main", Frame: [4]int{0, 0, 1206, 800}, Visible: [4]int{0, 0, 1206, 800}, Main: true}
}

func win(id int, bundle string, bounds [4]int) desktop.Window {
	return desktop.Window{Window: model.Window{ID: id, App: bundle, BundleID: bundle, PID: id, Title: bundle, Bounds: bounds}}
}

// twoWindows is a desktop with a large editor and a smaller terminal.
func twoWindows() *desktop.Desktop {
	return desktop.New(desktop.File{
		Displays: []model.Display{display()},
		Windows: []desktop.Window{
			win(1, "com.editor", [4]int{10, 10, 800, 600}),
			win(2, "com.term", [4]int{50, 50, 400, 300}),
		},
	})
}

func newSession(t *testing.T, d *desktop.Desktop, opts Options) *Session {
	t.Helper()
	s := New(d.Provider(), opts)
	require.NoError(t, s.Refresh())
	return s
}

func frame(t *testing.T, d *desktop.Desktop, id int) [4]int {
	t.Helper()
	f, err := d.Frame(id)
	require.NoError(t, err)
	return f
}

func TestRefresh_GeneratesPresetsForWindowCount(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})

	presets := s.Presets()
	require.Len(t, presets, 3)
	assert.Equal(t, "Halves", s.Current().Name)
	assert.Len(t, s.Windows(), 2)

	a := s.Assignments()
	assert.Equal(t, 1, a.Window(left).ID, "largest window goes to the first of two equal slots")
	assert.Equal(t, 2, a.Window(right).ID)
	assert.Equal(t, layout.AccentPrimary, s.Accent(left))
	assert.Equal(t, layout.AccentSecondary, s.Accent(right))
}

func TestRefresh_KeepsPresetWhenCountUnchanged(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	require.NoError(t, s.SelectPreset(1))
	require.NoError(t, s.Refresh())
	assert.Equal(t, "Focus", s.Current().Name)
	assert.Equal(t, 1, s.HistoryLen())
}

func TestSelectPreset(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})

	var events []Event
	unsubscribe := s.Subscribe(func(ev Event) { events = append(events, ev) })

	require.NoError(t, s.SelectPreset(2))
	assert.Equal(t, "Stack", s.Current().Name)
	assert.Equal(t, "Stack", s.Status())
	assert.Equal(t, 1, s.HistoryLen())
	require.Len(t, events, 1)
	assert.Equal(t, EventPresetChanged, events[0].Kind)
	assert.Equal(t, "Stack", events[0].Preset.Name)

	err := s.SelectPreset(9)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Equal(t, "No preset at index 9", s.Status())
	assert.Equal(t, "Stack", s.Current().Name)

	unsubscribe()
	require.NoError(t, s.SelectPreset(0))
	assert.Len(t, events, 1, "unsubscribed listener must not be called")
}

func TestResetPreset(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	s.BeginSeamDrag()
	require.True(t, s.AdjustColumnFlex(0, 0.5))
	s.EndSeamDrag()

	require.NoError(t, s.ResetPreset())
	assert.Equal(t, 1.0, s.Current().Columns[0].Flex)
	assert.Equal(t, "Reset to default", s.Status())
	assert.Equal(t, 2, s.HistoryLen())
}

func TestApply_MovesWindowsIntoSlots(t *testing.T) {
	d := twoWindows()
	s := newSession(t, d, Options{})

	report, err := s.Apply()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Moved)
	assert.Zero(t, report.Clamped)
	assert.Equal(t, "2 windows arranged", s.Status())
	assert.True(t, s.HasFrames())

	assert.Equal(t, [4]int{0, 0, 600, 800}, frame(t, d, 1))
	assert.Equal(t, [4]int{606, 0, 600, 800}, frame(t, d, 2))
}

func TestApply_NoDisplay(t *testing.T) {
	d := desktop.New(desktop.File{Windows: []desktop.Window{win(1, "a", [4]int{0, 0, 10, 10})}})
	s := newSession(t, d, Options{})

	_, err := s.Apply()
	assert.ErrorIs(t, err, ErrNoDisplay)
	assert.Equal(t, "No screen selected", s.Status())
	assert.False(t, s.HasFrames())
}

func TestApply_RecentresClampedWindow(t *testing.T) {
	d := twoWindows()
	snap := d.Snapshot()
	snap.Windows[1].MinSize = [2]int{700, 0}
	d = desktop.New(snap)
	s := newSession(t, d, Options{})

	report, err := s.Apply()
	require.NoError(t, err)
	assert.Equal(t, 2, report.Moved)
	assert.Equal(t, 1, report.Clamped)
	// Requested [606 0 600 800]; the window insists on 700 wide.
	assert.Equal(t, [4]int{556, 0, 700, 800}, frame(t, d, 2))
}

func TestUndo_FramesBeforeHistory(t *testing.T) {
	d := twoWindows()
	s := newSession(t, d, Options{})
	require.NoError(t, s.SelectPreset(1))
	_, err := s.Apply()
	require.NoError(t, err)
	require.NotEqual(t, [4]int{10, 10, 800, 600}, frame(t, d, 1))

	assert.Equal(t, UndoFrames, s.Undo())
	assert.Equal(t, "Windows restored", s.Status())
	assert.Equal(t, [4]int{10, 10, 800, 600}, frame(t, d, 1))
	assert.Equal(t, [4]int{50, 50, 400, 300}, frame(t, d, 2))
	assert.Equal(t, 1, s.HistoryLen(), "restoring frames leaves history alone")
	assert.Equal(t, "Focus", s.Current().Name)

	assert.Equal(t, UndoPreset, s.Undo())
	assert.Equal(t, "Halves", s.Current().Name)
	assert.Equal(t, "Layout restored", s.Status())

	assert.Equal(t, UndoNothing, s.Undo())
	assert.Equal(t, "Nothing to undo", s.Status())
	assert.False(t, s.CanUndo())
}

func TestUndo_ApplyWithoutWindowsFallsBackToHistory(t *testing.T) {
	d := desktop.New(desktop.File{Displays: []model.Display{display()}})
	s := newSession(t, d, Options{})
	require.NoError(t, s.SelectPreset(0))
	require.Equal(t, 1, s.HistoryLen())

	report, err := s.Apply()
	require.NoError(t, err)
	assert.Zero(t, report.Moved)
	assert.Equal(t, 1, report.Empty)
	assert.False(t, s.HasFrames())

	assert.Equal(t, UndoPreset, s.Undo())
	assert.Equal(t, "Layout restored", s.Status())
	assert.Zero(t, s.HistoryLen())
}

func TestApply_ZeroClampTolerance(t *testing.T) {
	d := twoWindows()
	snap := d.Snapshot()
	snap.Windows[1].MinSize = [2]int{601, 0}
	d = desktop.New(snap)
	zero := 0
	s := newSession(t, d, Options{ClampTolerance: &zero})

	report, err := s.Apply()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Clamped, "a one pixel mismatch counts when the tolerance is zero")
}

func TestSwapBlocks(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})

	assert.False(t, s.SwapBlocks(left, left))
	assert.False(t, s.SwapBlocks(left, layout.Position{Column: 5}))
	assert.False(t, s.Manual())

	require.True(t, s.SwapBlocks(left, right))
	assert.True(t, s.Manual())
	assert.Equal(t, 2, s.WindowFor(left).ID)
	assert.Equal(t, 1, s.WindowFor(right).ID)

	// Selecting a preset clears the manual override.
	require.NoError(t, s.SelectPreset(0))
	assert.False(t, s.Manual())
	assert.Equal(t, 1, s.WindowFor(left).ID)
}

func TestSeamDrag(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})

	assert.False(t, s.AdjustColumnFlex(0, 0.5), "no adjustment outside a gesture")

	s.BeginSeamDrag()
	s.BeginSeamDrag() // ignored while dragging
	assert.Equal(t, 0, s.HistoryLen(), "nothing recorded before the seam moves")

	require.True(t, s.AdjustColumnFlex(0, 0.5))
	assert.Equal(t, 1, s.HistoryLen())
	cols := s.Current().Columns
	assert.InDelta(t, 1.5, cols[0].Flex, 1e-9)
	assert.InDelta(t, 0.5, cols[1].Flex, 1e-9)

	require.True(t, s.AdjustColumnFlex(0, 10))
	cols = s.Current().Columns
	assert.InDelta(t, 1.76, cols[0].Flex, 1e-9)
	assert.InDelta(t, 0.24, cols[1].Flex, 1e-9)

	assert.False(t, s.AdjustColumnFlex(1, 0.1), "last column has no seam to its right")
	assert.False(t, s.AdjustAppFlex(0, 0, 0.1), "single-slot column has no inner seam")
	s.EndSeamDrag()
	assert.Equal(t, 1, s.HistoryLen())

	assert.Equal(t, UndoPreset, s.Undo())
	assert.Equal(t, 1.0, s.Current().Columns[0].Flex)
}

func TestSeamDrag_RejectedSeamLeavesNoHistory(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	before := s.Current()

	s.BeginSeamDrag()
	assert.False(t, s.AdjustColumnFlex(5, 0.5))
	assert.False(t, s.AdjustAppFlex(3, 0, 0.5))
	s.EndSeamDrag()

	assert.Equal(t, "Seam not moved", s.Status())
	assert.Equal(t, 0, s.HistoryLen())
	assert.Equal(t, before, s.Current())
	assert.Equal(t, UndoNothing, s.Undo())
}

func TestSeamDrag_PixelTranslation(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	s.BeginSeamDrag()
	// 2 flex over 1200 usable pixels: 300px is 0.5 flex.
	require.True(t, s.DragColumnSeam(0, 300))
	assert.InDelta(t, 1.5, s.Current().Columns[0].Flex, 1e-9)
	require.True(t, s.DragColumnSeam(0, 360))
	assert.InDelta(t, 1.6, s.Current().Columns[0].Flex, 1e-9)
	s.EndSeamDrag()
}

func TestSeamDrag_SlotPixelTranslation(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	require.NoError(t, s.SelectPreset(2)) // Stack: one column, two slots
	s.BeginSeamDrag()
	// 2 flex over 794 usable pixels.
	require.True(t, s.DragSlotSeam(0, 0, 794.0/4))
	apps := s.Current().Columns[0].Apps
	assert.InDelta(t, 1.5, apps[0].Flex, 1e-9)
	assert.InDelta(t, 2.0, apps[0].Flex+apps[1].Flex, 1e-9)
	s.EndSeamDrag()
}

func TestToggleExclusion(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	key := s.Windows()[1].StableKey()

	assert.True(t, s.ToggleExclusion(key))
	assert.Len(t, s.Windows(), 1)
	assert.Len(t, s.AllWindows(), 2)
	assert.Equal(t, "Single", s.Current().Name)
	assert.True(t, s.IsExcluded(s.AllWindows()[1]))

	assert.False(t, s.ToggleExclusion(key))
	assert.Len(t, s.Windows(), 2)
	assert.Equal(t, "Halves", s.Current().Name)
}

func TestSelectDisplay(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	require.NoError(t, s.SelectDisplay(0))
	assert.ErrorIs(t, s.SelectDisplay(3), ErrOutOfRange)
	_, idx, ok := s.SelectedDisplay()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
}

type fakeRewriter struct {
	preset layout.Preset
	err    error
	calls  int
	apps   []string
}

func (f *fakeRewriter) Rewrite(_ context.Context, p layout.Preset, _ string, apps []string) (layout.Preset, error) {
	f.calls++
	f.apps = apps
	return f.preset, f.err
}

func TestModify(t *testing.T) {
	d := twoWindows()
	rw := &fakeRewriter{preset: layout.Presets(2)[1]}
	p := d.Provider()
	p.Rewriter = rw
	s := New(p, Options{APIKey: "key"})
	require.NoError(t, s.Refresh())

	assert.ErrorIs(t, s.Modify(context.Background(), "  "), ErrEmptyInstruction)
	assert.Equal(t, "Enter an instruction", s.Status())

	require.NoError(t, s.Modify(context.Background(), "make the left side wider"))
	assert.Equal(t, "Focus", s.Current().Name)
	assert.Equal(t, "Layout modified", s.Status())
	assert.Equal(t, 1, s.HistoryLen())
	assert.Equal(t, []string{"0:0: com.editor", "1:0: com.term"}, rw.apps)
}

func TestModify_RejectsInvalidPreset(t *testing.T) {
	d := twoWindows()
	rw := &fakeRewriter{preset: layout.Preset{Name: "broken", Columns: []layout.Column{{Flex: 0}}}}
	p := d.Provider()
	p.Rewriter = rw
	s := New(p, Options{APIKey: "key"})
	require.NoError(t, s.Refresh())

	err := s.Modify(context.Background(), "break it")
	assert.ErrorIs(t, err, ErrInvalidPreset)
	assert.Equal(t, "Halves", s.Current().Name)
	assert.Zero(t, s.HistoryLen())
	assert.Contains(t, s.Status(), "Error:")
	assert.False(t, s.Busy())
}

func TestModify_RewriterFailure(t *testing.T) {
	p := twoWindows().Provider()
	p.Rewriter = &fakeRewriter{err: errors.New("503")}
	s := New(p, Options{APIKey: "key"})
	require.NoError(t, s.Refresh())

	require.Error(t, s.Modify(context.Background(), "anything"))
	assert.Equal(t, "Halves", s.Current().Name)
	assert.Equal(t, "Error: rewrite failed: 503", s.Status())
}

func TestModify_NoAPIKey(t *testing.T) {
	p := twoWindows().Provider()
	p.Rewriter = &fakeRewriter{}
	s := New(p, Options{})
	require.NoError(t, s.Refresh())

	assert.ErrorIs(t, s.Modify(context.Background(), "wider"), ErrNoAPIKey)
	assert.Contains(t, s.Status(), "Set API key")
}

func replayDesktop() *desktop.Desktop {
	return desktop.New(desktop.File{
		Displays: []model.Display{display()},
		Windows:  []desktop.Window{win(1, "com.term", [4]int{0, 0, 900, 700})},
		Apps: []desktop.App{
			{BundleID: "com.editor", Name: "Editor", Bounds: [4]int{20, 20, 300, 200}},
		},
	})
}

func savedHalves() model.SavedLayout {
	return model.SavedLayout{
		ID:     "saved-1",
		Name:   "coding",
		Preset: layout.Presets(2)[0],
		Slots: []model.SavedSlot{
			{Col: 0, App: 0, BundleID: "com.editor", AppName: "Editor"},
			{Col: 1, App: 0, BundleID: "com.term", AppName: "Terminal"},
		},
	}
}

func TestTriggerLayout_LaunchesMissingAndApplies(t *testing.T) {
	d := replayDesktop()
	var waited []time.Duration
	s := newSession(t, d, Options{Sleep: func(_ context.Context, dur time.Duration) error {
		waited = append(waited, dur)
		return nil
	}})

	report, err := s.TriggerLayout(context.Background(), savedHalves())
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{3 * time.Second}, waited)
	assert.Equal(t, []string{"com.editor"}, d.Snapshot().Launched)
	assert.Equal(t, 2, report.Moved)
	assert.True(t, s.Manual())

	// The editor was launched as window 2 and is smaller than the terminal,
	// yet the saved pointers put it on the left.
	assert.Equal(t, [4]int{0, 0, 600, 800}, frame(t, d, 2))
	assert.Equal(t, [4]int{606, 0, 600, 800}, frame(t, d, 1))
	assert.Equal(t, `"coding": 2 windows arranged`, s.Status())
	assert.False(t, s.Busy())

	assert.Equal(t, UndoFrames, s.Undo())
	assert.Equal(t, [4]int{0, 0, 900, 700}, frame(t, d, 1))
}

func TestTriggerLayout_UndoReturnsToPreReplayPreset(t *testing.T) {
	d := replayDesktop()
	s := newSession(t, d, Options{Sleep: func(context.Context, time.Duration) error { return nil }})
	require.Equal(t, "Single", s.Current().Name)

	_, err := s.TriggerLayout(context.Background(), savedHalves())
	require.NoError(t, err)
	require.Equal(t, 1, s.HistoryLen())

	assert.Equal(t, UndoFrames, s.Undo())
	assert.Equal(t, UndoPreset, s.Undo())
	assert.Equal(t, "Single", s.Current().Name)
}

func TestTriggerLayout_ZeroSettlePolicy(t *testing.T) {
	waited := time.Duration(-1)
	s := newSession(t, replayDesktop(), Options{
		Replay: &replay.Policy{},
		Sleep: func(_ context.Context, dur time.Duration) error {
			waited = dur
			return nil
		},
	})
	_, err := s.TriggerLayout(context.Background(), savedHalves())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), waited)
}

func TestTriggerLayout_NothingMissingUsesShortDelay(t *testing.T) {
	d := twoWindows()
	var waited time.Duration
	s := newSession(t, d, Options{Sleep: func(_ context.Context, dur time.Duration) error {
		waited = dur
		return nil
	}})
	saved := savedHalves()
	_, err := s.TriggerLayout(context.Background(), saved)
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, waited)
}

func TestTriggerLayout_MissingAppLeavesSlotEmpty(t *testing.T) {
	d := desktop.New(desktop.File{
		Displays: []model.Display{display()},
		Windows:  []desktop.Window{win(1, "com.term", [4]int{0, 0, 900, 700})},
	})
	s := newSession(t, d, Options{Sleep: func(context.Context, time.Duration) error { return nil }})

	report, err := s.TriggerLayout(context.Background(), savedHalves())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Moved)
	assert.Equal(t, 1, report.Empty)
	assert.Nil(t, s.WindowFor(left))
}

func TestTriggerLayout_RefusesOverlap(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	p := replayDesktop().Provider()
	p.Rewriter = &fakeRewriter{preset: layout.Presets(1)[0]}
	s := New(p, Options{APIKey: "key", Sleep: func(context.Context, time.Duration) error {
		close(entered)
		<-release
		return nil
	}})
	require.NoError(t, s.Refresh())

	done := make(chan error, 1)
	go func() {
		_, err := s.TriggerLayout(context.Background(), savedHalves())
		done <- err
	}()
	<-entered

	assert.True(t, s.Busy())
	_, err := s.TriggerLayout(context.Background(), savedHalves())
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, s.Modify(context.Background(), "wider"), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
}

func TestTriggerLayout_Cancelled(t *testing.T) {
	s := newSession(t, replayDesktop(), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.TriggerLayout(ctx, savedHalves())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Single", s.Current().Name, "nothing is committed")
	assert.False(t, s.Busy())
}

func TestTriggerLayout_InvalidPreset(t *testing.T) {
	s := newSession(t, replayDesktop(), Options{})
	saved := savedHalves()
	saved.Preset.Columns = nil
	_, err := s.TriggerLayout(context.Background(), saved)
	assert.ErrorIs(t, err, ErrInvalidPreset)
}

func TestSavedLayouts(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, twoWindows(), Options{})

	_, err := s.SaveCurrentLayout(ctx, " ")
	require.Error(t, err)
	assert.Equal(t, "Enter a layout name", s.Status())

	saved, err := s.SaveCurrentLayout(ctx, "desk")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Halves", saved.Preset.Name)
	assert.Equal(t, []model.SavedSlot{
		{Col: 0, App: 0, BundleID: "com.editor", AppName: "com.editor"},
		{Col: 1, App: 0, BundleID: "com.term", AppName: "com.term"},
	}, saved.Slots)

	found, err := s.FindLayout(ctx, "DESK")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)

	require.NoError(t, s.DeleteLayout(ctx, saved.ID))
	_, err = s.FindLayout(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteLayout(ctx, saved.ID), ErrNotFound)
}

func TestStateRestore(t *testing.T) {
	d := twoWindows()
	s := newSession(t, d, Options{})
	require.NoError(t, s.SelectPreset(1))
	require.True(t, s.SwapBlocks(left, right))
	_, err := s.Apply()
	require.NoError(t, err)
	s.ToggleExclusion("com.other|nothing")

	st := s.State()
	assert.Equal(t, 2, st.WindowCount)
	assert.Len(t, st.Frames, 2)
	assert.Len(t, st.Manual, 2)
	assert.Equal(t, []string{"com.other|nothing"}, st.Excluded)

	next := newSession(t, d, Options{})
	require.NoError(t, next.Restore(st))
	assert.Equal(t, "Focus", next.Current().Name)
	assert.Equal(t, 1, next.PresetIndex())
	assert.Equal(t, 1, next.HistoryLen())
	assert.True(t, next.HasFrames())
	assert.True(t, next.Manual())
	assert.Equal(t, 2, next.WindowFor(left).ID)

	assert.Equal(t, UndoFrames, next.Undo())
	assert.Equal(t, [4]int{10, 10, 800, 600}, frame(t, d, 1))
}

func TestRestore_WindowCountChanged(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	require.NoError(t, s.SelectPreset(2))
	st := s.State()

	d := desktop.New(desktop.File{
		Displays: []model.Display{display()},
		Windows:  []desktop.Window{win(1, "a", [4]int{0, 0, 10, 10})},
	})
	next := newSession(t, d, Options{})
	require.NoError(t, next.Restore(st))
	assert.Equal(t, "Single", next.Current().Name)
	assert.Zero(t, next.HistoryLen())
}

func TestRestore_InvalidPreset(t *testing.T) {
	s := newSession(t, twoWindows(), Options{})
	err := s.Restore(State{WindowCount: 2, Preset: layout.Preset{Columns: []layout.Column{{Flex: -1}}}})
	assert.ErrorIs(t, err, ErrInvalidPreset)
}
