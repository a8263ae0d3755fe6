// Package replay rebuilds a saved layout's window assignment against the
// windows that are running now.
package replay

import (
	"time"

	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/model"
)

// Policy holds the settle delays used before re-reading windows.
type Policy struct {
	// LaunchSettle is waited when at least one application was launched.
	LaunchSettle time.Duration
	// IdleSettle is waited when nothing needed launching.
	IdleSettle time.Duration
}

// DefaultPolicy returns the stock delays (3s after launches, 200ms otherwise).
func DefaultPolicy() Policy {
	return Policy{LaunchSettle: 3 * time.Second, IdleSettle: 200 * time.Millisecond}
}

// Delay picks the settle delay for the number of launched applications.
func (p Policy) Delay(launched int) time.Duration {
	if launched > 0 {
		return p.LaunchSettle
	}
	return p.IdleSettle
}

// MissingApps returns the application identifiers saved references that
// have no window among windows, in slot order.
func MissingApps(saved model.SavedLayout, windows []model.Window) []string {
	running := make(map[string]bool, len(windows))
	for _, w := range windows {
		running[w.AppID()] = true
	}
	var missing []string
	for _, id := range saved.AppIDs() {
		if !running[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// Manual overrides auto with the saved application pointers. Saved slots are
// walked in order and each takes the first unused window of the same
// application; a window is never used twice. A saved slot with no matching
// window is left empty. Slots the saved layout does not mention keep their
// automatic occupant unless that window was claimed by a saved slot.
// Saved positions that no longer exist in the preset are skipped.
func Manual(saved model.SavedLayout, windows []model.Window, auto assign.Assignment) assign.Assignment {
	out := auto.Clone()
	referenced := make([]bool, len(out))
	used := make([]bool, len(windows))
	claimed := make(map[int]bool)

	for _, slot := range saved.Slots {
		idx := indexOf(out, slot)
		if idx < 0 {
			continue
		}
		referenced[idx] = true
		out[idx].Window = nil
		for wi, w := range windows {
			if used[wi] || w.AppID() != slot.AppID() {
				continue
			}
			used[wi] = true
			claimed[w.ID] = true
			match := w
			out[idx].Window = &match
			break
		}
	}

	for i := range out {
		if !referenced[i] && out[i].Window != nil && claimed[out[i].Window.ID] {
			out[i].Window = nil
		}
	}
	return out
}

func indexOf(a assign.Assignment, slot model.SavedSlot) int {
	pos := slot.Position()
	for i, s := range a {
		if s.Position == pos {
			return i
		}
	}
	return -1
}
