// Package assign pairs live windows with preset slots.
//
// The automatic pairing is a largest-to-largest heuristic: slots ranked by
// their share of the layout are matched one to one with windows ranked by
// current pixel area. Both sorts are stable, so equal areas resolve by
// column-major slot order and by window enumeration order respectively.
package assign

import (
	"sort"

	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
)

// SlotAssignment is the occupant of one slot. Window is nil for empty slots.
type SlotAssignment struct {
	layout.Position `yaml:",inline"`
	Window          *model.Window `yaml:"window,omitempty" json:"window,omitempty"`
}

// Assignment covers every slot of a preset in column-major order.
type Assignment []SlotAssignment

// Empty returns an assignment with every slot of p unoccupied.
func Empty(p layout.Preset) Assignment {
	positions := p.Positions()
	out := make(Assignment, len(positions))
	for i, pos := range positions {
		out[i] = SlotAssignment{Position: pos}
	}
	return out
}

// Assign computes the automatic assignment of windows to p. Unmatched slots
// stay empty; surplus windows are left out.
func Assign(windows []model.Window, p layout.Preset) Assignment {
	out := Empty(p)
	if len(out) == 0 {
		return out
	}

	ranked := layout.RankedSlots(p)

	order := make([]int, len(windows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return windows[order[a]].Area() > windows[order[b]].Area()
	})

	for i, slot := range ranked {
		if i >= len(order) {
			break
		}
		w := windows[order[i]]
		out[p.Index(slot.Position)].Window = &w
	}
	return out
}

// Lookup returns the entry for pos.
func (a Assignment) Lookup(pos layout.Position) (SlotAssignment, bool) {
	for _, s := range a {
		if s.Position == pos {
			return s, true
		}
	}
	return SlotAssignment{}, false
}

// Window returns the occupant of pos, or nil.
func (a Assignment) Window(pos layout.Position) *model.Window {
	s, ok := a.Lookup(pos)
	if !ok {
		return nil
	}
	return s.Window
}

// Swap exchanges the occupants of two positions and returns the new
// assignment. Geometry is untouched. It reports false, returning a unchanged,
// when from == to or either position is missing.
func (a Assignment) Swap(from, to layout.Position) (Assignment, bool) {
	if from == to {
		return a, false
	}
	fi, ti := -1, -1
	for i, s := range a {
		switch s.Position {
		case from:
			fi = i
		case to:
			ti = i
		}
	}
	if fi < 0 || ti < 0 {
		return a, false
	}
	out := a.Clone()
	out[fi].Window, out[ti].Window = a[ti].Window, a[fi].Window
	return out, true
}

// Clone copies the assignment, including the window values.
func (a Assignment) Clone() Assignment {
	if a == nil {
		return nil
	}
	out := make(Assignment, len(a))
	for i, s := range a {
		out[i] = SlotAssignment{Position: s.Position}
		if s.Window != nil {
			w := *s.Window
			out[i].Window = &w
		}
	}
	return out
}

// Filled counts occupied slots.
func (a Assignment) Filled() int {
	n := 0
	for _, s := range a {
		if s.Window != nil {
			n++
		}
	}
	return n
}

// Matches reports whether a covers exactly the positions of p.
func (a Assignment) Matches(p layout.Preset) bool {
	positions := p.Positions()
	if len(positions) != len(a) {
		return false
	}
	for i, pos := range positions {
		if a[i].Position != pos {
			return false
		}
	}
	return true
}
