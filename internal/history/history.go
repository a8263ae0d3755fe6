// Package history provides the two undo mechanisms: a bounded stack of prior
// presets and a single-slot snapshot of window frames taken before an apply.
package history

import "github.com/mj1618/arrange/internal/layout"

// DefaultCapacity is the number of presets kept before the oldest is dropped.
const DefaultCapacity = 50

// History is a bounded LIFO of presets backed by a ring buffer.
type History struct {
	buf   []layout.Preset
	head  int // index of the oldest entry
	count int
}

// New returns an empty history. Capacities below one fall back to
// DefaultCapacity.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{buf: make([]layout.Preset, capacity)}
}

// Capacity returns the maximum number of entries.
func (h *History) Capacity() int { return len(h.buf) }

// Len returns the number of stored entries.
func (h *History) Len() int { return h.count }

// CanUndo reports whether Pop would return an entry.
func (h *History) CanUndo() bool { return h.count > 0 }

// Push stores a copy of p, overwriting the oldest entry when full.
func (h *History) Push(p layout.Preset) {
	p = p.Clone()
	if h.count == len(h.buf) {
		h.buf[h.head] = p
		h.head = (h.head + 1) % len(h.buf)
		return
	}
	h.buf[(h.head+h.count)%len(h.buf)] = p
	h.count++
}

// Pop removes and returns the most recent entry.
func (h *History) Pop() (layout.Preset, bool) {
	if h.count == 0 {
		return layout.Preset{}, false
	}
	idx := (h.head + h.count - 1) % len(h.buf)
	p := h.buf[idx]
	h.buf[idx] = layout.Preset{}
	h.count--
	return p, true
}

// Clear drops every entry.
func (h *History) Clear() {
	for i := range h.buf {
		h.buf[i] = layout.Preset{}
	}
	h.head, h.count = 0, 0
}

// Entries returns the stored presets oldest first.
func (h *History) Entries() []layout.Preset {
	out := make([]layout.Preset, 0, h.count)
	for i := 0; i < h.count; i++ {
		out = append(out, h.buf[(h.head+i)%len(h.buf)].Clone())
	}
	return out
}

// Load replaces the contents with entries (oldest first). Entries beyond
// capacity are dropped from the old end.
func (h *History) Load(entries []layout.Preset) {
	h.Clear()
	for _, p := range entries {
		h.Push(p)
	}
}
