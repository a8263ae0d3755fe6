package arrange

import (
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/resize"
)

// BeginSeamDrag starts a seam gesture. The pre-drag preset is pushed onto
// the undo stack at the first adjustment that moves a seam, so the whole
// gesture undoes as one step and a gesture that moves nothing leaves no
// history behind.
func (s *Session) BeginSeamDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seam.State() == resize.Dragging {
		return
	}
	s.seamPushed = false
	s.seam.Begin(s.current)
	s.log.Debug("seam drag started")
}

// EndSeamDrag finishes the gesture.
func (s *Session) EndSeamDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seam.End()
	s.log.Debug("seam drag ended", "preset", s.current.Name)
}

// DragState returns the seam state machine position.
func (s *Session) DragState() resize.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seam.State()
}

// AdjustColumnFlex moves delta flex across the seam right of column left.
// Outside a gesture, or for an out-of-range seam, it does nothing and
// reports false.
func (s *Session) AdjustColumnFlex(left int, delta float64) bool {
	return s.adjust(func(p *layout.Preset) bool {
		return s.seam.AdjustColumnFlex(p, left, delta)
	})
}

// AdjustAppFlex moves delta flex across the seam below slot above in column
// col.
func (s *Session) AdjustAppFlex(col, above int, delta float64) bool {
	return s.adjust(func(p *layout.Preset) bool {
		return s.seam.AdjustAppFlex(p, col, above, delta)
	})
}

// DragColumnSeam applies a cumulative pointer translation in pixels to the
// seam right of column left, scaled against the selected display.
func (s *Session) DragColumnSeam(left int, translation float64) bool {
	return s.adjust(func(p *layout.Preset) bool {
		d, ok := s.selectedDisplay()
		if !ok {
			return false
		}
		return s.seam.DragColumn(p, left, translation, float64(d.Visible[2]), s.opts.Gutter)
	})
}

// DragSlotSeam is DragColumnSeam for the seam below slot above in column col.
func (s *Session) DragSlotSeam(col, above int, translation float64) bool {
	return s.adjust(func(p *layout.Preset) bool {
		d, ok := s.selectedDisplay()
		if !ok {
			return false
		}
		return s.seam.DragSlot(p, col, above, translation, float64(d.Visible[3]), s.opts.Gutter)
	})
}

func (s *Session) adjust(fn func(p *layout.Preset) bool) bool {
	s.mu.Lock()
	if s.seam.State() != resize.Dragging {
		s.mu.Unlock()
		return false
	}
	next := s.current.Clone()
	if !fn(&next) {
		s.status = "Seam not moved"
		s.mu.Unlock()
		return false
	}
	if !s.seamPushed {
		baseline, _ := s.seam.Baseline()
		s.history.Push(baseline)
		s.seamPushed = true
	}
	s.current = next
	ev := s.event(EventPresetChanged)
	s.mu.Unlock()

	s.emit(ev)
	return true
}
