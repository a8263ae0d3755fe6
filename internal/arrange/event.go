package arrange

import "github.com/mj1618/arrange/internal/layout"

// EventKind says what a mutation changed.
type EventKind int

const (
	// EventWindowsChanged follows a refresh or an exclusion change.
	EventWindowsChanged EventKind = iota
	// EventPresetChanged follows any change of the current preset.
	EventPresetChanged
	// EventAssignmentChanged follows a swap or a replay.
	EventAssignmentChanged
	// EventApplied follows a successful apply.
	EventApplied
	// EventFramesRestored follows an undo that moved windows back.
	EventFramesRestored
)

func (k EventKind) String() string {
	switch k {
	case EventWindowsChanged:
		return "windows-changed"
	case EventPresetChanged:
		return "preset-changed"
	case EventAssignmentChanged:
		return "assignment-changed"
	case EventApplied:
		return "applied"
	case EventFramesRestored:
		return "frames-restored"
	}
	return "unknown"
}

// Event is delivered synchronously to subscribers after the mutation that
// caused it has been committed. Preset is a copy of the current preset.
type Event struct {
	Kind   EventKind
	Preset layout.Preset
	Status string
}

// Subscribe registers fn for every future event and returns a function that
// removes it. Listeners are called without the session lock held, so they
// may call back into the session.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

type listener struct {
	id int
	fn func(Event)
}

// event builds an event from the current state. Callers hold s.mu.
func (s *Session) event(kind EventKind) Event {
	return Event{Kind: kind, Preset: s.current.Clone(), Status: s.status}
}

func (s *Session) emit(events ...Event) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	listeners := append([]listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			l.fn(ev)
		}
	}
}
