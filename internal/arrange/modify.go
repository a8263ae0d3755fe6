package arrange

import (
	"context"
	"fmt"
	"strings"
)

// Modify asks the rewriter to change the current preset according to a
// natural-language instruction. A valid answer replaces the current preset
// (undoable); anything else leaves the session untouched.
func (s *Session) Modify(ctx context.Context, instruction string) error {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		s.setStatus("Enter an instruction")
		return ErrEmptyInstruction
	}
	if s.opts.APIKey == "" || s.provider.Rewriter == nil {
		s.setStatus("Set API key with `arrange apikey set`")
		return ErrNoAPIKey
	}
	if err := s.acquire(); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	base := s.current.Clone()
	var apps []string
	for _, a := range s.assignments() {
		if a.Window != nil {
			apps = append(apps, fmt.Sprintf("%s: %s", a.Position, a.Window.App))
		}
	}
	s.status = "Rewriting layout..."
	s.mu.Unlock()

	s.log.Debug("rewriting preset", "preset", base.Name, "instruction", instruction)
	next, err := s.provider.Rewriter.Rewrite(ctx, base, instruction, apps)
	if err != nil {
		return s.fail(fmt.Errorf("rewrite failed: %w", err))
	}
	if err := next.Validate(); err != nil {
		return s.fail(fmt.Errorf("rewriter returned %w", err))
	}

	s.mu.Lock()
	s.history.Push(s.current)
	s.current = next.Clone()
	s.seam.End()
	s.status = "Layout modified"
	ev := s.event(EventPresetChanged)
	s.mu.Unlock()

	s.log.Info("layout modified", "preset", next.Name, "columns", len(next.Columns))
	s.emit(ev)
	return nil
}
