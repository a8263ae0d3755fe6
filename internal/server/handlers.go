package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/output"
	"github.com/mj1618/arrange/internal/platform"
)

// toText serializes a result to YAML for an MCP response.
func toText(v interface{}) string {
	var b strings.Builder
	if err := output.WriteYAML(&b, v); err != nil {
		return fmt.Sprintf("ok: false\nerror: %s\n", err)
	}
	return b.String()
}

func toolResult(v interface{}, ok bool) *mcp.CallToolResult {
	if !ok {
		return mcp.NewToolResultError(toText(v))
	}
	return mcp.NewToolResultText(toText(v))
}

// readHandler syncs the session and renders a read-only view of it.
func (s *Server) readHandler(view func() interface{}) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sync(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(view())), nil
}

// writeActionHandler syncs the session, runs fn, and persists the result.
func (s *Server) writeActionHandler(action string, fn func() error) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sync(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	err := fn()
	if err == nil {
		s.changed()
	}
	return toolResult(output.Action(s.session, action, err), err == nil), nil
}

func (s *Server) handleListWindows(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := platform.ListOptions{App: stringParam(request.GetArguments(), "app", "")}
	return s.readHandler(func() interface{} {
		return output.Windows(s.session, opts.Match)
	})
}

func (s *Server) handlePresets(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.readHandler(func() interface{} { return output.Presets(s.session) })
}

func (s *Server) handleAssignment(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.readHandler(func() interface{} { return output.State(s.session) })
}

func (s *Server) handleListLayouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	layouts, err := s.session.Layouts(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(output.Layouts(layouts))), nil
}

func (s *Server) handleSelectPreset(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index := intParam(request.GetArguments(), "index", -1)
	return s.writeActionHandler("select_preset", func() error {
		return s.session.SelectPreset(index)
	})
}

func (s *Server) handleResetPreset(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.writeActionHandler("reset_preset", s.session.ResetPreset)
}

func (s *Server) handleSwap(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	from, err := layout.ParsePosition(stringParam(params, "from", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := layout.ParsePosition(stringParam(params, "to", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.writeActionHandler("swap", func() error {
		if !s.session.SwapBlocks(from, to) {
			return fmt.Errorf("cannot swap %s and %s: %w", from, to, arrange.ErrOutOfRange)
		}
		return nil
	})
}

func (s *Server) handleResizeColumn(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	left := intParam(params, "left", -1)
	return s.resize("resize_column", params,
		func(delta float64) bool { return s.session.AdjustColumnFlex(left, delta) },
		func(pixels float64) bool { return s.session.DragColumnSeam(left, pixels) },
	)
}

func (s *Server) handleResizeSlot(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	col := intParam(params, "column", -1)
	above := intParam(params, "above", -1)
	return s.resize("resize_slot", params,
		func(delta float64) bool { return s.session.AdjustAppFlex(col, above, delta) },
		func(pixels float64) bool { return s.session.DragSlotSeam(col, above, pixels) },
	)
}

// resize runs one complete seam gesture from either a flex delta or a pixel
// translation.
func (s *Server) resize(action string, params map[string]interface{}, byFlex, byPixels func(float64) bool) (*mcp.CallToolResult, error) {
	delta, hasDelta := floatParam(params, "delta")
	pixels, hasPixels := floatParam(params, "pixels")
	if hasDelta == hasPixels {
		return mcp.NewToolResultError("give exactly one of delta or pixels"), nil
	}
	return s.writeActionHandler(action, func() error {
		s.session.BeginSeamDrag()
		defer s.session.EndSeamDrag()
		moved := false
		if hasPixels {
			moved = byPixels(pixels)
		} else {
			moved = byFlex(delta)
		}
		if !moved {
			return fmt.Errorf("seam not moved: %w", arrange.ErrOutOfRange)
		}
		return nil
	})
}

func (s *Server) handleApply(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sync(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	report, err := s.session.Apply()
	s.changed()
	return toolResult(output.Apply(s.session, "apply", report, err), err == nil), nil
}

func (s *Server) handleUndo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sync(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := s.session.Undo()
	s.changed()
	return toolResult(output.UndoResult{
		OK:     true,
		Action: "undo",
		Undid:  kind,
		Status: s.session.Status(),
	}, true), nil
}

func (s *Server) handleModify(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instruction := stringParam(request.GetArguments(), "instruction", "")
	return s.writeActionHandler("modify", func() error {
		return s.session.Modify(ctx, instruction)
	})
}

func (s *Server) handleSaveLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := stringParam(request.GetArguments(), "name", "")

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sync(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	saved, err := s.session.SaveCurrentLayout(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(toText(saved)), nil
}

func (s *Server) handleDeleteLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := stringParam(request.GetArguments(), "layout", "")
	return s.writeActionHandler("delete_layout", func() error {
		saved, err := s.session.FindLayout(ctx, ref)
		if err != nil {
			return err
		}
		return s.session.DeleteLayout(ctx, saved.ID)
	})
}

func (s *Server) handleTriggerLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := stringParam(request.GetArguments(), "layout", "")

	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()

	if err := s.sync(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	saved, err := s.session.FindLayout(ctx, ref)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}
	report, err := s.session.TriggerLayout(ctx, saved)
	s.changed()
	return toolResult(output.Apply(s.session, "trigger_layout", report, err), err == nil), nil
}

func (s *Server) handleExclude(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	key := stringParam(params, "key", "")
	windowID := intParam(params, "window_id", 0)
	if key == "" && windowID == 0 {
		return mcp.NewToolResultError("give key or window_id"), nil
	}
	return s.writeActionHandler("exclude", func() error {
		if key == "" {
			w, ok := findWindow(s.session.AllWindows(), windowID)
			if !ok {
				return fmt.Errorf("window %d not found", windowID)
			}
			key = w.StableKey()
		}
		s.session.ToggleExclusion(key)
		return nil
	})
}

func findWindow(windows []model.Window, id int) (model.Window, bool) {
	for _, w := range windows {
		if w.ID == id {
			return w, true
		}
	}
	return model.Window{}, false
}
