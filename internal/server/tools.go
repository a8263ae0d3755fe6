package server

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("list_windows",
			mcp.WithDescription("List the windows that can be arranged, with their stable keys and exclusion state"),
			mcp.WithString("app", mcp.Description("Filter by application name or bundle id")),
		),
		s.handleListWindows,
	)

	s.mcp.AddTool(
		mcp.NewTool("presets",
			mcp.WithDescription("List the layout presets generated for the current number of windows"),
		),
		s.handlePresets,
	)

	s.mcp.AddTool(
		mcp.NewTool("select_preset",
			mcp.WithDescription("Make a generated preset current, discarding edits and manual assignment"),
			mcp.WithNumber("index", mcp.Required(), mcp.Description("Preset index from the presets tool")),
		),
		s.handleSelectPreset,
	)

	s.mcp.AddTool(
		mcp.NewTool("reset_preset",
			mcp.WithDescription("Discard edits to the selected preset"),
		),
		s.handleResetPreset,
	)

	s.mcp.AddTool(
		mcp.NewTool("assignment",
			mcp.WithDescription("Show the current preset, which window occupies each slot, and the target rectangles"),
		),
		s.handleAssignment,
	)

	s.mcp.AddTool(
		mcp.NewTool("swap",
			mcp.WithDescription("Swap the windows in two slots. Positions are col:slot, e.g. 0:0"),
			mcp.WithString("from", mcp.Required(), mcp.Description("First slot (col:slot)")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Second slot (col:slot)")),
		),
		s.handleSwap,
	)

	s.mcp.AddTool(
		mcp.NewTool("resize_column",
			mcp.WithDescription("Move the seam to the right of a column. Give delta in flex units or pixels in screen points"),
			mcp.WithNumber("left", mcp.Required(), mcp.Description("Index of the column left of the seam")),
			mcp.WithNumber("delta", mcp.Description("Flex moved from the right column to the left one")),
			mcp.WithNumber("pixels", mcp.Description("Seam translation in points on the selected display")),
		),
		s.handleResizeColumn,
	)

	s.mcp.AddTool(
		mcp.NewTool("resize_slot",
			mcp.WithDescription("Move the seam below a slot within a column"),
			mcp.WithNumber("column", mcp.Required(), mcp.Description("Column index")),
			mcp.WithNumber("above", mcp.Required(), mcp.Description("Index of the slot above the seam")),
			mcp.WithNumber("delta", mcp.Description("Flex moved from the lower slot to the upper one")),
			mcp.WithNumber("pixels", mcp.Description("Seam translation in points on the selected display")),
		),
		s.handleResizeSlot,
	)

	s.mcp.AddTool(
		mcp.NewTool("apply",
			mcp.WithDescription("Move every assigned window into its slot on the selected display"),
		),
		s.handleApply,
	)

	s.mcp.AddTool(
		mcp.NewTool("undo",
			mcp.WithDescription("Restore window frames from the last apply, or else the previous preset"),
		),
		s.handleUndo,
	)

	s.mcp.AddTool(
		mcp.NewTool("modify",
			mcp.WithDescription("Rewrite the current preset from a natural-language instruction"),
			mcp.WithString("instruction", mcp.Required(), mcp.Description("e.g. 'make the left column wider'")),
		),
		s.handleModify,
	)

	s.mcp.AddTool(
		mcp.NewTool("save_layout",
			mcp.WithDescription("Save the current preset and its applications under a name"),
			mcp.WithString("name", mcp.Required(), mcp.Description("Layout name")),
		),
		s.handleSaveLayout,
	)

	s.mcp.AddTool(
		mcp.NewTool("list_layouts",
			mcp.WithDescription("List saved layouts"),
		),
		s.handleListLayouts,
	)

	s.mcp.AddTool(
		mcp.NewTool("delete_layout",
			mcp.WithDescription("Delete a saved layout"),
			mcp.WithString("layout", mcp.Required(), mcp.Description("Layout id or name")),
		),
		s.handleDeleteLayout,
	)

	s.mcp.AddTool(
		mcp.NewTool("trigger_layout",
			mcp.WithDescription("Replay a saved layout: launch missing applications, wait, then arrange"),
			mcp.WithString("layout", mcp.Required(), mcp.Description("Layout id or name")),
		),
		s.handleTriggerLayout,
	)

	s.mcp.AddTool(
		mcp.NewTool("exclude",
			mcp.WithDescription("Toggle whether a window takes part in arrangement"),
			mcp.WithString("key", mcp.Description("Stable window key from list_windows")),
			mcp.WithNumber("window_id", mcp.Description("Window id from list_windows")),
		),
		s.handleExclude,
	)
}
