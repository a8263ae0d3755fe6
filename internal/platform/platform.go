package platform

import (
	"context"

	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
)

// WindowSource enumerates windows and moves them.
type WindowSource interface {
	// ListWindows returns the on-screen windows, optionally filtered.
	ListWindows(opts ListOptions) ([]model.Window, error)

	// Frame reads back the current bounds of a window.
	Frame(windowID int) ([4]int, error)

	// SetFrame asks the window to take the given bounds. The owning
	// application may clamp the request; callers read Frame to find out.
	SetFrame(windowID int, bounds [4]int) error
}

// DisplaySource reports the connected screens.
type DisplaySource interface {
	ListDisplays() ([]model.Display, error)
}

// Launcher starts an application by identifier. It returns once the launch
// request is issued, not when the application has windows.
type Launcher interface {
	Launch(appID string) error
}

// Rewriter turns a preset plus a natural-language instruction into a new
// preset. apps names the applications currently occupying the slots.
type Rewriter interface {
	Rewrite(ctx context.Context, p layout.Preset, instruction string, apps []string) (layout.Preset, error)
}
