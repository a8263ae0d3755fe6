//go:build darwin

package darwin

import (
	"fmt"

	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/platform"
)

const listWindowsScript = `set out to ""
tell application "System Events"
	repeat with p in (every application process whose background only is false)
		set pid to unix id of p
		set bid to ""
		try
			set bid to bundle identifier of p
		end try
		if bid is missing value then set bid to ""
		set pname to name of p
		set idx to 0
		repeat with w in windows of p
			set idx to idx + 1
			try
				set {x, y} to position of w
				set {ww, hh} to size of w
				set t to name of w
				if t is missing value then set t to ""
				set mini to false
				try
					set mini to value of attribute "AXMinimized" of w
				end try
				set sr to ""
				try
					set sr to subrole of w
				end try
				if sr is missing value then set sr to ""
				set out to out & pid & tab & bid & tab & pname & tab & idx & tab & t & tab & x & tab & y & tab & ww & tab & hh & tab & mini & tab & sr & linefeed
			end try
		end repeat
	end repeat
end tell
return out`

const frameScript = `tell application "System Events" to tell (first application process whose unix id is %d) to tell window %d
	set {x, y} to position
	set {ww, hh} to size
	return (x as text) & tab & (y as text) & tab & (ww as text) & tab & (hh as text)
end tell`

const setFrameScript = `tell application "System Events" to tell (first application process whose unix id is %d) to tell window %d
	set position to {%d, %d}
	set size to {%d, %d}
end tell`

// WindowSource lists and moves windows through System Events.
type WindowSource struct{}

// NewWindowSource creates a new macOS window source.
func NewWindowSource() *WindowSource {
	return &WindowSource{}
}

func (s *WindowSource) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	out, err := runScript("", listWindowsScript)
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w", err)
	}
	displays, err := NewDisplaySource().ListDisplays()
	if err != nil {
		return nil, err
	}
	windows, err := parseWindows(out, displays)
	if err != nil {
		return nil, err
	}
	return opts.Filter(windows), nil
}

func (s *WindowSource) Frame(windowID int) ([4]int, error) {
	pid, idx := splitWindowID(windowID)
	out, err := runScript("", fmt.Sprintf(frameScript, pid, idx))
	if err != nil {
		return [4]int{}, fmt.Errorf("failed to read frame of window %d: %w", windowID, err)
	}
	return parseFrame(out)
}

func (s *WindowSource) SetFrame(windowID int, b [4]int) error {
	pid, idx := splitWindowID(windowID)
	if _, err := runScript("", fmt.Sprintf(setFrameScript, pid, idx, b[0], b[1], b[2], b[3])); err != nil {
		return fmt.Errorf("failed to move window %d: %w", windowID, err)
	}
	return nil
}
