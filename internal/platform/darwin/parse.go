package darwin

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
)

// System Events has no stable window number, so window IDs pack the owning
// PID with the 1-based window index inside that process.
const windowsPerProcess = 1000

// Windows smaller than this in either dimension (palettes, popovers,
// tooltips) are not listed.
const minWindowSide = 100

func makeWindowID(pid, index int) int { return pid*windowsPerProcess + index }

func splitWindowID(id int) (pid, index int) {
	return id / windowsPerProcess, id % windowsPerProcess
}

// standardSubrole marks ordinary document windows; dialogs, sheets and
// floating panels carry other subroles.
const standardSubrole = "AXStandardWindow"

// parseWindows decodes the tab-separated listing produced by
// listWindowsScript: pid, bundle id, name, index, title, x, y, w, h,
// minimized, subrole. Only standard, unminimized windows of at least
// minWindowSide that overlap one of displays are kept. With no displays the
// screen check is skipped.
func parseWindows(out string, displays []model.Display) ([]model.Window, error) {
	var windows []model.Window
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != 11 {
			return nil, fmt.Errorf("unexpected window listing line %q", line)
		}
		nums, err := atois(f[0], f[3], f[5], f[6], f[7], f[8])
		if err != nil {
			return nil, fmt.Errorf("unexpected window listing line %q: %w", line, err)
		}
		if strings.TrimSpace(f[9]) == "true" || strings.TrimSpace(f[10]) != standardSubrole {
			continue
		}
		bounds := [4]int{nums[2], nums[3], nums[4], nums[5]}
		if bounds[2] < minWindowSide || bounds[3] < minWindowSide || !onScreen(bounds, displays) {
			continue
		}
		windows = append(windows, model.Window{
			App:      f[2],
			BundleID: f[1],
			PID:      nums[0],
			Title:    f[4],
			ID:       makeWindowID(nums[0], nums[1]),
			Bounds:   bounds,
		})
	}
	return windows, nil
}

// onScreen reports whether bounds overlaps any display frame. Windows on
// other Spaces report positions outside every screen.
func onScreen(bounds [4]int, displays []model.Display) bool {
	if len(displays) == 0 {
		return true
	}
	r := layout.RectFromBounds(bounds)
	for _, d := range displays {
		if r.Intersects(layout.RectFromBounds(d.Frame)) {
			return true
		}
	}
	return false
}

func parseFrame(out string) ([4]int, error) {
	f := strings.Split(strings.TrimSpace(out), "\t")
	if len(f) != 4 {
		return [4]int{}, fmt.Errorf("unexpected frame %q", out)
	}
	nums, err := atois(f...)
	if err != nil {
		return [4]int{}, fmt.Errorf("unexpected frame %q: %w", out, err)
	}
	return [4]int{nums[0], nums[1], nums[2], nums[3]}, nil
}

// parseDisplays decodes the NSScreen listing. NSScreen reports bottom-left
// origin rectangles; they are flipped against the first (primary) screen so
// displays share the top-left space that window positions use.
func parseDisplays(out string) ([]model.Display, error) {
	var displays []model.Display
	var primaryHeight float64
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) != 10 {
			return nil, fmt.Errorf("unexpected display listing line %q", line)
		}
		id, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, fmt.Errorf("unexpected display listing line %q: %w", line, err)
		}
		vals := make([]float64, 8)
		for j := range vals {
			v, err := strconv.ParseFloat(strings.TrimSpace(f[j+2]), 64)
			if err != nil || math.IsNaN(v) {
				return nil, fmt.Errorf("unexpected display listing line %q", line)
			}
			vals[j] = v
		}
		frame := layout.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}
		visible := layout.Rect{X: vals[4], Y: vals[5], Width: vals[6], Height: vals[7]}
		primary := len(displays) == 0
		if primary {
			primaryHeight = frame.Height
		}
		displays = append(displays, model.Display{
			ID:      id,
			Name:    f[1],
			Frame:   layout.ToTopLeft(frame, primaryHeight).Bounds(),
			Visible: layout.ToTopLeft(visible, primaryHeight).Bounds(),
			Main:    primary,
		})
	}
	return displays, nil
}

func atois(fields ...string) ([]int, error) {
	out := make([]int, len(fields))
	for i, s := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
