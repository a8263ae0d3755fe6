package platform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mj1618/arrange/internal/model"
)

// ParseBounds parses a "x,y,w,h" string.
func ParseBounds(s string) ([4]int, error) {
	var b [4]int
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return b, fmt.Errorf("invalid bounds %q: expected x,y,w,h", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return b, fmt.Errorf("invalid bounds %q: %w", s, err)
		}
		b[i] = v
	}
	if b[2] < 0 || b[3] < 0 {
		return b, fmt.Errorf("invalid bounds %q: negative size", s)
	}
	return b, nil
}

// ListOptions controls window listing.
type ListOptions struct {
	App string // Filter by app name or bundle id (case-insensitive)
	PID int    // Filter by PID (0 = unset)
}

// Match reports whether w passes the filter.
func (o ListOptions) Match(w model.Window) bool {
	if o.PID != 0 && w.PID != o.PID {
		return false
	}
	if o.App != "" && !strings.EqualFold(o.App, w.App) && !strings.EqualFold(o.App, w.BundleID) {
		return false
	}
	return true
}

// Filter returns the windows matching o, in their original order.
func (o ListOptions) Filter(windows []model.Window) []model.Window {
	if o.App == "" && o.PID == 0 {
		return windows
	}
	var out []model.Window
	for _, w := range windows {
		if o.Match(w) {
			out = append(out, w)
		}
	}
	return out
}

// MainDisplay returns the display flagged as main, falling back to the first.
func MainDisplay(displays []model.Display) (model.Display, bool) {
	for _, d := range displays {
		if d.Main {
			return d, true
		}
	}
	if len(displays) == 0 {
		return model.Display{}, false
	}
	return displays[0], true
}
