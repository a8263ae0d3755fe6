//go:build darwin

package darwin

import (
	"fmt"

	"github.com/mj1618/arrange/internal/model"
)

const listDisplaysScript = `ObjC.import("AppKit");
var screens = $.NSScreen.screens;
var out = [];
for (var i = 0; i < screens.count; i++) {
	var s = screens.objectAtIndex(i);
	var f = s.frame, v = s.visibleFrame;
	out.push([i + 1, s.localizedName.js, f.origin.x, f.origin.y, f.size.width, f.size.height,
		v.origin.x, v.origin.y, v.size.width, v.size.height].join("\t"));
}
out.join("\n");`

// DisplaySource reads NSScreen geometry.
type DisplaySource struct{}

// NewDisplaySource creates a new macOS display source.
func NewDisplaySource() *DisplaySource {
	return &DisplaySource{}
}

func (s *DisplaySource) ListDisplays() ([]model.Display, error) {
	out, err := runScript("JavaScript", listDisplaysScript)
	if err != nil {
		return nil, fmt.Errorf("failed to list displays: %w", err)
	}
	return parseDisplays(out)
}
