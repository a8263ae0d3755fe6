//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"strings"
)

// runScript executes an AppleScript (or JXA when lang is "JavaScript") and
// returns its trimmed stdout.
func runScript(lang, script string) (string, error) {
	args := []string{}
	if lang != "" {
		args = append(args, "-l", lang)
	}
	args = append(args, "-e", script)
	out, err := exec.Command("osascript", args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if strings.Contains(msg, "-1719") || strings.Contains(msg, "-25211") {
			return "", fmt.Errorf("accessibility permission required\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Accessibility\n" +
				"Add your terminal app (e.g. Terminal.app, iTerm2, or the IDE running this command).\n" +
				"Then restart the terminal and try again.")
		}
		return "", fmt.Errorf("osascript: %s (%w)", msg, err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}
