//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"strings"
)

// Launcher starts applications with open(1).
type Launcher struct{}

// NewLauncher creates a new macOS launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Launch opens the application by bundle id, or by name when appID does not
// look like a bundle id.
func (l *Launcher) Launch(appID string) error {
	flag := "-a"
	if strings.Contains(appID, ".") {
		flag = "-b"
	}
	if out, err := exec.Command("open", flag, appID).CombinedOutput(); err != nil {
		return fmt.Errorf("open failed: %s (%w)", strings.TrimSpace(string(out)), err)
	}
	return nil
}
