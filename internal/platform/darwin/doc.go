// Package darwin provides the macOS window backend. Windows are listed and
// moved through System Events with osascript, screens are read through the
// JavaScript for Automation bridge to NSScreen, and applications are started
// with open(1). Accessibility permission is required for moving windows.
package darwin
