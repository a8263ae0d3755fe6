package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the external capabilities the session depends on.
// Rewriter is optional and filled in by the caller from configuration.
type Provider struct {
	Windows  WindowSource
	Displays DisplaySource
	Launcher Launcher
	Rewriter Rewriter
}

// ErrUnsupported is returned on unsupported platforms.
var ErrUnsupported = fmt.Errorf("arrange has no window backend for %s/%s; use --desktop with a simulated desktop file", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go for the macOS registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
