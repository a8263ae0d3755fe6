//go:build darwin

package darwin

import "github.com/mj1618/arrange/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		windows := NewWindowSource()
		return &platform.Provider{
			Windows:  windows,
			Displays: NewDisplaySource(),
			Launcher: NewLauncher(),
		}, nil
	}
}
