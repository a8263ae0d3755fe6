// Package desktop is a simulated window backend described by a YAML file.
// It backs --desktop and the tests: windows are moved in memory and written
// back to the file, and a per-window minimum size emulates applications that
// refuse to shrink below their content.
package desktop

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/mj1618/arrange/internal/model"
	"github.com/mj1618/arrange/internal/platform"
	"gopkg.in/yaml.v3"
)

// Window is a simulated window.
type Window struct {
	model.Window `yaml:",inline"`
	// MinSize is the smallest width and height the window accepts.
	MinSize [2]int `yaml:"min_size,omitempty"`
}

// App is an installed application that Launch can start.
type App struct {
	BundleID string `yaml:"bundle_id"`
	Name     string `yaml:"name"`
	Title    string `yaml:"title,omitempty"`
	Bounds   [4]int `yaml:"bounds"`
	MinSize  [2]int `yaml:"min_size,omitempty"`
}

// File is the on-disk description of a desktop.
type File struct {
	Displays []model.Display `yaml:"displays"`
	Windows  []Window        `yaml:"windows"`
	Apps     []App           `yaml:"apps,omitempty"`
	Launched []string        `yaml:"launched,omitempty"`
}

// Desktop implements platform.WindowSource, platform.DisplaySource and
// platform.Launcher over a File.
type Desktop struct {
	mu   sync.Mutex
	path string
	f    File
}

// Open loads a desktop file. Changes are written back to path.
func Open(path string) (*Desktop, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read desktop file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse desktop file %s: %w", path, err)
	}
	return &Desktop{path: path, f: f}, nil
}

// New returns an in-memory desktop that is never written to disk.
func New(f File) *Desktop {
	return &Desktop{f: f}
}

// Provider bundles d as every OS capability.
func (d *Desktop) Provider() *platform.Provider {
	return &platform.Provider{Windows: d, Displays: d, Launcher: d}
}

// Snapshot returns a copy of the current desktop state.
func (d *Desktop) Snapshot() File {
	d.mu.Lock()
	defer d.mu.Unlock()
	f := d.f
	f.Displays = append([]model.Display(nil), d.f.Displays...)
	f.Windows = append([]Window(nil), d.f.Windows...)
	f.Apps = append([]App(nil), d.f.Apps...)
	f.Launched = append([]string(nil), d.f.Launched...)
	return f
}

func (d *Desktop) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Window, 0, len(d.f.Windows))
	for _, w := range d.f.Windows {
		out = append(out, w.Window)
	}
	return opts.Filter(out), nil
}

func (d *Desktop) Frame(windowID int) ([4]int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.find(windowID)
	if w == nil {
		return [4]int{}, fmt.Errorf("no window found with ID %d", windowID)
	}
	return w.Bounds, nil
}

func (d *Desktop) SetFrame(windowID int, bounds [4]int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	w := d.find(windowID)
	if w == nil {
		return fmt.Errorf("no window found with ID %d", windowID)
	}
	bounds[2] = max(bounds[2], w.MinSize[0])
	bounds[3] = max(bounds[3], w.MinSize[1])
	w.Bounds = bounds
	return d.save()
}

func (d *Desktop) ListDisplays() ([]model.Display, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Display(nil), d.f.Displays...), nil
}

// Launch opens a window for an installed application. Launching an
// application that already has a window only records the request.
func (d *Desktop) Launch(appID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var app *App
	for i := range d.f.Apps {
		if strings.EqualFold(d.f.Apps[i].BundleID, appID) || strings.EqualFold(d.f.Apps[i].Name, appID) {
			app = &d.f.Apps[i]
			break
		}
	}
	if app == nil {
		return fmt.Errorf("application %q is not installed", appID)
	}
	d.f.Launched = append(d.f.Launched, appID)

	for _, w := range d.f.Windows {
		if w.AppID() == app.BundleID {
			return d.save()
		}
	}

	nextID, pid := 1, 1
	for _, w := range d.f.Windows {
		nextID = max(nextID, w.ID+1)
		pid = max(pid, w.PID+1)
	}
	d.f.Windows = append(d.f.Windows, Window{
		Window: model.Window{
			App:      app.Name,
			BundleID: app.BundleID,
			PID:      pid,
			Title:    app.Title,
			ID:       nextID,
			Bounds:   app.Bounds,
		},
		MinSize: app.MinSize,
	})
	return d.save()
}

func (d *Desktop) find(id int) *Window {
	for i := range d.f.Windows {
		if d.f.Windows[i].ID == id {
			return &d.f.Windows[i]
		}
	}
	return nil
}

func (d *Desktop) save() error {
	if d.path == "" {
		return nil
	}
	data, err := yaml.Marshal(&d.f)
	if err != nil {
		return fmt.Errorf("failed to encode desktop: %w", err)
	}
	if err := os.WriteFile(d.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write desktop file: %w", err)
	}
	return nil
}
