package model

// Window represents an application window reported by the window source.
// The engine only reads its geometry and requests new geometry; it never
// changes identity fields.
type Window struct {
	App      string `yaml:"app"                 json:"app"`
	BundleID string `yaml:"bundle_id,omitempty" json:"bundle_id,omitempty"`
	PID      int    `yaml:"pid"                 json:"pid"`
	Title    string `yaml:"title"               json:"title"`
	ID       int    `yaml:"id"                  json:"id"`
	Bounds   [4]int `yaml:"bounds"              json:"bounds"`
	Focused  bool   `yaml:"focused,omitempty"   json:"focused,omitempty"`
}

// Area is the current pixel area (width × height).
func (w Window) Area() int {
	return w.Bounds[2] * w.Bounds[3]
}

// AppID is the durable application identifier: the bundle id when known,
// otherwise the application name.
func (w Window) AppID() string {
	if w.BundleID != "" {
		return w.BundleID
	}
	return w.App
}

// StableKey identifies a window across refreshes for user exclusions.
func (w Window) StableKey() string {
	return w.AppID() + "|" + w.Title
}

// Display describes one screen. Visible is the usable area excluding menu
// bars and docks, in the same coordinate space as window bounds.
type Display struct {
	ID      int    `yaml:"id"             json:"id"`
	Name    string `yaml:"name"           json:"name"`
	Frame   [4]int `yaml:"frame"          json:"frame"`
	Visible [4]int `yaml:"visible"        json:"visible"`
	Main    bool   `yaml:"main,omitempty" json:"main,omitempty"`
}
