package model

import "github.com/mj1618/arrange/internal/layout"

// SavedSlot records which application filled a slot when a layout was saved.
type SavedSlot struct {
	Col      int    `yaml:"col"       json:"col"`
	App      int    `yaml:"app"       json:"app"`
	BundleID string `yaml:"bundle_id" json:"bundleId"`
	AppName  string `yaml:"app_name"  json:"appName"`
}

// AppID mirrors Window.AppID for saved slots.
func (s SavedSlot) AppID() string {
	if s.BundleID != "" {
		return s.BundleID
	}
	return s.AppName
}

// Position returns the slot address.
func (s SavedSlot) Position() layout.Position {
	return layout.Position{Column: s.Col, Slot: s.App}
}

// SavedLayout is a named preset plus the applications that occupied it.
type SavedLayout struct {
	ID     string        `yaml:"id"     json:"id"`
	Name   string        `yaml:"name"   json:"name"`
	Preset layout.Preset `yaml:"preset" json:"preset"`
	Slots  []SavedSlot   `yaml:"slots"  json:"slots"`
}

// AppIDs returns the distinct application identifiers in slot order.
func (s SavedLayout) AppIDs() []string {
	seen := make(map[string]bool)
	var out []string
	for _, slot := range s.Slots {
		id := slot.AppID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
