package output

import (
	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
)

// ActionResult is the output of a command that only changes state.
type ActionResult struct {
	OK     bool   `yaml:"ok"               json:"ok"`
	Action string `yaml:"action"           json:"action"`
	Status string `yaml:"status,omitempty" json:"status,omitempty"`
	Preset string `yaml:"preset,omitempty" json:"preset,omitempty"`
	Error  string `yaml:"error,omitempty"  json:"error,omitempty"`
}

// ApplyResult is the output of apply and layouts trigger.
type ApplyResult struct {
	OK                  bool   `yaml:"ok"               json:"ok"`
	Action              string `yaml:"action"           json:"action"`
	Status              string `yaml:"status"           json:"status"`
	Preset              string `yaml:"preset"           json:"preset"`
	Error               string `yaml:"error,omitempty"  json:"error,omitempty"`
	arrange.ApplyReport `yaml:",inline"`
}

// UndoResult is the output of undo.
type UndoResult struct {
	OK     bool             `yaml:"ok"     json:"ok"`
	Action string           `yaml:"action" json:"action"`
	Undid  arrange.UndoKind `yaml:"undid"  json:"undid"`
	Status string           `yaml:"status" json:"status"`
}

// WindowRow is one window in the windows listing.
type WindowRow struct {
	model.Window `yaml:",inline"`
	Key          string `yaml:"key"                json:"key"`
	Excluded     bool   `yaml:"excluded,omitempty" json:"excluded,omitempty"`
}

type WindowsResult struct {
	Windows []WindowRow `yaml:"windows" json:"windows"`
}

// Windows lists every window the session knows, excluded ones marked,
// narrowed by match when it is non-nil.
func Windows(s *arrange.Session, match func(model.Window) bool) WindowsResult {
	res := WindowsResult{Windows: []WindowRow{}}
	for _, w := range s.AllWindows() {
		if match != nil && !match(w) {
			continue
		}
		res.Windows = append(res.Windows, WindowRow{Window: w, Key: w.StableKey(), Excluded: s.IsExcluded(w)})
	}
	return res
}

type DisplaysResult struct {
	Selected int             `yaml:"selected" json:"selected"`
	Displays []model.Display `yaml:"displays" json:"displays"`
}

// PresetRow summarises one generated preset.
type PresetRow struct {
	Index    int       `yaml:"index"             json:"index"`
	ID       string    `yaml:"id"                json:"id"`
	Name     string    `yaml:"name"              json:"name"`
	Columns  []float64 `yaml:"columns,flow"      json:"columns"`
	Slots    []int     `yaml:"slots,flow"        json:"slots"`
	Selected bool      `yaml:"selected,omitempty" json:"selected,omitempty"`
}

type PresetsResult struct {
	Windows int         `yaml:"windows" json:"windows"`
	Presets []PresetRow `yaml:"presets" json:"presets"`
}

// PresetRows summarises presets, marking selected.
func PresetRows(presets []layout.Preset, selected int) []PresetRow {
	rows := make([]PresetRow, len(presets))
	for i, p := range presets {
		row := PresetRow{Index: i, ID: p.ID, Name: p.Name, Selected: i == selected}
		for _, c := range p.Columns {
			row.Columns = append(row.Columns, c.Flex)
			row.Slots = append(row.Slots, len(c.Apps))
		}
		rows[i] = row
	}
	return rows
}

// SlotRow describes one slot of the current preset.
type SlotRow struct {
	layout.Position `yaml:",inline"`
	Proportion      float64            `yaml:"proportion"          json:"proportion"`
	Accent          layout.AccentLevel `yaml:"accent"              json:"accent"`
	App             string             `yaml:"app,omitempty"       json:"app,omitempty"`
	Title           string             `yaml:"title,omitempty"     json:"title,omitempty"`
	WindowID        int                `yaml:"window_id,omitempty" json:"window_id,omitempty"`
	Rect            *[4]int            `yaml:"rect,omitempty,flow" json:"rect,omitempty"`
}

// SlotRows joins the preset's slot areas with the assignment and, when
// known, the resolved rectangles.
func SlotRows(p layout.Preset, a assign.Assignment, rects []layout.ResolvedRect) []SlotRow {
	var rows []SlotRow
	for _, area := range layout.SlotAreas(p) {
		row := SlotRow{
			Position:   area.Position,
			Proportion: area.Proportion,
			Accent:     layout.Accent(p, area.Position),
		}
		if w := a.Window(area.Position); w != nil {
			row.App = w.App
			row.Title = w.Title
			row.WindowID = w.ID
		}
		if r, ok := layout.Lookup(rects, area.Position); ok {
			b := r.Bounds()
			row.Rect = &b
		}
		rows = append(rows, row)
	}
	return rows
}

// StateResult is the output of state-inspecting commands.
type StateResult struct {
	Preset      layout.Preset `yaml:"preset"           json:"preset"`
	PresetIndex int           `yaml:"preset_index"     json:"preset_index"`
	Manual      bool          `yaml:"manual"           json:"manual"`
	Slots       []SlotRow     `yaml:"slots"            json:"slots"`
	History     int           `yaml:"history"          json:"history"`
	Frames      bool          `yaml:"frames"           json:"frames"`
	Status      string        `yaml:"status,omitempty" json:"status,omitempty"`
}

// State builds a StateResult from a session. Slots carry rectangles when a
// display is selected.
func State(s *arrange.Session) StateResult {
	rects, _ := s.Resolve()
	p := s.Current()
	return StateResult{
		Preset:      p,
		PresetIndex: s.PresetIndex(),
		Manual:      s.Manual(),
		Slots:       SlotRows(p, s.Assignments(), rects),
		History:     s.HistoryLen(),
		Frames:      s.HasFrames(),
		Status:      s.Status(),
	}
}

type LayoutsResult struct {
	Layouts []model.SavedLayout `yaml:"layouts" json:"layouts"`
}

// Presets summarises the session's generated presets.
func Presets(s *arrange.Session) PresetsResult {
	return PresetsResult{Windows: len(s.Windows()), Presets: PresetRows(s.Presets(), s.PresetIndex())}
}

// Apply wraps an apply report.
func Apply(s *arrange.Session, action string, report arrange.ApplyReport, err error) ApplyResult {
	return ApplyResult{
		OK:          err == nil,
		Action:      action,
		Status:      s.Status(),
		Preset:      s.Current().Name,
		Error:       errString(err),
		ApplyReport: report,
	}
}

// Action reports a state change by name.
func Action(s *arrange.Session, action string, err error) ActionResult {
	return ActionResult{OK: err == nil, Action: action, Status: s.Status(), Preset: s.Current().Name, Error: errString(err)}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Layouts wraps saved layouts, listing none as an empty list.
func Layouts(layouts []model.SavedLayout) LayoutsResult {
	if layouts == nil {
		layouts = []model.SavedLayout{}
	}
	return LayoutsResult{Layouts: layouts}
}
