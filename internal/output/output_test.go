package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/assign"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/model"
	"gopkg.in/yaml.v3"
)

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	result := ApplyResult{OK: true, Action: "apply", Status: "2 windows arranged", Preset: "Halves",
		ApplyReport: arrange.ApplyReport{Moved: 2}}
	if err := (Printer{W: &buf}).Print(result); err != nil {
		t.Fatal(err)
	}

	var parsed map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}
	if parsed["moved"] != 2 {
		t.Errorf("expected inline moved=2, got %v", parsed["moved"])
	}
	if _, ok := parsed["clamped"]; ok {
		t.Error("zero clamped count should be omitted")
	}
}

func TestPrinter_JSONCompactAndPretty(t *testing.T) {
	v := UndoResult{OK: true, Action: "undo", Undid: arrange.UndoFrames, Status: "Windows restored"}

	var compact bytes.Buffer
	if err := (Printer{W: &compact, Format: FormatJSON}).Print(v); err != nil {
		t.Fatal(err)
	}
	if strings.Count(compact.String(), "\n") != 1 {
		t.Errorf("compact JSON should be one line, got %q", compact.String())
	}
	if !strings.Contains(compact.String(), `"undid":"frames"`) {
		t.Errorf("undo kind should print by name, got %s", compact.String())
	}

	var pretty bytes.Buffer
	if err := (Printer{W: &pretty, Format: FormatJSON, Pretty: true}).Print(v); err != nil {
		t.Fatal(err)
	}
	if strings.Count(pretty.String(), "\n") < 3 {
		t.Errorf("pretty JSON should be multi-line, got %q", pretty.String())
	}
}

func TestPrinter_UnknownFormat(t *testing.T) {
	if err := (Printer{W: &bytes.Buffer{}, Format: "xml"}).Print(1); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(json) = %v, %v", f, err)
	}
}

func TestSlotRows(t *testing.T) {
	p := layout.Presets(2)[1] // Focus: 2:1
	w := model.Window{ID: 7, App: "Safari", Title: "Docs"}
	a := assign.Empty(p)
	a[0].Window = &w
	rects := layout.NewResolver(6).Resolve(p, layout.Rect{Width: 306, Height: 100})

	rows := SlotRows(p, a, rects)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].App != "Safari" || rows[0].WindowID != 7 || rows[0].Accent != layout.AccentPrimary {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].App != "" || rows[1].Accent != layout.AccentSecondary {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
	if rows[0].Rect == nil || *rows[0].Rect != [4]int{0, 0, 200, 100} {
		t.Errorf("got rect %v, want [0 0 200 100]", rows[0].Rect)
	}

	data, err := json.Marshal(rows[1])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"accent":"secondary"`) {
		t.Errorf("accent should print by name, got %s", data)
	}
}

func TestPresetRows(t *testing.T) {
	rows := PresetRows(layout.Presets(3), 1)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	if !rows[1].Selected || rows[0].Selected {
		t.Error("only index 1 should be selected")
	}
	if len(rows[1].Slots) != 2 || rows[1].Slots[1] != 2 {
		t.Errorf("Focus for three windows has slots [1 2], got %v", rows[1].Slots)
	}
}
