package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mj1618/arrange/internal/platform/desktop"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const desktopYAML = `displays:
  - id: 1
    name: Main
    frame: [0, 0, 1206, 800]
    visible: [0, 0, 1206, 800]
    main: true
windows:
  - id: 1
    app: Editor
    bundle_id: com.editor
    pid: 1
    title: main.go
    bounds: [10, 10, 800, 600]
  - id: 2
    app: Term
    bundle_id: com.term
    pid: 2
    title: zsh
    bounds: [50, 50, 400, 300]
apps:
  - bundle_id: com.browser
    name: Browser
    bounds: [0, 0, 300, 300]
`

// fixture is a temporary config dir and simulated desktop.
type fixture struct {
	t       *testing.T
	dir     string
	desktop string
	config  string
	stdin   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("ARRANGE_API_KEY", "")
	dir := t.TempDir()
	f := &fixture{
		t:       t,
		dir:     dir,
		desktop: filepath.Join(dir, "desktop.yaml"),
		config:  filepath.Join(dir, "config.toml"),
	}
	cfg := "[store]\ndir = " + `"` + filepath.ToSlash(filepath.Join(dir, "state")) + `"` + "\n"
	if err := os.WriteFile(f.config, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.desktop, []byte(desktopYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return f
}

// resetFlags clears flag values left over from earlier executions of the
// shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes arrange with JSON output against the fixture.
func (f *fixture) run(args ...string) (string, error) {
	f.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(f.stdin))
	rootCmd.SetArgs(append([]string{"--config", f.config, "--desktop", f.desktop, "--format", "json"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func (f *fixture) mustRun(args ...string) map[string]interface{} {
	f.t.Helper()
	out, err := f.run(args...)
	if err != nil {
		f.t.Fatalf("arrange %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	var v map[string]interface{}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		f.t.Fatalf("arrange %s: invalid JSON %q: %v", strings.Join(args, " "), out, err)
	}
	return v
}

func (f *fixture) frame(id int) [4]int {
	f.t.Helper()
	d, err := desktop.Open(f.desktop)
	if err != nil {
		f.t.Fatal(err)
	}
	b, err := d.Frame(id)
	if err != nil {
		f.t.Fatal(err)
	}
	return b
}

func TestWindowsAndPresets(t *testing.T) {
	f := newFixture(t)

	v := f.mustRun("windows")
	windows := v["windows"].([]interface{})
	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	if key := windows[0].(map[string]interface{})["key"]; key != "com.editor|main.go" {
		t.Errorf("got key %v", key)
	}

	v = f.mustRun("presets")
	presets := v["presets"].([]interface{})
	if len(presets) != 3 {
		t.Fatalf("got %d presets, want 3", len(presets))
	}
	if name := presets[0].(map[string]interface{})["name"]; name != "Halves" {
		t.Errorf("first preset = %v, want Halves", name)
	}
}

func TestSelectPersistsBetweenCommands(t *testing.T) {
	f := newFixture(t)

	v := f.mustRun("select", "1")
	if v["preset"] != "Focus" || v["ok"] != true {
		t.Fatalf("unexpected select result: %v", v)
	}

	v = f.mustRun("assign")
	if name := v["preset"].(map[string]interface{})["name"]; name != "Focus" {
		t.Errorf("state should carry the selected preset, got %v", name)
	}
	if v["history"].(float64) != 1 {
		t.Errorf("got history %v, want 1", v["history"])
	}

	if _, err := f.run("select", "7"); err == nil {
		t.Error("expected error for preset out of range")
	}
}

func TestApplyUndo(t *testing.T) {
	f := newFixture(t)

	v := f.mustRun("apply")
	if v["moved"].(float64) != 2 {
		t.Fatalf("expected 2 moved windows, got %v", v)
	}
	if got := f.frame(1); got != [4]int{0, 0, 600, 800} {
		t.Errorf("editor frame = %v, want [0 0 600 800]", got)
	}
	if got := f.frame(2); got != [4]int{606, 0, 600, 800} {
		t.Errorf("term frame = %v, want [606 0 600 800]", got)
	}

	v = f.mustRun("undo")
	if v["undid"] != "frames" {
		t.Errorf("got undid %v, want frames", v["undid"])
	}
	if got := f.frame(1); got != [4]int{10, 10, 800, 600} {
		t.Errorf("editor frame after undo = %v", got)
	}

	v = f.mustRun("undo")
	if v["undid"] != "nothing" {
		t.Errorf("got undid %v, want nothing", v["undid"])
	}
}

func TestSwapThenApply(t *testing.T) {
	f := newFixture(t)

	f.mustRun("swap", "0:0", "1:0")
	f.mustRun("apply")
	if got := f.frame(2); got != [4]int{0, 0, 600, 800} {
		t.Errorf("swapped term frame = %v, want [0 0 600 800]", got)
	}

	if _, err := f.run("swap", "0:0", "0:0"); err == nil {
		t.Error("expected error swapping a slot with itself")
	}
	if _, err := f.run("swap", "left", "0:0"); err == nil {
		t.Error("expected error for malformed position")
	}
}

func TestResizeColumn(t *testing.T) {
	f := newFixture(t)

	f.mustRun("resize", "column", "0", "--delta", "0.5")
	v := f.mustRun("assign")
	cols := v["preset"].(map[string]interface{})["columns"].([]interface{})
	if flex := cols[0].(map[string]interface{})["flex"]; flex != 1.5 {
		t.Errorf("left flex = %v, want 1.5", flex)
	}

	if _, err := f.run("resize", "column", "0"); err == nil {
		t.Error("expected error without --delta or --pixels")
	}
	if _, err := f.run("resize", "column", "0", "--delta", "1", "--pixels", "5"); err == nil {
		t.Error("expected error with both --delta and --pixels")
	}
	if _, err := f.run("resize", "column", "4", "--delta", "0.1"); err == nil {
		t.Error("expected error for a seam that does not exist")
	}
}

func TestResizeRejectedSeamLeavesNoUndo(t *testing.T) {
	f := newFixture(t)

	out, err := f.run("resize", "column", "5", "--delta", "0.5")
	if err == nil {
		t.Fatal("expected error for a seam that does not exist")
	}
	if !strings.Contains(out, "Seam not moved") {
		t.Errorf("status should report the rejected seam, got %s", out)
	}

	v := f.mustRun("assign")
	if v["history"].(float64) != 0 {
		t.Errorf("got history %v, want 0", v["history"])
	}
	v = f.mustRun("undo")
	if v["undid"] != "nothing" {
		t.Errorf("got undid %v, want nothing", v["undid"])
	}
}

func TestExcludeRegeneratesPresets(t *testing.T) {
	f := newFixture(t)

	v := f.mustRun("exclude", "2")
	if v["excluded"] != true || v["windows"].(float64) != 1 {
		t.Fatalf("unexpected exclude result: %v", v)
	}
	v = f.mustRun("presets")
	if n := len(v["presets"].([]interface{})); n != 1 {
		t.Errorf("got %d presets for one window, want 1", n)
	}

	v = f.mustRun("exclude", "com.term|zsh")
	if v["excluded"] != false {
		t.Errorf("second toggle should include the window again: %v", v)
	}
}

func TestLayoutsSaveListDelete(t *testing.T) {
	f := newFixture(t)

	v := f.mustRun("layouts", "save", "work")
	if v["slots"].(float64) != 2 {
		t.Errorf("saved %v slots, want 2", v["slots"])
	}

	v = f.mustRun("layouts", "list")
	layouts := v["layouts"].([]interface{})
	if len(layouts) != 1 || layouts[0].(map[string]interface{})["name"] != "work" {
		t.Fatalf("unexpected layouts: %v", layouts)
	}

	f.mustRun("layouts", "delete", "work")
	v = f.mustRun("layouts", "list")
	if n := len(v["layouts"].([]interface{})); n != 0 {
		t.Errorf("got %d layouts after delete, want 0", n)
	}

	if _, err := f.run("layouts", "trigger", "missing"); err == nil {
		t.Error("expected error for unknown layout")
	}
}

func TestModifyWithoutKey(t *testing.T) {
	f := newFixture(t)
	out, err := f.run("modify", "make", "it", "wider")
	if err == nil {
		t.Fatal("expected error without an API key")
	}
	if !strings.Contains(out, "apikey set") {
		t.Errorf("status should point at apikey set, got %s", out)
	}
}

func TestAPIKey(t *testing.T) {
	f := newFixture(t)

	v := f.mustRun("apikey", "status")
	if v["configured"] != false {
		t.Fatalf("expected no key, got %v", v)
	}
	f.mustRun("apikey", "set", "sk-test")
	v = f.mustRun("apikey", "status")
	if v["configured"] != true || v["source"] != "file" {
		t.Errorf("expected file key, got %v", v)
	}

	info, err := os.Stat(filepath.Join(f.dir, "state", "api_key"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("api key mode = %o, want 600", perm)
	}

	f.mustRun("apikey", "clear")
	v = f.mustRun("apikey", "status")
	if v["configured"] != false {
		t.Errorf("expected key cleared, got %v", v)
	}
}

func TestAPIKeySetTrimsInput(t *testing.T) {
	f := newFixture(t)
	f.stdin = "  sk-from-stdin \n"
	f.mustRun("apikey", "set")

	data, err := os.ReadFile(filepath.Join(f.dir, "state", "api_key"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "sk-from-stdin" {
		t.Errorf("stored key = %q, want %q", got, "sk-from-stdin")
	}
}

func TestPreviewWritesPNG(t *testing.T) {
	f := newFixture(t)
	path := filepath.Join(f.dir, "out.png")

	v := f.mustRun("preview", "-o", path, "--width", "200", "--height", "100")
	if v["width"].(float64) != 200 {
		t.Errorf("unexpected preview result: %v", v)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestResolveBounds(t *testing.T) {
	f := newFixture(t)
	v := f.mustRun("resolve", "--bounds", "0,0,206,100")
	rects := v["rects"].([]interface{})
	if len(rects) != 2 {
		t.Fatalf("got %d rects, want 2", len(rects))
	}
	r := rects[1].(map[string]interface{})["rect"].(map[string]interface{})
	if r["x"] != 106.0 || r["w"] != 100.0 {
		t.Errorf("right rect = %v, want x=106 w=100", r)
	}
}

func TestInvalidFormat(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run("--format", "xml", "windows"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
