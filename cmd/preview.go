package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/arrange/internal/preview"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the current preset and its windows as a PNG",
	Long: `Render the current preset as a PNG: slots filled by accent (largest
primary, second secondary), labelled with the occupying app.

Examples:
  arrange preview -o layout.png
  arrange preview --width 960 --height 600 -o layout.png`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

type previewResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	Path   string `yaml:"path"   json:"path"`
	Preset string `yaml:"preset" json:"preset"`
	Width  int    `yaml:"width"  json:"width"`
	Height int    `yaml:"height" json:"height"`
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().StringP("output", "o", "arrange-preview.png", "Output PNG path")
	previewCmd.Flags().Int("width", 0, "Canvas width (default: selected display width, or 960)")
	previewCmd.Flags().Int("height", 0, "Canvas height (default: selected display height, or 600)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	path, _ := cmd.Flags().GetString("output")
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	if w <= 0 || h <= 0 {
		dw, dh := 960, 600
		if d, _, ok := e.session.SelectedDisplay(); ok && d.Visible[2] > 0 && d.Visible[3] > 0 {
			dw, dh = d.Visible[2], d.Visible[3]
		}
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	p := e.session.Current()
	if err := preview.WritePNG(f, p, e.session.Assignments(), w, h, e.session.Gutter()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return e.view(previewResult{OK: true, Action: "preview", Path: path, Preset: p.Name, Width: w, Height: h})
}
