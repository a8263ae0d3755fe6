package cmd

import (
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/output"
	"github.com/mj1618/arrange/internal/platform"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the rectangles of the current preset",
	Long: `Print the rectangle of every slot of the current preset on the selected
display, or within --bounds when given.

Examples:
  arrange resolve
  arrange resolve --bounds 0,0,206,100`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Show which window occupies each slot",
	Args:  cobra.NoArgs,
	RunE:  runAssign,
}

type resolveResult struct {
	Preset string                `yaml:"preset" json:"preset"`
	Bounds [4]int                `yaml:"bounds,flow" json:"bounds"`
	Gutter float64               `yaml:"gutter" json:"gutter"`
	Rects  []layout.ResolvedRect `yaml:"rects" json:"rects"`
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().String("bounds", "", "Resolve within x,y,w,h instead of the selected display")

	rootCmd.AddCommand(assignCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	p := e.session.Current()
	res := resolveResult{Preset: p.Name, Gutter: e.session.Gutter()}
	if raw, _ := cmd.Flags().GetString("bounds"); raw != "" {
		b, err := platform.ParseBounds(raw)
		if err != nil {
			return err
		}
		res.Bounds = b
		res.Rects = layout.NewResolver(res.Gutter).Resolve(p, layout.RectFromBounds(b))
		return e.view(res)
	}

	rects, err := e.session.Resolve()
	if err != nil {
		return err
	}
	d, _, _ := e.session.SelectedDisplay()
	res.Bounds = d.Visible
	res.Rects = rects
	return e.view(res)
}

func runAssign(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	return e.view(output.State(e.session))
}
