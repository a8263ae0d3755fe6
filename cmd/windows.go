package cmd

import (
	"github.com/mj1618/arrange/internal/output"
	"github.com/mj1618/arrange/internal/platform"
	"github.com/spf13/cobra"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List the windows that can be arranged",
	Long:  "List open windows with their app, bundle id, title, bounds, and stable key. Excluded windows are marked.",
	RunE:  runWindows,
}

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List displays and select the one layouts are applied to",
	RunE:  runDisplays,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
	windowsCmd.Flags().String("app", "", "Filter by app name or bundle id")
	windowsCmd.Flags().Int("pid", 0, "Filter by PID")

	rootCmd.AddCommand(displaysCmd)
	displaysCmd.Flags().Int("select", -1, "Select the display at this index")
}

func runWindows(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	app, _ := cmd.Flags().GetString("app")
	pid, _ := cmd.Flags().GetInt("pid")
	opts := platform.ListOptions{App: app, PID: pid}
	return e.view(output.Windows(e.session, opts.Match))
}

func runDisplays(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	if i, _ := cmd.Flags().GetInt("select"); i >= 0 {
		if err := e.session.SelectDisplay(i); err != nil {
			return e.finish(output.Action(e.session, "select_display", err), err)
		}
		if err := e.save(); err != nil {
			return err
		}
	}
	_, selected, _ := e.session.SelectedDisplay()
	return e.view(output.DisplaysResult{Selected: selected, Displays: e.session.Displays()})
}
