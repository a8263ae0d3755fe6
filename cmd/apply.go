package cmd

import (
	"github.com/mj1618/arrange/internal/output"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Move every assigned window into its slot",
	Long: `Move every assigned window into its slot on the selected display. The
windows' previous frames are remembered so the next undo puts them back.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore window frames from the last apply, or else the previous preset",
	Args:  cobra.NoArgs,
	RunE:  runUndo,
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(undoCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	report, err := e.session.Apply()
	return e.finish(output.Apply(e.session, "apply", report, err), err)
}

func runUndo(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	kind := e.session.Undo()
	return e.finish(output.UndoResult{
		OK:     true,
		Action: "undo",
		Undid:  kind,
		Status: e.session.Status(),
	}, nil)
}
