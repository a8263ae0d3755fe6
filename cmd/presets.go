package cmd

import (
	"fmt"
	"strconv"

	"github.com/mj1618/arrange/internal/output"
	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the presets generated for the current window count",
	RunE:  runPresets,
}

var selectCmd = &cobra.Command{
	Use:   "select <index>",
	Short: "Make a generated preset current",
	Long:  "Make a generated preset current, discarding edits and any manual assignment. The previous preset can be restored with undo.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard edits to the selected preset",
	Args:  cobra.NoArgs,
	RunE:  runReset,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(resetCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	return e.view(output.Presets(e.session))
}

func runSelect(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("preset index must be an integer: %q", args[0])
	}
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	err = e.session.SelectPreset(index)
	return e.finish(output.Action(e.session, "select", err), err)
}

func runReset(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	err = e.session.ResetPreset()
	return e.finish(output.Action(e.session, "reset", err), err)
}
