package cmd

import (
	"fmt"

	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/layout"
	"github.com/mj1618/arrange/internal/output"
	"github.com/spf13/cobra"
)

var swapCmd = &cobra.Command{
	Use:   "swap <col:slot> <col:slot>",
	Short: "Swap the windows in two slots",
	Long: `Swap the windows occupying two slots. The result is kept as a manual
assignment until the preset changes.

Example:
  arrange swap 0:0 1:0`,
	Args: cobra.ExactArgs(2),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)
}

func runSwap(cmd *cobra.Command, args []string) error {
	from, err := layout.ParsePosition(args[0])
	if err != nil {
		return err
	}
	to, err := layout.ParsePosition(args[1])
	if err != nil {
		return err
	}
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	if !e.session.SwapBlocks(from, to) {
		err = fmt.Errorf("cannot swap %s and %s: %w", from, to, arrange.ErrOutOfRange)
	}
	return e.finish(output.Action(e.session, "swap", err), err)
}
