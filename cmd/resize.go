package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mj1618/arrange/internal/arrange"
	"github.com/mj1618/arrange/internal/output"
	"github.com/spf13/cobra"
)

var resizeCmd = &cobra.Command{
	Use:   "resize",
	Short: "Move a seam between columns or slots",
	Long: `Move a seam of the current preset. Give the change either in flex units
(--delta) or as a drag distance in points on the selected display (--pixels).
Flex moves from one side of the seam to the other; the total is unchanged and
neither side shrinks below its minimum share.

Examples:
  arrange resize column 0 --delta 0.5
  arrange resize slot 1 0 --pixels 40`,
}

var resizeColumnCmd = &cobra.Command{
	Use:   "column <left>",
	Short: "Move the seam right of column <left>",
	Args:  cobra.ExactArgs(1),
	RunE:  runResizeColumn,
}

var resizeSlotCmd = &cobra.Command{
	Use:   "slot <column> <above>",
	Short: "Move the seam below slot <above> in <column>",
	Args:  cobra.ExactArgs(2),
	RunE:  runResizeSlot,
}

func init() {
	rootCmd.AddCommand(resizeCmd)
	resizeCmd.AddCommand(resizeColumnCmd)
	resizeCmd.AddCommand(resizeSlotCmd)
	for _, c := range []*cobra.Command{resizeColumnCmd, resizeSlotCmd} {
		c.Flags().Float64("delta", 0, "Flex moved toward the left or upper side")
		c.Flags().Float64("pixels", 0, "Seam drag distance in points")
		c.MarkFlagsMutuallyExclusive("delta", "pixels")
		c.MarkFlagsOneRequired("delta", "pixels")
	}
}

func runResizeColumn(cmd *cobra.Command, args []string) error {
	left, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("column must be an integer: %q", args[0])
	}
	return runResize(cmd, "resize_column",
		func(e *env, delta float64) bool { return e.session.AdjustColumnFlex(left, delta) },
		func(e *env, px float64) bool { return e.session.DragColumnSeam(left, px) },
	)
}

func runResizeSlot(cmd *cobra.Command, args []string) error {
	col, err1 := strconv.Atoi(args[0])
	above, err2 := strconv.Atoi(args[1])
	if err := errors.Join(err1, err2); err != nil {
		return fmt.Errorf("column and slot must be integers: %w", err)
	}
	return runResize(cmd, "resize_slot",
		func(e *env, delta float64) bool { return e.session.AdjustAppFlex(col, above, delta) },
		func(e *env, px float64) bool { return e.session.DragSlotSeam(col, above, px) },
	)
}

// runResize performs one whole seam gesture, so it undoes as one step.
func runResize(cmd *cobra.Command, action string, byFlex, byPixels func(*env, float64) bool) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	e.session.BeginSeamDrag()
	var moved bool
	if cmd.Flags().Changed("pixels") {
		px, _ := cmd.Flags().GetFloat64("pixels")
		moved = byPixels(e, px)
	} else {
		delta, _ := cmd.Flags().GetFloat64("delta")
		moved = byFlex(e, delta)
	}
	e.session.EndSeamDrag()

	if !moved {
		err = fmt.Errorf("seam not moved: %w", arrange.ErrOutOfRange)
	}
	return e.finish(output.Action(e.session, action, err), err)
}
