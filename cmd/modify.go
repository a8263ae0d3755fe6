package cmd

import (
	"strings"

	"github.com/mj1618/arrange/internal/output"
	"github.com/spf13/cobra"
)

var modifyCmd = &cobra.Command{
	Use:   "modify <instruction>",
	Short: "Rewrite the current preset from a plain-language instruction",
	Long: `Send the current preset and its applications to the rewriter model with
an instruction, and make the returned preset current. Needs an API key (see
arrange apikey set, or ARRANGE_API_KEY).

Examples:
  arrange modify "make the editor column twice as wide"
  arrange modify "stack the two terminals on the right"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runModify,
}

func init() {
	rootCmd.AddCommand(modifyCmd)
}

func runModify(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	instruction := strings.Join(args, " ")
	p := newProgress(e.log)
	err = e.session.Modify(e.ctx, instruction)
	if err == nil {
		p.done("Layout modified")
	}
	return e.finish(output.Action(e.session, "modify", err), err)
}
