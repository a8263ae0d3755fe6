package cmd

import (
	"fmt"
	"strconv"

	"github.com/mj1618/arrange/internal/output"
	"github.com/spf13/cobra"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude <window-id|key>",
	Short: "Toggle whether a window takes part in arrangement",
	Long: `Exclude a window from arrangement, or include it again if it is already
excluded. Windows are named by id or by the stable key shown by
"arrange windows" (app|title), which survives restarts.`,
	Args: cobra.ExactArgs(1),
	RunE: runExclude,
}

type excludeResult struct {
	OK       bool   `yaml:"ok"       json:"ok"`
	Action   string `yaml:"action"   json:"action"`
	Key      string `yaml:"key"      json:"key"`
	Excluded bool   `yaml:"excluded" json:"excluded"`
	Windows  int    `yaml:"windows"  json:"windows"`
}

func init() {
	rootCmd.AddCommand(excludeCmd)
}

func runExclude(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	key := args[0]
	if id, err := strconv.Atoi(key); err == nil {
		key = ""
		for _, w := range e.session.AllWindows() {
			if w.ID == id {
				key = w.StableKey()
				break
			}
		}
		if key == "" {
			err := fmt.Errorf("window %d not found", id)
			return e.finish(output.Action(e.session, "exclude", err), err)
		}
	}
	excluded := e.session.ToggleExclusion(key)
	return e.finish(excludeResult{
		OK:       true,
		Action:   "exclude",
		Key:      key,
		Excluded: excluded,
		Windows:  len(e.session.Windows()),
	}, nil)
}
