package cmd

import (
	"github.com/mj1618/arrange/internal/output"
	"github.com/spf13/cobra"
)

var layoutsCmd = &cobra.Command{
	Use:   "layouts",
	Short: "Manage saved layouts",
	Long: `Save the current preset together with the applications in its slots, and
replay it later. Replaying launches applications that are not running, waits
for them to open, and arranges their windows into the saved slots.`,
}

var layoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved layouts",
	Args:  cobra.NoArgs,
	RunE:  runLayoutsList,
}

var layoutsSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current preset and its applications",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutsSave,
}

var layoutsDeleteCmd = &cobra.Command{
	Use:   "delete <id|name>",
	Short: "Delete a saved layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutsDelete,
}

var layoutsTriggerCmd = &cobra.Command{
	Use:   "trigger <id|name>",
	Short: "Replay a saved layout",
	Args:  cobra.ExactArgs(1),
	RunE:  runLayoutsTrigger,
}

type savedResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	ID     string `yaml:"id"     json:"id"`
	Name   string `yaml:"name"   json:"name"`
	Slots  int    `yaml:"slots"  json:"slots"`
}

func init() {
	rootCmd.AddCommand(layoutsCmd)
	layoutsCmd.AddCommand(layoutsListCmd)
	layoutsCmd.AddCommand(layoutsSaveCmd)
	layoutsCmd.AddCommand(layoutsDeleteCmd)
	layoutsCmd.AddCommand(layoutsTriggerCmd)
}

func runLayoutsList(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	layouts, err := e.session.Layouts(e.ctx)
	if err != nil {
		e.Close()
		return err
	}
	return e.view(output.Layouts(layouts))
}

func runLayoutsSave(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	saved, err := e.session.SaveCurrentLayout(e.ctx, args[0])
	if err != nil {
		return e.finish(output.Action(e.session, "save", err), err)
	}
	return e.finish(savedResult{OK: true, Action: "save", ID: saved.ID, Name: saved.Name, Slots: len(saved.Slots)}, nil)
}

func runLayoutsDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	saved, err := e.session.FindLayout(e.ctx, args[0])
	if err == nil {
		err = e.session.DeleteLayout(e.ctx, saved.ID)
	}
	return e.finish(output.Action(e.session, "delete", err), err)
}

func runLayoutsTrigger(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, nil)
	if err != nil {
		return err
	}
	saved, err := e.session.FindLayout(e.ctx, args[0])
	if err != nil {
		return e.finish(output.Action(e.session, "trigger", err), err)
	}
	p := newProgress(e.log)
	report, err := e.session.TriggerLayout(e.ctx, saved)
	if err == nil {
		p.done("Replayed " + saved.Name)
	}
	return e.finish(output.Apply(e.session, "trigger", report, err), err)
}
