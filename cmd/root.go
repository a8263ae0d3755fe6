package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mj1618/arrange/internal/config"
	"github.com/mj1618/arrange/internal/output"
	"github.com/mj1618/arrange/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "arrange",
	Short: "Tile desktop windows into proportional layouts",
	Long: `arrange tiles the windows on your desktop into column layouts generated
for the number of open windows. Presets can be resized seam by seam, rewritten
from plain-language instructions, saved, and replayed later.

State (current preset, undo history, exclusions) is kept between commands in
~/.config/arrange, so commands compose:

  arrange presets
  arrange select 1
  arrange resize column 0 --delta 0.5
  arrange apply
  arrange undo`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)

	pf := rootCmd.PersistentFlags()
	pf.String("format", "yaml", "Output format: yaml, json")
	pf.Bool("pretty", false, "Pretty-print JSON output")
	pf.String("config", "", "Config file (default ~/.config/arrange/config.toml)")
	pf.String("desktop", "", "Use a simulated desktop YAML file instead of the OS window backend")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		if _, err := output.ParseFormat(format); err != nil {
			return err
		}

		path, _ := rootCmd.PersistentFlags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}

		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("config log level: %w", err)
		}
		if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
			level = log.DebugLevel
		}
		ctx := withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level))
		cmd.SetContext(withConfig(ctx, cfg))
		return nil
	}
}

// printer returns the output printer selected by the persistent flags.
func printer(cmd *cobra.Command) output.Printer {
	format, _ := rootCmd.PersistentFlags().GetString("format")
	pretty, _ := rootCmd.PersistentFlags().GetBool("pretty")
	return output.Printer{W: cmd.OutOrStdout(), Format: output.Format(format), Pretty: pretty}
}
