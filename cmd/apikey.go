package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mj1618/arrange/internal/config"
	"github.com/mj1618/arrange/internal/store"
	"github.com/spf13/cobra"
)

var apikeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage the API key used by modify",
	Long: `Store, clear, or check the API key for the layout rewriter. The key is
kept in ~/.config/arrange/api_key with mode 0600. ARRANGE_API_KEY takes
precedence when set.`,
}

var apikeySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the API key (read from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAPIKeySet,
}

var apikeyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyClear,
}

var apikeyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether an API key is configured",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyStatus,
}

type apikeyResult struct {
	OK         bool   `yaml:"ok"                   json:"ok"`
	Action     string `yaml:"action"               json:"action"`
	Configured bool   `yaml:"configured"           json:"configured"`
	Source     string `yaml:"source,omitempty"     json:"source,omitempty"`
}

func init() {
	rootCmd.AddCommand(apikeyCmd)
	apikeyCmd.AddCommand(apikeySetCmd)
	apikeyCmd.AddCommand(apikeyClearCmd)
	apikeyCmd.AddCommand(apikeyStatusCmd)
}

func credentials(cmd *cobra.Command) (*store.Credentials, error) {
	return store.NewCredentials(configFromContext(cmd.Context()).Store.Dir)
}

func runAPIKeySet(cmd *cobra.Command, args []string) error {
	var key string
	if len(args) == 1 {
		key = args[0]
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read api key: %w", err)
		}
		key = line
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("api key is empty")
	}

	creds, err := credentials(cmd)
	if err != nil {
		return err
	}
	if err := creds.Save(key); err != nil {
		return err
	}
	return printer(cmd).Print(apikeyResult{OK: true, Action: "apikey_set", Configured: true, Source: "file"})
}

func runAPIKeyClear(cmd *cobra.Command, args []string) error {
	creds, err := credentials(cmd)
	if err != nil {
		return err
	}
	if err := creds.Clear(); err != nil {
		return err
	}
	return printer(cmd).Print(apikeyResult{OK: true, Action: "apikey_clear"})
}

func runAPIKeyStatus(cmd *cobra.Command, args []string) error {
	res := apikeyResult{OK: true, Action: "apikey_status"}
	if os.Getenv(config.APIKeyEnv) != "" {
		res.Configured, res.Source = true, "env"
		return printer(cmd).Print(res)
	}
	creds, err := credentials(cmd)
	if err != nil {
		return err
	}
	key, err := creds.Load()
	if err != nil {
		return err
	}
	if key != "" {
		res.Configured, res.Source = true, "file"
	}
	return printer(cmd).Print(res)
}
