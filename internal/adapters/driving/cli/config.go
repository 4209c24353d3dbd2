package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage connection settings",
	Long: `View and change the settings used to reach the server.

Settings are stored in config.toml inside the config directory. The password
may be left unset; it is then prompted for on each run.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a setting so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the settings that can be changed",
	Args:  cobra.NoArgs,
	RunE:  runConfigKeys,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}
	s, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Settings (%s)\n", svc.Path())
	cmd.Println()

	cmd.Println(color.CyanString("[Server]"))
	cmd.Printf("  API URL:        %s\n", orUnset(s.APIURL))
	cmd.Printf("  Management URL: %s\n", orDefault(s.ManagementURL, "same as API URL"))
	cmd.Printf("  Workflow URL:   %s\n", orDefault(s.WorkflowURL, "same as API URL"))
	cmd.Printf("  AOO:            %s\n", orUnset(s.AOO))
	cmd.Println()

	cmd.Println(color.CyanString("[Credentials]"))
	cmd.Printf("  Username:       %s\n", orUnset(s.Username))
	cmd.Printf("  Password:       %s\n", maskSecret(s.Password))
	cmd.Printf("  Client ID:      %s\n", orUnset(s.ClientID))
	cmd.Printf("  Client secret:  %s\n", maskSecret(s.ClientSecret))
	if s.ImpersonateUserID != nil {
		cmd.Printf("  Impersonate:    user %d\n", *s.ImpersonateUserID)
	}
	cmd.Println()

	cmd.Println(color.CyanString("[Client]"))
	cmd.Printf("  Requests/sec:   %g\n", s.RequestsPerSecond)
	cmd.Printf("  Burst:          %d\n", s.Burst)
	cmd.Printf("  Timeout:        %s\n", s.Timeout)
	cmd.Printf("  Journal:        %t\n", s.Journal)

	if err := s.Validate(); err != nil {
		cmd.Println()
		cmd.Printf("%s %v\n", color.YellowString("Incomplete:"), err)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}
	if err := svc.Unset(args[0]); err != nil {
		return err
	}
	cmd.Printf("%s removed\n", args[0])
	return nil
}

func runConfigKeys(cmd *cobra.Command, _ []string) error {
	svc, err := settings()
	if err != nil {
		return err
	}
	for _, k := range svc.Keys() {
		cmd.Println(k)
	}
	return nil
}

func orUnset(s string) string {
	return orDefault(s, "not set")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return "(" + fallback + ")"
	}
	return s
}

// maskSecret shows only the last four characters of a secret.
func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
