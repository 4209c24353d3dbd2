package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/axrepo/internal/core/domain"
)

var authScopes []string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Check credentials against the server",
	Long: `Exchanges the configured credentials for a token in each requested scope
and prints the user each token acts as.

Scopes:
  default      profile API
  management   management API
  workflow     workflow API

Examples:
  axrepo auth
  axrepo auth --scope default --scope workflow`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func init() {
	authCmd.Flags().StringSliceVar(&authScopes, "scope", []string{string(domain.ScopeDefault)},
		"scope to authenticate (repeatable, or 'all')")
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, _ []string) error {
	scopes, err := parseScopes(authScopes)
	if err != nil {
		return err
	}
	if err := connect(cmd); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	for _, scope := range scopes {
		who, err := authService.Login(ctx, scope)
		if err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		if who.Username == "" {
			cmd.Printf("%-10s  ok\n", scope)
			continue
		}
		cmd.Printf("%-10s  ok  %s (user %d", scope, who.Username, who.UserID)
		if who.AOO != "" {
			cmd.Printf(", aoo %s", who.AOO)
		}
		cmd.Println(")")
	}
	return nil
}

func parseScopes(raw []string) ([]domain.Scope, error) {
	var scopes []domain.Scope
	for _, r := range raw {
		if r == "all" {
			return domain.AllScopes(), nil
		}
		scope := domain.Scope(r)
		if !scope.IsValid() {
			return nil, fmt.Errorf("unknown scope %q: %w", r, domain.ErrInvalidInput)
		}
		scopes = append(scopes, scope)
	}
	if len(scopes) == 0 {
		scopes = []domain.Scope{domain.ScopeDefault}
	}
	return scopes, nil
}
