// Package cli provides the axrepo command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driving"
	"github.com/custodia-labs/axrepo/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Services are the driving ports commands talk to once connected.
type Services struct {
	Profile driving.ProfileService
	Auth    driving.AuthService
	Journal driving.JournalService
	Task    driving.TaskService
	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Bootstrap builds services from the command-line context.
// Each hook runs at most once per invocation, the first time a command needs it.
type Bootstrap struct {
	// Settings opens the settings store in configDir ("" for the default).
	Settings func(configDir string) (driving.SettingsService, error)

	// Connect builds the remote-backed services from validated settings.
	Connect func(settings domain.ConnectionSettings) (*Services, error)

	// Journal opens the operation journal alone, for commands that never
	// reach the server.
	Journal func(settings domain.ConnectionSettings) (driving.JournalService, func() error, error)
}

// Service handles, populated by the bootstrap or by tests.
var (
	settingsService driving.SettingsService
	profileService  driving.ProfileService
	authService     driving.AuthService
	journalService  driving.JournalService
	taskService     driving.TaskService
	closeServices   func() error

	bootstrap Bootstrap
)

// Global flags.
var (
	verbose   bool
	quiet     bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "axrepo",
	Short: "Manage document profiles on an ARXivar server",
	Long: `axrepo creates, updates and deletes document profiles on an ARXivar
document-management server, staging files and releasing workflow holds as needed.

Connection settings live in ~/.axrepo/config.toml; see 'axrepo config'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
		return nil
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closeServices == nil {
			return nil
		}
		closer := closeServices
		closeServices = nil
		return closer()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print each remote step to stderr")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress warnings about tolerated failures")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "settings directory (default ~/.axrepo)")
}

// Configure installs the bootstrap used to build services.
func Configure(b Bootstrap) {
	bootstrap = b
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// settings returns the settings service, opening it on first use.
func settings() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	if bootstrap.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	svc, err := bootstrap.Settings(configDir)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	settingsService = svc
	return svc, nil
}

// journal returns the journal service, opening it without connecting.
func journal() (driving.JournalService, error) {
	if journalService != nil {
		return journalService, nil
	}
	if bootstrap.Journal == nil {
		return nil, errors.New("journal service not configured")
	}

	svc, err := settings()
	if err != nil {
		return nil, err
	}
	current, err := svc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	js, closer, err := bootstrap.Journal(*current)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	journalService = js
	closeServices = chainClose(closeServices, closer)
	return js, nil
}

// chainClose runs both closers, returning the first error.
func chainClose(first, second func() error) func() error {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func() error {
		return errors.Join(first(), second())
	}
}

// connect builds the remote-backed services on first use.
func connect(cmd *cobra.Command) error {
	if profileService != nil && authService != nil && taskService != nil {
		return nil
	}
	if bootstrap.Connect == nil {
		return errors.New("remote services not configured")
	}

	svc, err := settings()
	if err != nil {
		return err
	}
	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if err := current.Validate(); err != nil {
		return fmt.Errorf("%w (run 'axrepo config set')", err)
	}
	if current.Password == "" {
		password, err := promptPassword(cmd, current.Username)
		if err != nil {
			return err
		}
		current.Password = password
	}

	services, err := bootstrap.Connect(*current)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	profileService = services.Profile
	authService = services.Auth
	taskService = services.Task
	if journalService == nil {
		journalService = services.Journal
	}
	closeServices = chainClose(closeServices, services.Close)
	return nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(cmd *cobra.Command, username string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("password is not configured and stdin is not a terminal: %w", domain.ErrInvalidInput)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Password for %s: ", username)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimSpace(string(raw))
	if password == "" {
		return "", fmt.Errorf("empty password: %w", domain.ErrInvalidInput)
	}
	return password, nil
}
