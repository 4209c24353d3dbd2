// Command axrepo manages document profiles on an ARXivar server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/axrepo/internal/adapters/driven/arxivar"
	"github.com/custodia-labs/axrepo/internal/adapters/driven/config/file"
	"github.com/custodia-labs/axrepo/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/axrepo/internal/adapters/driving/cli"
	"github.com/custodia-labs/axrepo/internal/core/domain"
	"github.com/custodia-labs/axrepo/internal/core/ports/driven"
	"github.com/custodia-labs/axrepo/internal/core/ports/driving"
	"github.com/custodia-labs/axrepo/internal/core/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// dataDir sits next to config.toml once settings are opened.
	var dataDir string

	cli.Configure(cli.Bootstrap{
		Settings: func(configDir string) (driving.SettingsService, error) {
			store, err := file.NewConfigStore(configDir)
			if err != nil {
				return nil, err
			}
			dataDir = filepath.Join(filepath.Dir(store.Path()), "data")
			return services.NewSettingsService(store), nil
		},
		Connect: func(settings domain.ConnectionSettings) (*cli.Services, error) {
			return connect(settings, dataDir)
		},
		Journal: func(settings domain.ConnectionSettings) (driving.JournalService, func() error, error) {
			journal, closer, err := openJournal(settings, dataDir)
			if err != nil {
				return nil, nil, err
			}
			return services.NewJournalService(journal), closer, nil
		},
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// connect wires the HTTP adapter and the services over it.
func connect(settings domain.ConnectionSettings, dataDir string) (*cli.Services, error) {
	authenticator := arxivar.NewAuthenticator(settings.APIURL, &http.Client{Timeout: settings.Timeout})
	tokens := services.NewTokenManager(authenticator, settings.Credentials())
	client := arxivar.NewClient(settings, tokens)

	journal, closer, err := openJournal(settings, dataDir)
	if err != nil {
		return nil, err
	}

	return &cli.Services{
		Profile: services.NewProfileService(client, journal, ""),
		Auth:    services.NewAuthService(tokens, client),
		Journal: services.NewJournalService(journal),
		Task:    services.NewTaskService(client, ""),
		Close:   closer,
	}, nil
}

// openJournal opens the SQLite journal, or returns a nil journal when disabled.
func openJournal(settings domain.ConnectionSettings, dataDir string) (driven.Journal, func() error, error) {
	if !settings.Journal {
		return nil, nil, nil
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return store.Journal(), store.Close, nil
}
