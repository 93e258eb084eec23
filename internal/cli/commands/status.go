package commands

import (
	"context"
	"errors"
	"fmt"

	"JournalVault/internal/cli/api"
	"JournalVault/internal/cli/service"
	"JournalVault/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Показать хранилище и доступность сервера" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, cleanup, err := openSyncer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	id := s.Identity()
	if id == nil {
		fmt.Fprintln(Out, "Vault: not configured")
		return nil
	}
	fmt.Fprintf(Out, "Vault:   %s\n", id.VaultID)
	fmt.Fprintf(Out, "Created: %s\n", id.CreatedAt.Local().Format("2006-01-02 15:04"))

	endpoint, key := cfg.ServerURL, cfg.ClientAPIKey
	if id.BackendURL != "" {
		endpoint = id.BackendURL
	}
	if id.APIKey != "" {
		key = id.APIKey
	}
	switch {
	case endpoint == "":
		fmt.Fprintf(Out, "Relay:   %s\n", service.StatusLocalOnly)
	case cfg.Offline:
		fmt.Fprintf(Out, "Relay:   %s (%s)\n", endpoint, service.StatusOffline)
	default:
		err := api.NewClient(endpoint, key, cfg.HTTPTimeout).Health(ctx)
		switch {
		case err == nil:
			fmt.Fprintf(Out, "Relay:   %s (%s)\n", endpoint, service.StatusOnline)
		case errors.Is(err, api.ErrUnauthorized):
			fmt.Fprintf(Out, "Relay:   %s (unauthorized)\n", endpoint)
		default:
			fmt.Fprintf(Out, "Relay:   %s (%s: %v)\n", endpoint, service.StatusOffline, err)
		}
	}
	return nil
}

func init() { RegisterCmd(statusCmd{}) }
