package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/cli/prompt"
	"JournalVault/internal/config"
)

type vaultCreateCmd struct{}

func (vaultCreateCmd) Name() string        { return "vault-create" }
func (vaultCreateCmd) Description() string { return "Создать новое хранилище на этом устройстве" }
func (vaultCreateCmd) Usage() string       { return "vault-create" }

func (vaultCreateCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, cleanup, err := openSyncer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	password, err := prompt.NewPassword(In, Out)
	if err != nil {
		return err
	}
	id, err := s.CreateVault(ctx, "", "")
	if err != nil {
		return err
	}
	if err := s.Unlock(ctx, password); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Vault created:")
	fmt.Fprintf(Out, "  id: %s\n", id.VaultID)
	fmt.Fprintln(Out, "Use this id with `vault-join` on other devices. The password cannot be recovered.")
	return nil
}

func init() { RegisterCmd(vaultCreateCmd{}) }
