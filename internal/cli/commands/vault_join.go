package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/cli/prompt"
	"JournalVault/internal/config"
)

type vaultJoinCmd struct{}

func (vaultJoinCmd) Name() string        { return "vault-join" }
func (vaultJoinCmd) Description() string { return "Подключить существующее хранилище по id" }
func (vaultJoinCmd) Usage() string       { return "vault-join <vault-id>" }

func (vaultJoinCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	s, cleanup, err := openSyncer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = cleanup() }()

	password, err := prompt.Password(In, Out, "Password")
	if err != nil {
		return err
	}
	if err := s.JoinVault(ctx, args[0], "", "", password); err != nil {
		return err
	}
	reportStatus(s)
	fmt.Fprintf(Out, "Joined vault %s, entries: %d\n", args[0], s.Document().Len())
	return nil
}

func init() { RegisterCmd(vaultJoinCmd{}) }
