package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/config"
)

type deleteRemoteCmd struct{}

func (deleteRemoteCmd) Name() string { return "delete-remote" }
func (deleteRemoteCmd) Description() string {
	return "Удалить зашифрованную копию журнала с сервера"
}
func (deleteRemoteCmd) Usage() string { return "delete-remote --yes" }

func (deleteRemoteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] != "--yes" {
		return ErrUsage
	}
	s, done, err := openVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := s.DeleteRemote(ctx); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Remote copy deleted")
	return nil
}

func init() { RegisterCmd(deleteRemoteCmd{}) }
