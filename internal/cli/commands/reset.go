package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/config"
)

type resetCmd struct{}

func (resetCmd) Name() string { return "reset" }
func (resetCmd) Description() string {
	return "Забыть хранилище на этом устройстве (данные на сервере не трогаются)"
}
func (resetCmd) Usage() string { return "reset --yes" }

func (resetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] != "--yes" {
		return ErrUsage
	}
	s, done, err := openVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := s.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(Out, "Local vault data removed")
	return nil
}

func init() { RegisterCmd(resetCmd{}) }
