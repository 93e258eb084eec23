package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/config"
)

type rotateKeyCmd struct{}

func (rotateKeyCmd) Name() string        { return "rotate-key" }
func (rotateKeyCmd) Description() string { return "Сохранить новый API-ключ сервера для хранилища" }
func (rotateKeyCmd) Usage() string       { return "rotate-key <api-key>" }

func (rotateKeyCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || args[0] == "" {
		return ErrUsage
	}
	s, done, err := openVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := s.RotateCredential(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(Out, "API key updated")
	return nil
}

func init() { RegisterCmd(rotateKeyCmd{}) }
