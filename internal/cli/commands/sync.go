package commands

import (
	"context"
	"errors"
	"fmt"

	"JournalVault/internal/cli/service"
	"JournalVault/internal/config"
)

type syncCmd struct{}

func (syncCmd) Name() string { return "sync" }
func (syncCmd) Description() string {
	return "Подтянуть изменения с сервера и отправить локальные"
}
func (syncCmd) Usage() string { return "sync" }

func (syncCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := unlockVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	fmt.Fprintln(Out, "→ Синхронизация…")
	if err := s.Sync(ctx); err != nil {
		if errors.Is(err, service.ErrOffline) {
			fmt.Fprintf(Out, "× Сервер недоступен (%s), изменения остаются локально\n", s.Status())
			return nil
		}
		return err
	}
	fmt.Fprintf(Out, "✓ Записей: %d\n", s.Document().Len())
	return nil
}

func init() { RegisterCmd(syncCmd{}) }
