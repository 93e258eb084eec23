package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/config"
)

type entryDeleteCmd struct{}

func (entryDeleteCmd) Name() string { return "entry-delete" }
func (entryDeleteCmd) Description() string {
	return "Удалить запись локально (копия на сервере вернётся при слиянии)"
}
func (entryDeleteCmd) Usage() string { return "entry-delete <YYYY-MM-DD>" }

func (entryDeleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	s, done, err := unlockVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := s.DeleteEntry(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Deleted %s\n", args[0])
	return nil
}

func init() { RegisterCmd(entryDeleteCmd{}) }
