package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/cli/model/view"
	"JournalVault/internal/config"
)

type entriesCmd struct{}

func (entriesCmd) Name() string { return "entries" }
func (entriesCmd) Description() string {
	return "Показать все записи"
}
func (entriesCmd) Usage() string { return "entries" }

func (entriesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := unlockVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	list, err := s.Entries()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "Нет записей")
		return nil
	}
	for _, e := range list {
		v := view.FromEntry(e)
		fmt.Fprintf(Out, "- %s  mood=%d  %s  %s\n", v.Date, v.Mood, v.Title, v.Preview(40))
	}
	fmt.Fprintf(Out, "Всего: %d\n", len(list))
	return nil
}

func init() { RegisterCmd(entriesCmd{}) }
