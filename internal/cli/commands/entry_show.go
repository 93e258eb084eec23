package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/cli/model"
	"JournalVault/internal/cli/model/view"
	"JournalVault/internal/cli/service"
	"JournalVault/internal/config"
)

type entryShowCmd struct{}

func (entryShowCmd) Name() string        { return "entry-show" }
func (entryShowCmd) Description() string { return "Показать запись за дату (по умолчанию сегодня)" }
func (entryShowCmd) Usage() string       { return "entry-show [<YYYY-MM-DD>]" }

func (entryShowCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	date := today()
	if len(args) == 1 {
		date = args[0]
	}
	if err := model.ValidateDateKey(date); err != nil {
		return err
	}
	s, done, err := unlockVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	e, ok, err := s.Entry(date)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", service.ErrEntryNotFound, date)
	}
	v := view.FromEntry(e)
	fmt.Fprintf(Out, "Date:    %s\n", v.Date)
	fmt.Fprintf(Out, "Title:   %s\n", v.Title)
	fmt.Fprintf(Out, "Mood:    %d/%d\n", v.Mood, model.MoodMax)
	fmt.Fprintf(Out, "Tags:    %s\n", v.Tags)
	if v.EnergyDrained != "" {
		fmt.Fprintf(Out, "Drained: %s\n", v.EnergyDrained)
	}
	if v.EnergyGained != "" {
		fmt.Fprintf(Out, "Gained:  %s\n", v.EnergyGained)
	}
	fmt.Fprintf(Out, "Updated: %s\n\n%s\n", v.UpdatedAt, v.Text)
	return nil
}

func init() { RegisterCmd(entryShowCmd{}) }
