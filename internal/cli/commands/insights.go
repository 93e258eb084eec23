package commands

import (
	"context"
	"fmt"

	"JournalVault/internal/cli/service"
	"JournalVault/internal/config"
)

type insightsCmd struct{}

func (insightsCmd) Name() string        { return "insights" }
func (insightsCmd) Description() string { return "Статистика журнала" }
func (insightsCmd) Usage() string       { return "insights" }

func (insightsCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	s, done, err := unlockVault(ctx, cfg)
	if err != nil {
		return err
	}
	defer done()

	in := service.ComputeInsights(s.Document(), today())
	fmt.Fprintf(Out, "Entries:      %d\n", in.Total)
	if in.Total == 0 {
		return nil
	}
	fmt.Fprintf(Out, "Range:        %s … %s\n", in.FirstDate, in.LastDate)
	fmt.Fprintf(Out, "Streak:       %d days\n", in.Streak)
	fmt.Fprintf(Out, "Average mood: %.1f\n", in.AverageMood)
	for i, c := range in.MoodDistribution {
		if c > 0 {
			fmt.Fprintf(Out, "  %2d: %d\n", i+1, c)
		}
	}
	fmt.Fprintf(Out, "Energy notes: drained %d, gained %d\n", in.EnergyDrained, in.EnergyGained)
	if len(in.TopTags) > 0 {
		fmt.Fprintln(Out, "Top tags:")
		for _, t := range in.TopTags {
			fmt.Fprintf(Out, "  %s (%d)\n", t.Tag, t.Count)
		}
	}
	return nil
}

func init() { RegisterCmd(insightsCmd{}) }
